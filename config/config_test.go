package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRICE_FLOOR", "")
	t.Setenv("EXCHANGE_RATE", "")
	t.Setenv("MERGE_POLICY", "")
	t.Setenv("KEYWORDS", "")

	cfg := Load()
	if cfg.PriceFloor != 40 {
		t.Errorf("PriceFloor: got %v, want 40", cfg.PriceFloor)
	}
	if cfg.ExchangeRate != 11 {
		t.Errorf("ExchangeRate: got %v, want 11", cfg.ExchangeRate)
	}
	if cfg.MergePolicy != MergeAbort {
		t.Errorf("MergePolicy: got %q, want %q", cfg.MergePolicy, MergeAbort)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "smartphone" {
		t.Errorf("Keywords: got %v", cfg.Keywords)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRICE_FLOOR", "55.5")
	t.Setenv("EXCHANGE_RATE", "10.8")
	t.Setenv("MERGE_POLICY", "Available")
	t.Setenv("KEYWORDS", "iphone, galaxy ,,")
	t.Setenv("DEDUPE", "no")

	cfg := Load()
	if cfg.PriceFloor != 55.5 {
		t.Errorf("PriceFloor: got %v", cfg.PriceFloor)
	}
	if cfg.ExchangeRate != 10.8 {
		t.Errorf("ExchangeRate: got %v", cfg.ExchangeRate)
	}
	if cfg.MergePolicy != MergeAvailable {
		t.Errorf("MergePolicy: got %q", cfg.MergePolicy)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[1] != "galaxy" {
		t.Errorf("Keywords: got %v", cfg.Keywords)
	}
	if cfg.Dedupe {
		t.Error("Dedupe should be false")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{ExchangeRate: 11, PriceFloor: 40, MergePolicy: MergeAbort, StorageBackend: "csv"}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := []func(c *Config){
		func(c *Config) { c.ExchangeRate = 0 },
		func(c *Config) { c.PriceFloor = -1 },
		func(c *Config) { c.MergePolicy = "partial" },
		func(c *Config) { c.StorageBackend = "mongo" },
	}
	for i, mutate := range bad {
		c := base()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
