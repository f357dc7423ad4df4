package classify

import (
	"testing"

	"market-scraper/models"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Coque de protection iPhone 13", models.CategoryAccessory},
		{"Samsung Galaxy S21 128GB", models.CategorySmartphone},
		{"Xiaomi Redmi Note 12", models.CategorySmartphone},
		{"Smartphone Tecno Spark 20 - 8Go/256Go", models.CategorySmartphone},
		{"ÉCOUTEURS Bluetooth sans fil", models.CategoryAccessory},
		{"Verre Trempé Galaxy A54", models.CategoryAccessory},
		{"Google Pixel Buds Pro", models.CategoryAccessory},
		{"Apple Watch Series 9", models.CategoryAccessory},
		{"Lenovo IdeaPad Slim 3", models.CategoryOther},
		{"Xiaomi Redmi Pad SE 11 pouces 128 Go", models.CategoryOther},
		{"HUAWEI MatePad 11.5 Tablette", models.CategoryOther},
		{"Google Pixel Tablet 128GB", models.CategoryOther},
		{"Samsung Galaxy Tab A9+", models.CategoryOther},
		{"OnePlus Pad 2 12GB", models.CategoryOther},
		{"Huawei Mate 60 Pro", models.CategorySmartphone},
		{"Google Pixel 8a 128 Go", models.CategorySmartphone},
		{"", models.CategoryOther},
	}

	for _, tt := range tests {
		if got := Category(tt.title); got != tt.want {
			t.Errorf("Category(%q) = %q; want %q", tt.title, got, tt.want)
		}
	}
}

func TestCategoryBlocklistDominates(t *testing.T) {
	titles := []string{
		"Galaxy S21 + case included",
		"iPhone 15 Pro avec chargeur",
		"Redmi Note 13 film protecteur offert",
		"Smartphone holder for car",
	}
	for _, title := range titles {
		if got := Category(title); got != models.CategoryAccessory {
			t.Errorf("Category(%q) = %q; want %q", title, got, models.CategoryAccessory)
		}
	}
}

func TestCategoryRuleOrder(t *testing.T) {
	rules := NewCategoryClassifier().Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(rules))
	}
	if rules[0].Result != models.CategoryAccessory {
		t.Errorf("first tier must be the accessory blocklist, got %q", rules[0].Result)
	}
	for _, kw := range rules[0].Keywords {
		if kw != Fold(kw) {
			t.Errorf("keyword %q not folded", kw)
		}
	}
}

func TestCategoryExclusion(t *testing.T) {
	c := newCategoryClassifier([]Rule{
		{Name: "phones", Keywords: []string{"phone"}, Exclude: []string{"headphone"}, Result: models.CategorySmartphone},
	})
	if got := c.Classify("Headphone stand"); got != models.CategoryOther {
		t.Errorf("excluded title: got %q", got)
	}
	if got := c.Classify("Phone X"); got != models.CategorySmartphone {
		t.Errorf("plain title: got %q", got)
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Étui  Galaxy":      "etui galaxy",
		"Téléphone Portable": "telephone portable",
		"  ":                 "",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q; want %q", in, got, want)
		}
	}
}
