package classify

import (
	ahocorasick "github.com/cloudflare/ahocorasick"

	"market-scraper/models"
)

// accessoryKeywords is the blocklist. Any hit classifies the title as an
// accessory, whatever else the title mentions.
var accessoryKeywords = []string{
	// cases and covers
	"coque", "etui", "housse", "pochette", "bumper", "case",
	"flip cover", "back cover", "cover for", "protection",
	// screen films
	"film", "verre trempe", "vitre", "protege", "protection ecran",
	"screen protector", "tempered glass",
	// charging
	"chargeur", "charger", "cable", "adaptateur", "adapter", "power bank",
	"powerbank", "batterie externe", "station de charge", "magsafe",
	"chargeur sans fil", "wireless charger", "dock",
	// audio
	"ecouteur", "earbuds", "earphone", "buds", "casque", "headphone",
	"headset", "airpods", "enceinte", "haut-parleur", "bluetooth speaker",
	// mounts and stabilizers
	"support telephone", "support de telephone", "support voiture",
	"support magnetique", "trepied", "tripod", "stabilisateur", "gimbal",
	"perche", "selfie stick", "baton selfie", "ring light", "holder",
	// wearables
	"montre", "watch", "bracelet", "smart band", "mi band", "fitness tracker",
	// storage media
	"carte memoire", "carte sd", "micro sd", "microsd", "cle usb",
	"memory card",
	// misc
	"stylet", "stylus", "popsocket", "anneau", "lanyard", "dragonne",
	"objectif pour telephone", "lens kit", "sticker", "skin", "pieces detachees",
	"ecran de remplacement", "replacement screen", "batterie de remplacement",
	"replacement battery",
}

// smartphoneKeywords is the allowlist consulted only after the blocklist.
var smartphoneKeywords = []string{
	"smartphone", "telephone portable", "telephone mobile", "mobile phone",
	"iphone", "galaxy s", "galaxy a", "galaxy z", "galaxy note", "galaxy m",
	"redmi", "poco", "pixel", "oneplus", "huawei p", "huawei mate",
	"huawei nova", "honor x", "honor magic", "oppo reno", "oppo a", "oppo find",
	"realme", "tecno spark", "tecno camon", "tecno pova", "tecno pop",
	"infinix hot", "infinix note", "infinix smart", "infinix zero", "nokia",
	"moto g", "moto e", "motorola edge", "razr", "vivo y", "vivo v",
	"zte blade", "wiko", "xperia", "dual sim",
}

// tabletKeywords guard the allowlist: phone model families also name tablets
// ("Redmi Pad", "Pixel Tablet", "MatePad").
var tabletKeywords = []string{
	"tablet", "tablette", "ipad", "matepad", "redmi pad", "xiaomi pad",
	"galaxy tab", "honor pad", "oppo pad", "oneplus pad", "realme pad",
	"lenovo tab",
}

var categoryRules = []Rule{
	{Name: "accessory-blocklist", Keywords: accessoryKeywords, Result: models.CategoryAccessory},
	{Name: "smartphone-allowlist", Keywords: smartphoneKeywords, Exclude: tabletKeywords, Result: models.CategorySmartphone},
}

type tier struct {
	rule    Rule
	matcher *ahocorasick.Matcher
	exclude *ahocorasick.Matcher
}

// CategoryClassifier assigns smartphone, accessoire or other to titles.
type CategoryClassifier struct {
	tiers []tier
}

// NewCategoryClassifier compiles the blocklist-first rule table.
func NewCategoryClassifier() *CategoryClassifier {
	return newCategoryClassifier(categoryRules)
}

func newCategoryClassifier(rules []Rule) *CategoryClassifier {
	c := &CategoryClassifier{tiers: make([]tier, 0, len(rules))}
	for _, r := range rules {
		r.Keywords = foldAll(r.Keywords)
		r.Exclude = foldAll(r.Exclude)
		t := tier{rule: r}
		if len(r.Keywords) > 0 {
			t.matcher = ahocorasick.NewStringMatcher(r.Keywords)
		}
		if len(r.Exclude) > 0 {
			t.exclude = ahocorasick.NewStringMatcher(r.Exclude)
		}
		c.tiers = append(c.tiers, t)
	}
	return c
}

// Rules returns the ordered rule table with folded keywords.
func (c *CategoryClassifier) Rules() []Rule {
	out := make([]Rule, 0, len(c.tiers))
	for _, t := range c.tiers {
		out = append(out, t.rule)
	}
	return out
}

// Classify returns the category for title. It never returns "".
func (c *CategoryClassifier) Classify(title string) string {
	folded := []byte(Fold(title))
	if len(folded) == 0 {
		return models.CategoryOther
	}
	for _, t := range c.tiers {
		if t.matcher == nil || len(t.matcher.MatchThreadSafe(folded)) == 0 {
			continue
		}
		if t.exclude != nil && len(t.exclude.MatchThreadSafe(folded)) > 0 {
			continue
		}
		return t.rule.Result
	}
	return models.CategoryOther
}

var defaultCategories = NewCategoryClassifier()

// Category classifies title with the default rule table.
func Category(title string) string {
	return defaultCategories.Classify(title)
}
