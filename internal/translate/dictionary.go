package translate

import (
	"context"
	"fmt"
	"strings"
)

// DictionaryTranslator translates by exact phrase lookup against an
// immutable pair of tables built at construction. Unknown phrases come back
// wrapped in a locale-tagged fallback marker rather than as an error.
type DictionaryTranslator struct {
	enToTA map[string]string
	taToEN map[string]string
}

// NewDictionary builds a translator from english→tamil entries. Forward
// lookups are keyed on the lowercased English phrase; the reverse table is
// derived from the same entries.
func NewDictionary(entries map[string]string) *DictionaryTranslator {
	forward := make(map[string]string, len(entries))
	reverse := make(map[string]string, len(entries))
	for en, ta := range entries {
		forward[strings.ToLower(en)] = ta
		reverse[ta] = strings.ToLower(en)
	}
	return &DictionaryTranslator{enToTA: forward, taToEN: reverse}
}

// DefaultEntries returns the stock english→tamil phrase table.
func DefaultEntries() map[string]string {
	return map[string]string{
		"hello":              "வணக்கம்",
		"how are you":        "நீங்கள் எப்படி இருக்கிறீர்கள்",
		"good morning":       "காலை வணக்கம்",
		"good night":         "இனிய இரவு",
		"thank you":          "நன்றி",
		"welcome":            "வரவேற்கிறோம்",
		"yes":                "ஆம்",
		"no":                 "இல்லை",
		"what is your name":  "உங்கள் பெயர் என்ன",
		"my name is":         "என் பெயர்",
		"how is the weather": "வானிலை எப்படி உள்ளது",
		"i like this app":    "எனக்கு இந்த ஆப் பிடித்துள்ளது",
		"nice to meet you":   "உங்களை சந்தித்ததில் மகிழ்ச்சி",
		"what are you doing": "நீங்கள் என்ன செய்கிறீர்கள்",
		"i am learning tamil": "நான் தமிழ் கற்றுக்கொள்கிறேன்",
		"see you later":      "பின்னர் பார்க்கலாம்",
	}
}

// Translate never fails: a missing entry yields the fallback marker.
func (d *DictionaryTranslator) Translate(_ context.Context, text string, source, target Language) (string, error) {
	if source == target {
		return text, nil
	}
	if source == English && target == Tamil {
		if ta, ok := d.enToTA[strings.ToLower(text)]; ok {
			return ta, nil
		}
		return fmt.Sprintf("[தமிழில்: %s]", text), nil
	}
	if source == Tamil && target == English {
		if en, ok := d.taToEN[text]; ok {
			return en, nil
		}
		return fmt.Sprintf("[Translated: %s]", text), nil
	}
	return text, nil
}
