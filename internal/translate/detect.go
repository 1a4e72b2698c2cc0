package translate

// Language is one of the two supported language tags.
type Language string

const (
	English Language = "en"
	Tamil   Language = "ta"
)

// Name returns the full language name used in translation prompts.
func (l Language) Name() string {
	if l == Tamil {
		return "Tamil"
	}
	return "English"
}

// Tamil Unicode block.
const (
	tamilRangeLow  = 0x0B80
	tamilRangeHigh = 0x0BFF
)

// Detect classifies text as Tamil if any rune falls inside the Tamil Unicode
// block, English otherwise. Total: every string, including the empty one,
// maps to exactly one tag.
func Detect(text string) Language {
	for _, r := range text {
		if r >= tamilRangeLow && r <= tamilRangeHigh {
			return Tamil
		}
	}
	return English
}
