package translate

import (
	"fmt"

	"go.uber.org/zap"
)

// EngineType selects the translation strategy.
type EngineType string

const (
	EngineDictionary EngineType = "dictionary"
	EngineGemini     EngineType = "gemini"
)

// Config holds what the factory needs to build a Translator.
type Config struct {
	Engine       EngineType
	GeminiAPIKey string
	GeminiModel  string
}

// NewTranslator builds the configured strategy. Both strategies satisfy the
// same Translator capability, so the rest of the service never branches on
// the engine.
func NewTranslator(cfg Config, log *zap.SugaredLogger) (Translator, error) {
	switch cfg.Engine {
	case EngineDictionary:
		return NewDictionary(DefaultEntries()), nil
	case EngineGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini engine requires an API key")
		}
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, log), nil
	default:
		return nil, fmt.Errorf("unknown translation engine: %s", cfg.Engine)
	}
}

// ParseEngineType parses a config string into an EngineType.
func ParseEngineType(s string) (EngineType, error) {
	switch s {
	case "dictionary", "":
		return EngineDictionary, nil
	case "gemini":
		return EngineGemini, nil
	default:
		return "", fmt.Errorf("unknown translation engine: %s (supported: dictionary, gemini)", s)
	}
}
