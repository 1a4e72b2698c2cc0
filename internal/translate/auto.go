package translate

import (
	"context"

	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/metrics"
)

// Result is the outcome of one auto-translation. IsTranslated is true only
// when the returned text is non-empty and actually differs from the input;
// a failed or empty translation degrades to the original text with the flag
// unset.
type Result struct {
	TranslatedText   string
	DetectedLanguage Language
	IsTranslated     bool
}

// AutoTranslator detects the source language and invokes the underlying
// Translator only when translation is needed.
type AutoTranslator struct {
	tr     Translator
	engine string
	log    *zap.SugaredLogger
}

func NewAutoTranslator(tr Translator, engine EngineType, log *zap.SugaredLogger) *AutoTranslator {
	return &AutoTranslator{tr: tr, engine: string(engine), log: log}
}

// AutoTranslate never fails: translator errors are logged and degrade to
// passthrough of the original text.
func (a *AutoTranslator) AutoTranslate(ctx context.Context, text string, target Language) Result {
	detected := Detect(text)
	if detected == target {
		return Result{TranslatedText: text, DetectedLanguage: detected, IsTranslated: false}
	}

	translated, err := a.tr.Translate(ctx, text, detected, target)
	if err != nil {
		a.log.Warnw("translation failed, falling back to original text",
			"target", target, "error", err)
		metrics.TranslationRequests.WithLabelValues(a.engine, "error").Inc()
		translated = ""
	} else {
		metrics.TranslationRequests.WithLabelValues(a.engine, "success").Inc()
	}

	if translated == "" {
		return Result{TranslatedText: text, DetectedLanguage: detected, IsTranslated: false}
	}
	return Result{
		TranslatedText:   translated,
		DetectedLanguage: detected,
		IsTranslated:     translated != text,
	}
}
