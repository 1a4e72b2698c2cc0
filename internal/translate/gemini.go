package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiTimeout = 30 * time.Second
)

// GeminiTranslator delegates translation to the Google Generative Language
// API with a fixed instruction prompt. Call failures are returned to the
// caller; the orchestrator degrades them to passthrough text.
type GeminiTranslator struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewGemini(apiKey, model string, log *zap.SugaredLogger) *GeminiTranslator {
	return &GeminiTranslator{
		baseURL:    defaultGeminiBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultGeminiTimeout},
		log:        log,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiTranslator) Translate(ctx context.Context, text string, source, target Language) (string, error) {
	if source == target {
		return text, nil
	}

	prompt := fmt.Sprintf(`Translate the following text into %s while preserving its original tone, context, and meaning:

Text: %q

Provide only the translated text in the response.`, target.Name(), text)

	payload := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(&payload); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}

	g.log.Debugw("gemini translation completed",
		"source", source, "target", target, "duration_ms", time.Since(start).Milliseconds())
	return gr.Candidates[0].Content.Parts[0].Text, nil
}
