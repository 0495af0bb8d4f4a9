package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/model"
)

const systemPrompt = "Eres un asistente de accesibilidad web."

// OpenAIAdvisor generates suggestions through an OpenAI-compatible
// chat-completions endpoint.
type OpenAIAdvisor struct {
	cfg    Config
	httpc  *http.Client
	logger logging.Logger
}

var _ Advisor = (*OpenAIAdvisor)(nil)

// NewOpenAIAdvisor creates an advisor for the given config. Zero-valued
// options fall back to DefaultConfig values.
func NewOpenAIAdvisor(cfg Config, logger logging.Logger) *OpenAIAdvisor {
	def := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	return &OpenAIAdvisor{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Suggest asks the model for one tagged suggestion block per violation and
// parses the reply into a SuggestionSet. The violations are embedded in the
// prompt as JSON.
func (a *OpenAIAdvisor) Suggest(ctx context.Context, violations []model.Violation, url string) (*model.SuggestionSet, error) {
	prompt, err := renderPrompt(violations, url)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	endpoint := strings.TrimRight(a.cfg.Endpoint, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	set := ParseSuggestions(strings.TrimSpace(out.Choices[0].Message.Content))

	if a.logger != nil {
		a.logger.Debug("generated suggestions",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "violations", Value: len(violations)},
			logging.Field{Key: "suggestions", Value: len(set.Violations)},
			logging.Field{Key: "elapsed", Value: time.Since(start).String()})
	}

	return set, nil
}

func renderPrompt(violations []model.Violation, url string) (string, error) {
	encoded, err := json.MarshalIndent(violations, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Aquí tienes un JSON con problemas de accesibilidad encontrados en ")
	b.WriteString(url)
	b.WriteString(" (clave 'violations'). ")
	b.WriteString("Proporciona una sugerencia estructurada en español para cada violación en el siguiente formato:\n")
	b.WriteString("Problema: [Descripción del problema]\n")
	b.WriteString("Solución: [Descripción de la solución]\n")
	b.WriteString("Ejemplo de Código: [Ejemplo de código en una sola línea si es necesario]\n\n")
	b.WriteString("No devuelvas JSON ni bloques de código, solo el texto estructurado en el formato anterior.\n\n")
	b.WriteString(string(encoded))
	return b.String(), nil
}
