package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/lumina/internal/config"
	"github.com/phrazzld/lumina/internal/domain"
)

const promptText = `Define the English word "{{.Word}}" for a vocabulary notebook.
Return JSON of the form {"definitions":[{"partOfSpeech":"...","definition":"...","example":"..."}]}
with at most {{.MaxDefinitions}} entries, most common sense first.
partOfSpeech must be one of: {{range $i, $p := .PartsOfSpeech}}{{if $i}}, {{end}}{{$p}}{{end}}.
Keep each definition to one sentence and each example under 200 characters.`

// Defaults for retries.
const (
	DefaultMaxRetries     = 2
	DefaultRetryBaseDelay = time.Second
	DefaultMaxDefinitions = 3
)

// contentGenerator is the subset of the genai client used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements dictionary.Provider on top of Gemini.
type Generator struct {
	logger         *slog.Logger
	models         contentGenerator
	model          string
	prompt         *template.Template
	maxDefinitions int
	maxRetries     int
	baseDelay      time.Duration
	rng            *rand.Rand
}

// NewGenerator creates a Generator from cfg. It fails when no API key is set.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg.ModelName)
}

func newGenerator(logger *slog.Logger, models contentGenerator, model string) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	tmpl, err := template.New("definition").Parse(promptText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}
	return &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		models:         models,
		model:          model,
		prompt:         tmpl,
		maxDefinitions: DefaultMaxDefinitions,
		maxRetries:     DefaultMaxRetries,
		baseDelay:      DefaultRetryBaseDelay,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Lookup implements dictionary.Provider.
func (g *Generator) Lookup(ctx context.Context, word string) ([]domain.WordDefinition, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}

	prompt, err := g.createPrompt(word)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return g.parseResponse(ctx, response)
}

func (g *Generator) createPrompt(word string) (string, error) {
	var buf bytes.Buffer
	err := g.prompt.Execute(&buf, promptData{
		Word:           word,
		MaxDefinitions: g.maxDefinitions,
		PartsOfSpeech:  domain.PartsOfSpeech,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the model, retrying transient failures with
// exponential backoff and jitter.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (*ResponseSchema, error) {
	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		response, err := g.call(ctx, prompt)
		if err == nil {
			g.logger.DebugContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return response, nil
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidResponse) {
			return nil, err
		}
		if attempt >= g.maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				ErrTransientFailure, g.maxRetries, err)
		}

		// delay = base * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(g.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + g.rng.Float64()*0.5))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
		}
	}
}

func (g *Generator) call(ctx context.Context, prompt string) (*ResponseSchema, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	switch {
	case err != nil:
		return nil, err
	case resp == nil:
		return nil, fmt.Errorf("%w: nil response", ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return nil, fmt.Errorf("%w: no content generated", ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return nil, ErrContentBlocked
	case resp.Candidates[0].Content == nil:
		return nil, fmt.Errorf("%w: empty content in response", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(text.String()), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// parseResponse converts the model output into local definitions, dropping
// unusable entries and enforcing the cap.
func (g *Generator) parseResponse(ctx context.Context, response *ResponseSchema) ([]domain.WordDefinition, error) {
	defs := make([]domain.WordDefinition, 0, g.maxDefinitions)
	for _, d := range response.Definitions {
		if len(defs) >= g.maxDefinitions {
			break
		}
		def := domain.WordDefinition{
			PartOfSpeech: domain.NormalizePartOfSpeech(d.PartOfSpeech),
			Definition:   strings.TrimSpace(d.Definition),
			Example:      truncate(strings.TrimSpace(d.Example), 200),
		}
		if !def.Usable() {
			continue
		}
		defs = append(defs, def)
	}
	g.logger.DebugContext(ctx, "parsed generated definitions", "count", len(defs))
	return defs, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
