package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/phrazzld/scry-match/internal/config"
	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/generation"
	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/phrazzld/scry-match/internal/store"
	"google.golang.org/genai"
)

// maxNotesRunes bounds how much of a session's markdown goes into a prompt.
const maxNotesRunes = 12000

// contentGenerator is the slice of the genai client the generator uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// SessionSource looks up the material a prompt is built from.
// store.SessionStore satisfies it.
type SessionSource interface {
	Get(ctx context.Context, id string) (*domain.TutorSession, error)
}

// GeminiGenerator implements generation.RoundGenerator using Google's
// Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	models         contentGenerator
	sessions       SessionSource
	policy         generation.RetryPolicy
}

var _ generation.RoundGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator that reads session material from
// sessions and calls the model named in cfg.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	sessions SessionSource,
) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	tmpl, err := LoadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, tmpl, client.Models, sessions)
}

func newGenerator(
	logger *slog.Logger,
	cfg config.LLMConfig,
	tmpl *template.Template,
	models contentGenerator,
	sessions SessionSource,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if sessions == nil {
		return nil, errors.New("session source cannot be nil")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.RoundsPerBatch < 1 || cfg.PairsPerRound < 2 {
		return nil, fmt.Errorf("%w: need at least 1 round of 2 pairs, got %d rounds of %d pairs",
			generation.ErrInvalidConfig, cfg.RoundsPerBatch, cfg.PairsPerRound)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: tmpl,
		models:         models,
		sessions:       sessions,
		policy: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryDelay(),
		},
	}, nil
}

// LoadPromptTemplate reads and parses the prompt template at path.
func LoadPromptTemplate(path string) (*template.Template, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: prompt template path cannot be empty", generation.ErrInvalidConfig)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			generation.ErrInvalidConfig, path, err)
	}
	return ParsePromptTemplate(string(content))
}

// ParsePromptTemplate parses a prompt template. Templates may call join.
func ParsePromptTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("match_pairs").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

// GenerateRounds implements generation.RoundGenerator.
func (g *GeminiGenerator) GenerateRounds(ctx context.Context, req generation.Request) ([]domain.Round, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	session, err := g.sessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, generation.ErrSessionNotFound) || store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", generation.ErrSessionNotFound, req.SessionID)
		}
		return nil, fmt.Errorf("%w: failed to load session: %v", generation.ErrGenerationFailed, err)
	}
	if !session.HasMaterial() {
		return nil, &generation.DetailError{
			Detail: noMaterialDetail,
			Err:    fmt.Errorf("%w: %w", generation.ErrGenerationFailed, ErrNoMaterial),
		}
	}

	prompt, err := g.createPrompt(ctx, session, req.Nuances)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	var resp *ResponseSchema
	err = generation.Retry(ctx, log, g.policy, func(ctx context.Context, attempt int) error {
		log.InfoContext(ctx, "making Gemini API call",
			"session_id", req.SessionID,
			"attempt", attempt+1,
			"max_attempts", g.policy.MaxRetries+1)
		var callErr error
		resp, callErr = g.callGemini(ctx, prompt)
		return callErr
	})
	if err != nil {
		if !errors.Is(err, generation.ErrTransientFailure) {
			err = fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
		}
		return nil, err
	}

	if len(resp.Games) == 0 {
		return nil, generation.ErrNoRounds
	}

	rounds := make([]domain.Round, 0, len(resp.Games))
	for _, game := range resp.Games {
		rounds = append(rounds, domain.Round{Pairs: game.Pairs, Why: game.Why})
	}

	log.InfoContext(ctx, "rounds generated",
		"session_id", req.SessionID,
		"rounds", len(rounds))
	return rounds, nil
}

// createPrompt renders the template with the session's material.
func (g *GeminiGenerator) createPrompt(
	ctx context.Context,
	session *domain.TutorSession,
	nuances []string,
) (string, error) {
	data := promptData{
		Rounds:       g.config.RoundsPerBatch,
		Pairs:        g.config.PairsPerRound,
		Nuances:      nuances,
		CoreConcepts: session.CoreConcepts,
		Definitions:  session.Definitions,
		Examples:     session.Examples,
		Notes:        truncateRunes(strings.TrimSpace(session.CleanMarkdown), maxNotesRunes),
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	prompt := buf.String()
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	g.logger.DebugContext(ctx, "prompt generated",
		"session_id", session.ID,
		"prompt_length", len(prompt))
	return prompt, nil
}

// callGemini makes one API call. API failures wrap ErrTransientFailure
// unless the status says the request itself is bad.
func (g *GeminiGenerator) callGemini(ctx context.Context, prompt string) (*ResponseSchema, error) {
	resp, err := g.models.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && blocked(string(resp.PromptFeedback.BlockReason)) {
		return nil, fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(stripCodeFence(text.String())), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// classifyAPIError marks client errors other than 429 as permanent.
func classifyAPIError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.Code
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return fmt.Errorf("%w: gemini API rejected request (%d): %v",
				generation.ErrInvalidConfig, code, err)
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

func blocked(reason string) bool {
	return reason != "" && reason != "BLOCKED_REASON_UNSPECIFIED"
}

// stripCodeFence removes a surrounding ```json fence some models add even
// in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
