package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/scry-match/internal/config"
	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/generation"
	"github.com/phrazzld/scry-match/internal/platform/logger"
	"github.com/phrazzld/scry-match/internal/redact"
)

const (
	generatePath = "/api/game/generate"
	answerPath   = "/api/game/answer"
	sessionPath  = "/api/session/"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Client talks to the tutoring service. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	policy     generation.RetryPolicy
	logger     *slog.Logger
}

// Ensure Client implements the generation interfaces
var (
	_ generation.RoundGenerator   = (*Client)(nil)
	_ generation.AnswerReporter   = (*Client)(nil)
	_ generation.SessionValidator = (*Client)(nil)
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryPolicy replaces the retry policy derived from the configuration.
func WithRetryPolicy(p generation.RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// NewClient creates a client for the service at cfg.BaseURL.
func NewClient(cfg config.TutorConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		policy: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryDelay(),
		},
		logger: logger.With(slog.String("component", "tutor_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateRounds implements generation.RoundGenerator. Rounds are returned
// as sent; the game drops malformed ones.
func (c *Client) GenerateRounds(ctx context.Context, req generation.Request) ([]domain.Round, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	nuances := req.Nuances
	if nuances == nil {
		nuances = []string{}
	}
	body := generateRequest{SessionID: req.SessionID, GameType: req.GameType, Nuances: nuances}

	var resp generateResponse
	err := generation.Retry(ctx, log, c.policy, func(ctx context.Context, attempt int) error {
		log.Debug("requesting rounds",
			"session_id", req.SessionID,
			"attempt", attempt+1)
		return c.do(ctx, http.MethodPost, generatePath, body, &resp)
	})
	if err != nil {
		if generation.Detail(err) == "" && !errors.Is(err, generation.ErrTransientFailure) {
			err = fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
		}
		return nil, err
	}

	if resp.Response == nil || len(resp.Response.Games) == 0 {
		return nil, generation.ErrNoRounds
	}

	rounds := make([]domain.Round, 0, len(resp.Response.Games))
	for _, g := range resp.Response.Games {
		rounds = append(rounds, domain.Round{Pairs: g.Pairs, Why: g.Why})
	}

	log.Info("rounds received",
		"session_id", req.SessionID,
		"rounds", len(rounds))
	return rounds, nil
}

// ReportAnswer implements generation.AnswerReporter. It makes one attempt;
// reporting is best effort.
func (c *Client) ReportAnswer(ctx context.Context, answer generation.Answer) error {
	selected := answer.Selected
	if selected == nil {
		selected = []string{}
	}
	body := answerRequest{
		SessionID: answer.SessionID,
		GameType:  answer.GameType,
		IsCorrect: answer.IsCorrect,
		Selected:  selected,
	}
	return c.do(ctx, http.MethodPost, answerPath, body, nil)
}

// ValidateSession implements generation.SessionValidator.
func (c *Client) ValidateSession(ctx context.Context, sessionID string) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	err := generation.Retry(ctx, log, c.policy, func(ctx context.Context, _ int) error {
		return c.do(ctx, http.MethodGet, sessionPath+url.PathEscape(sessionID), nil, nil)
	})

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", generation.ErrSessionNotFound, sessionID)
	}
	return err
}

// do sends one request. Network failures and transient statuses wrap
// generation.ErrTransientFailure. out may be nil to discard the body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
		log.Warn("tutor service request failed",
			"method", method,
			"path", path,
			redact.Attr(err))
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", generation.ErrTransientFailure, err)
	}

	log.Debug("tutor service response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, parseDetail(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	return nil
}

// parseDetail extracts a string "detail" field from an error body.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
