package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/scry-match/internal/config"
	"github.com/phrazzld/scry-match/internal/domain"
	"github.com/phrazzld/scry-match/internal/generation"
	"github.com/phrazzld/scry-match/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const batchJSON = `{"games":[
	{"pairs":{"Mitochondria":"Powerhouse of the cell","Ribosome":"Builds proteins"},
	 "why":{"Mitochondria":"It produces ATP."}},
	{"pairs":{"Nucleus":"Holds DNA","Golgi":"Packages proteins"}}
]}`

// fakeModels records prompts and replays canned results in order. The last
// result repeats once the list is exhausted.
type fakeModels struct {
	mu      sync.Mutex
	results []fakeResult
	prompts []string
	configs []*genai.GenerateContentConfig
	models  []string
}

type fakeResult struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prompt strings.Builder
	for _, c := range contents {
		for _, p := range c.Parts {
			prompt.WriteString(p.Text)
		}
	}
	f.prompts = append(f.prompts, prompt.String())
	f.configs = append(f.configs, cfg)
	f.models = append(f.models, model)

	i := len(f.prompts) - 1
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i].resp, f.results[i].err
}

func (f *fakeModels) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func biologySession() *domain.TutorSession {
	return &domain.TutorSession{
		ID:           "session-1",
		CoreConcepts: []string{"Cell organelles"},
		Definitions:  []string{"Mitochondria: powerhouse of the cell"},
		Examples:     []string{"Muscle cells have many mitochondria"},
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-key",
		ModelName:         "gemini-test",
		MaxRetries:        2,
		RetryDelaySeconds: 1,
		RoundsPerBatch:    2,
		PairsPerRound:     4,
	}
}

func newTestGenerator(t *testing.T, models *fakeModels, sessions ...*domain.TutorSession) *GeminiGenerator {
	t.Helper()

	tmpl, err := LoadPromptTemplate(filepath.Join("..", "..", "..", "prompts", "match_pairs.txt"))
	require.NoError(t, err)

	g, err := newGenerator(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testConfig(),
		tmpl,
		models,
		mocks.NewMockSessionStore(sessions...),
	)
	require.NoError(t, err)
	g.policy.Wait = func(context.Context, time.Duration) error { return nil }
	return g
}

func request() generation.Request {
	return generation.Request{SessionID: "session-1", GameType: domain.GameTypeMatchPairs, Nuances: []string{}}
}

func TestGenerateRounds_Success(t *testing.T) {
	t.Parallel()

	models := &fakeModels{results: []fakeResult{{resp: textResponse(batchJSON)}}}
	g := newTestGenerator(t, models, biologySession())

	rounds, err := g.GenerateRounds(context.Background(), request())
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "Powerhouse of the cell", rounds[0].Pairs["Mitochondria"])
	assert.Equal(t, "It produces ATP.", rounds[0].Why["Mitochondria"])
	assert.Nil(t, rounds[1].Why)

	require.Equal(t, 1, models.calls())
	assert.Equal(t, "gemini-test", models.models[0])
	require.NotNil(t, models.configs[0])
	assert.Equal(t, "application/json", models.configs[0].ResponseMIMEType)

	prompt := models.prompts[0]
	assert.Contains(t, prompt, "exactly 2 games with 4 pairs each")
	assert.Contains(t, prompt, "- Cell organelles")
	assert.Contains(t, prompt, "- Mitochondria: powerhouse of the cell")
	assert.Contains(t, prompt, "- Muscle cells have many mitochondria")
	assert.NotContains(t, prompt, "Notes:")
	assert.NotContains(t, prompt, "Emphasize")
}

func TestGenerateRounds_CodeFencedJSON(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + batchJSON + "\n```"
	g := newTestGenerator(t, &fakeModels{results: []fakeResult{{resp: textResponse(fenced)}}}, biologySession())

	rounds, err := g.GenerateRounds(context.Background(), request())
	require.NoError(t, err)
	assert.Len(t, rounds, 2)
}

func TestGenerateRounds_SessionErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		models := &fakeModels{results: []fakeResult{{resp: textResponse(batchJSON)}}}
		g := newTestGenerator(t, models)

		_, err := g.GenerateRounds(context.Background(), request())
		assert.ErrorIs(t, err, generation.ErrSessionNotFound)
		assert.Zero(t, models.calls())
	})

	t.Run("no material", func(t *testing.T) {
		t.Parallel()
		models := &fakeModels{results: []fakeResult{{resp: textResponse(batchJSON)}}}
		g := newTestGenerator(t, models, &domain.TutorSession{ID: "session-1", CleanMarkdown: "   "})

		_, err := g.GenerateRounds(context.Background(), request())
		assert.ErrorIs(t, err, ErrNoMaterial)
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.Equal(t, noMaterialDetail, generation.Detail(err))
		assert.Zero(t, models.calls())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		sessions := mocks.NewMockSessionStore()
		sessions.GetErr = errors.New("connection refused")

		tmpl, err := ParsePromptTemplate("{{.Rounds}}")
		require.NoError(t, err)
		g, err := newGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig(), tmpl,
			&fakeModels{}, sessions)
		require.NoError(t, err)

		_, err = g.GenerateRounds(context.Background(), request())
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.NotErrorIs(t, err, generation.ErrSessionNotFound)
	})
}

func TestGenerateRounds_NotesAndNuances(t *testing.T) {
	t.Parallel()

	session := &domain.TutorSession{ID: "session-1", CleanMarkdown: "# Cells\n" + strings.Repeat("x", maxNotesRunes+500)}
	models := &fakeModels{results: []fakeResult{{resp: textResponse(batchJSON)}}}
	g := newTestGenerator(t, models, session)

	req := request()
	req.Nuances = []string{"functions", "locations"}
	_, err := g.GenerateRounds(context.Background(), req)
	require.NoError(t, err)

	prompt := models.prompts[0]
	assert.Contains(t, prompt, "Emphasize these aspects: functions, locations.")
	assert.Contains(t, prompt, "Notes:\n# Cells")
	assert.NotContains(t, prompt, strings.Repeat("x", maxNotesRunes+1))
	assert.NotContains(t, prompt, "Core concepts:")
}

func TestGenerateRounds_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	models := &fakeModels{results: []fakeResult{
		{err: errors.New("connection reset by peer")},
		{err: &genai.APIError{Code: 503, Message: "overloaded"}},
		{resp: textResponse(batchJSON)},
	}}
	g := newTestGenerator(t, models, biologySession())

	rounds, err := g.GenerateRounds(context.Background(), request())
	require.NoError(t, err)
	assert.Len(t, rounds, 2)
	assert.Equal(t, 3, models.calls())
}

func TestGenerateRounds_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	models := &fakeModels{results: []fakeResult{{err: &genai.APIError{Code: 429, Message: "quota"}}}}
	g := newTestGenerator(t, models, biologySession())

	_, err := g.GenerateRounds(context.Background(), request())
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Contains(t, err.Error(), "exceeded maximum retry attempts (2)")
	assert.Equal(t, 3, models.calls())
}

func TestGenerateRounds_PermanentErrors(t *testing.T) {
	t.Parallel()

	blockedPrompt := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
	}
	safetyStop := textResponse("")
	safetyStop.Candidates[0].FinishReason = genai.FinishReasonSafety

	tests := []struct {
		name    string
		result  fakeResult
		wantErr error
	}{
		{"bad request", fakeResult{err: &genai.APIError{Code: 400, Message: "API key not valid"}}, generation.ErrInvalidConfig},
		{"prompt blocked", fakeResult{resp: blockedPrompt}, generation.ErrContentBlocked},
		{"safety stop", fakeResult{resp: safetyStop}, generation.ErrContentBlocked},
		{"nil response", fakeResult{}, generation.ErrInvalidResponse},
		{"no candidates", fakeResult{resp: &genai.GenerateContentResponse{}}, generation.ErrInvalidResponse},
		{"nil content", fakeResult{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
		}}, generation.ErrInvalidResponse},
		{"not json", fakeResult{resp: textResponse("here are your games!")}, generation.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			models := &fakeModels{results: []fakeResult{tt.result}}
			g := newTestGenerator(t, models, biologySession())

			_, err := g.GenerateRounds(context.Background(), request())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, generation.ErrGenerationFailed)
			assert.Equal(t, 1, models.calls(), "permanent errors are not retried")
		})
	}
}

func TestGenerateRounds_NoGames(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &fakeModels{results: []fakeResult{{resp: textResponse(`{"games":[]}`)}}}, biologySession())

	_, err := g.GenerateRounds(context.Background(), request())
	assert.ErrorIs(t, err, generation.ErrNoRounds)
}

func TestGenerateRounds_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	models := &fakeModels{results: []fakeResult{{err: errors.New("timeout")}}}
	g := newTestGenerator(t, models, biologySession())
	g.policy.Wait = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	_, err := g.GenerateRounds(context.Background(), request())
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 1, models.calls())
}

func TestNewGenerator_Validation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tmpl, err := ParsePromptTemplate("prompt")
	require.NoError(t, err)
	sessions := mocks.NewMockSessionStore()

	_, err = newGenerator(nil, testConfig(), tmpl, &fakeModels{}, sessions)
	assert.Error(t, err)

	_, err = newGenerator(logger, testConfig(), tmpl, &fakeModels{}, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.ModelName = ""
	_, err = newGenerator(logger, cfg, tmpl, &fakeModels{}, sessions)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = testConfig()
	cfg.PairsPerRound = 1
	_, err = newGenerator(logger, cfg, tmpl, &fakeModels{}, sessions)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGeminiGenerator_ConfigErrors(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := mocks.NewMockSessionStore()

	cfg := testConfig()
	cfg.GeminiAPIKey = ""
	_, err := NewGeminiGenerator(context.Background(), logger, cfg, sessions)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = testConfig()
	cfg.PromptTemplatePath = filepath.Join(t.TempDir(), "missing.txt")
	_, err = NewGeminiGenerator(context.Background(), logger, cfg, sessions)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestPromptTemplates(t *testing.T) {
	t.Parallel()

	_, err := LoadPromptTemplate("")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = ParsePromptTemplate("{{.Rounds")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{{join .Nuances "|"}}`), 0o600))
	tmpl, err := LoadPromptTemplate(path)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, tmpl.Execute(&buf, promptData{Nuances: []string{"a", "b"}}))
	assert.Equal(t, "a|b", buf.String())
}

func TestEmptyPrompt(t *testing.T) {
	t.Parallel()

	tmpl, err := ParsePromptTemplate("{{if .Notes}}{{.Notes}}{{end}}  ")
	require.NoError(t, err)
	models := &fakeModels{results: []fakeResult{{resp: textResponse(batchJSON)}}}
	g, err := newGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)), testConfig(), tmpl, models,
		mocks.NewMockSessionStore(biologySession()))
	require.NoError(t, err)

	_, err = g.GenerateRounds(context.Background(), request())
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, models.calls())
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
}
