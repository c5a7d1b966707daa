package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pb2jamz/Signal-Sorter/models"
	"github.com/pb2jamz/Signal-Sorter/pkg/llm"
)

// Config holds the engine's tunables. Zero values fall back to defaults in
// NewEngine.
type Config struct {
	MatchThreshold float64
	MinNameLength  int
	GuardPhrases   []string
	MaxRetries     int
	RetryBaseDelay time.Duration
	MaxTokens      int
	Temperature    float64
}

// DefaultConfig returns the stock engine settings.
func DefaultConfig() Config {
	return Config{
		MatchThreshold: DefaultMatchThreshold,
		MinNameLength:  3,
		GuardPhrases:   DefaultGuardPhrases,
		MaxRetries:     2,
		RetryBaseDelay: 500 * time.Millisecond,
		MaxTokens:      1500,
		Temperature:    0.3,
	}
}

// Analysis is the outcome of one triage round: the assistant's full reply
// plus the reconciled item changes it implies.
type Analysis struct {
	ResponseText string
	NewItems     []Candidate
	Updates      []ItemUpdate
	Skipped      int
}

// Engine runs the full triage pipeline: build the prompt, obtain a
// completion (with bounded retry on transient failures), extract candidates
// and reconcile them against the active item set. It holds no mutable state;
// a single Engine is safe for concurrent use.
type Engine struct {
	client     llm.Client
	parser     *Parser
	reconciler *Reconciler
	cfg        Config
	log        zerolog.Logger
}

// NewEngine wires an engine from a completion client and config.
func NewEngine(client llm.Client, cfg Config, logger zerolog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.MatchThreshold <= 0 || cfg.MatchThreshold >= 1 {
		cfg.MatchThreshold = def.MatchThreshold
	}
	if cfg.MinNameLength <= 0 {
		cfg.MinNameLength = def.MinNameLength
	}
	if cfg.GuardPhrases == nil {
		cfg.GuardPhrases = def.GuardPhrases
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = def.RetryBaseDelay
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}

	return &Engine{
		client: client,
		parser: NewParser(ParserConfig{
			MinNameLength: cfg.MinNameLength,
			GuardPhrases:  cfg.GuardPhrases,
		}, logger),
		reconciler: NewReconciler(cfg.MatchThreshold, logger),
		cfg:        cfg,
		log:        logger,
	}
}

// Analyze runs one triage round for a user message. active and completed are
// the user's current item sets; completed is expected ordered most recently
// completed first. In reprioritize mode no extraction runs: the reply is
// returned verbatim with no item changes.
func (e *Engine) Analyze(ctx context.Context, userMessage string, profile models.Profile, active, completed []models.Item, mode Mode) (*Analysis, error) {
	prompt := BuildPrompt(profile, active, completed, mode)

	text, err := e.complete(ctx, prompt, userMessage)
	if err != nil {
		return nil, err
	}

	if mode == ModeReprioritize {
		return &Analysis{ResponseText: text}, nil
	}

	candidates := e.parser.Extract(text)
	res := e.reconciler.Reconcile(candidates, active)

	e.log.Info().
		Int("candidates", len(candidates)).
		Int("created", len(res.Created)).
		Int("updated", len(res.Updated)).
		Int("skipped", res.Skipped).
		Msg("triage round reconciled")

	return &Analysis{
		ResponseText: text,
		NewItems:     res.Created,
		Updates:      res.Updated,
		Skipped:      res.Skipped,
	}, nil
}

// complete obtains a non-empty completion, retrying transient failures with
// linear backoff. Permanent failures and context cancellation surface
// immediately.
func (e *Engine) complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * e.cfg.RetryBaseDelay
			e.log.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("transient completion failure, retrying")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := e.client.Complete(ctx, llm.CompletionRequest{
			SystemMsg:   systemPrompt,
			Messages:    []llm.Message{{Role: "user", Content: userMessage}},
			MaxTokens:   e.cfg.MaxTokens,
			Temperature: e.cfg.Temperature,
		})
		if err == nil && resp.Content == "" {
			err = llm.ErrEmptyCompletion
		}
		if err == nil {
			return resp.Content, nil
		}

		lastErr = err
		if !llm.IsTransient(err) {
			return "", fmt.Errorf("completion failed: %w", err)
		}
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", e.cfg.MaxRetries+1, lastErr)
}
