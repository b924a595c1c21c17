// Package ai ranks profiles with a large language model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/profile"
	"go.uber.org/zap"
)

// Ranker orders profiles by relevance to a query.
type Ranker interface {
	Rank(ctx context.Context, query string, profiles []profile.Profile) ([]profile.Match, error)
}

// Generator sends a single prompt to a chat model and returns its text reply.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

const (
	// SystemInstruction is sent alongside every ranking prompt.
	SystemInstruction = "You are a semantic search engine that analyzes profiles and returns relevant matches as JSON."

	defaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200
)

//go:embed prompt.md
var promptTemplate string

// Options tunes a ModelRanker.
type Options struct {
	Provider     string
	Timeout      time.Duration
	MaxLogLength int
}

// ModelRanker turns a Generator into a Ranker: it renders the prompt, bounds
// the call with a timeout and maps the reply back onto the input profiles.
type ModelRanker struct {
	generator Generator
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

func NewRanker(generator Generator, opts Options, log *zap.Logger) *ModelRanker {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &ModelRanker{
		generator: generator,
		timeout:   opts.Timeout,
		maxLogLen: opts.MaxLogLength,
		logger:    logger.WithProvider(log, opts.Provider, model),
	}
}

func (r *ModelRanker) Rank(ctx context.Context, query string, profiles []profile.Profile) ([]profile.Match, error) {
	if r == nil || r.generator == nil {
		return nil, errors.New("model ranker is not initialized")
	}
	if len(profiles) == 0 {
		return []profile.Match{}, nil
	}

	prompt := BuildPrompt(query, profiles)

	r.logger.Debug("ranking request",
		zap.Int("profiles", len(profiles)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Truncate(prompt, r.maxLogLen)),
	)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.generator.GenerateContent(ctx, SystemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate ranking: %w", err)
	}

	r.logger.Debug("ranking response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.Truncate(raw, r.maxLogLen)),
	)

	return ParseRanking(raw, profiles)
}

// BuildPrompt renders the ranking prompt. Profiles are numbered from 1.
func BuildPrompt(query string, profiles []profile.Profile) string {
	blocks := make([]string, 0, len(profiles))
	for i, p := range profiles {
		blocks = append(blocks, fmt.Sprintf("Profile %d:\nName: %s\nBio: %s\nSkills: %s\nInterests: %s",
			i+1, p.Name, p.Bio, strings.Join(p.Skills, ", "), strings.Join(p.Interests, ", "),
		))
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profiles:\n{{PROFILES}}\n\nSearch query: {{QUERY}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{PROFILES}}", strings.Join(blocks, "\n\n"))
	return strings.ReplaceAll(prompt, "{{QUERY}}", strconv.Quote(query))
}
