// Package consult answers free-form questions about a computed chart, using a
// generative model when it answers in time and a rule-based answer otherwise.
package consult

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

const (
	// Deadline is how long the generator is given before falling back.
	Deadline = 10 * time.Second
	// DefaultMaxTokens is the output budget passed to the generator.
	DefaultMaxTokens = 500
)

// Source tells where an answer came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Answer is a consultation result.
type Answer struct {
	Text     string           `json:"text"`
	Source   Source           `json:"source"`
	Analysis QuestionAnalysis `json:"analysis"`
}

// Options tunes a Responder. Zero values select the defaults.
type Options struct {
	Language  string // "ko" or "en"
	MaxTokens int
}

// Responder races a Generator against a deadline. It is safe for concurrent use.
type Responder struct {
	gen       Generator
	lang      string
	maxTokens int
	logger    *zap.Logger
	deadline  time.Duration
}

// NewResponder creates a Responder. A nil gen always answers with the fallback.
func NewResponder(gen Generator, opts Options, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Language == "" {
		opts.Language = "ko"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Responder{
		gen:       gen,
		lang:      opts.Language,
		maxTokens: opts.MaxTokens,
		logger:    logger,
		deadline:  Deadline,
	}
}

type generated struct {
	text string
	err  error
}

// Respond answers question for rec. It never fails and returns within the
// deadline or when ctx is done, whichever comes first.
func (r *Responder) Respond(ctx context.Context, rec models.Record, question string) Answer {
	qa := Analyze(question)
	fallback := func() Answer {
		return Answer{Text: Fallback(rec, question, r.lang), Source: SourceFallback, Analysis: qa}
	}
	if r.gen == nil {
		return fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	prompt := BuildPrompt(rec, question, qa, r.lang)
	// Buffered so the generator goroutine never blocks after losing the race.
	done := make(chan generated, 1)
	go func() {
		text, err := r.gen.Generate(ctx, prompt, r.maxTokens)
		done <- generated{text: text, err: err}
	}()

	select {
	case g := <-done:
		if g.err != nil {
			r.logger.Warn("generator failed, using fallback", zap.Error(g.err))
			return fallback()
		}
		if strings.TrimSpace(g.text) == "" {
			r.logger.Warn("generator returned empty text, using fallback")
			return fallback()
		}
		return Answer{Text: g.text, Source: SourceGenerated, Analysis: qa}
	case <-ctx.Done():
		r.logger.Warn("generator timed out, using fallback",
			zap.Duration("deadline", r.deadline), zap.Error(ctx.Err()))
		return fallback()
	}
}
