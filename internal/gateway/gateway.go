// Package gateway builds the prompt for a request and forwards it to the
// configured completion service.
package gateway

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/valpere/lingo/internal"
	"github.com/valpere/lingo/internal/completion"
	"github.com/valpere/lingo/internal/prompt"
)

// ErrCompletionFailed is the only error callers see. The underlying cause is
// logged, never returned.
var ErrCompletionFailed = errors.New("could not get response from completion service")

// PublicMessage is what clients are shown when ErrCompletionFailed occurs.
const PublicMessage = "Could not get response from completion service"

// Recorder keeps a copy of each interaction.
type Recorder interface {
	Record(ctx context.Context, it internal.Interaction) error
}

// LanguageDetector guesses the language of the submitted text.
type LanguageDetector interface {
	DetectISO(text string) (string, bool)
}

type Gateway struct {
	svc      completion.Service
	log      *zap.Logger
	history  Recorder
	detector LanguageDetector
}

type Option func(*Gateway)

// WithHistory records every outcome to r.
func WithHistory(r Recorder) Option {
	return func(g *Gateway) { g.history = r }
}

// WithDetector stores the detected source language with each history entry.
func WithDetector(d LanguageDetector) Option {
	return func(g *Gateway) { g.detector = d }
}

func New(svc completion.Service, log *zap.Logger, opts ...Option) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Gateway{svc: svc, log: log}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ServiceName reports which backend requests go to.
func (g *Gateway) ServiceName() string {
	return g.svc.Name()
}

// Process sends the prompt built from req and returns the first candidate's
// text unchanged. It makes exactly one call and adds no timeout of its own.
func (g *Gateway) Process(ctx context.Context, req prompt.Request) (string, error) {
	p := prompt.Build(req)
	if p == "" {
		g.log.Debug("unrecognized action, sending empty prompt", zap.String("action", string(req.Action)))
	}

	res, err := g.svc.Complete(ctx, p)

	g.record(ctx, req, p, res, err)

	if err != nil {
		fields := []zap.Field{
			zap.String("service", g.svc.Name()),
			zap.String("action", string(req.Action)),
			zap.Error(err),
		}
		if res != nil {
			fields = append(fields, zap.String("detail", res.Error), zap.Duration("latency", res.Latency))
		}
		g.log.Error("completion request failed", fields...)
		return "", ErrCompletionFailed
	}

	g.log.Info("completion request succeeded",
		zap.String("service", res.ServiceName),
		zap.String("action", string(req.Action)),
		zap.Duration("latency", res.Latency),
		zap.Int("response_len", len(res.Text)),
	)
	return res.Text, nil
}

func (g *Gateway) record(ctx context.Context, req prompt.Request, p string, res *completion.Result, err error) {
	if g.history == nil {
		return
	}

	it := internal.Interaction{
		Action:         string(req.Action),
		Text:           req.Text,
		TargetLanguage: req.TargetLanguage,
		TargetLevel:    string(req.TargetLevel),
		Prompt:         p,
		Service:        g.svc.Name(),
	}
	if g.detector != nil {
		if lang, ok := g.detector.DetectISO(req.Text); ok {
			it.DetectedLang = lang
		}
	}
	if res != nil {
		it.Response = res.Text
		it.Latency = res.Latency
		it.Error = res.Error
	}
	if err != nil && it.Error == "" {
		it.Error = err.Error()
	}

	if recErr := g.history.Record(context.WithoutCancel(ctx), it); recErr != nil {
		g.log.Warn("failed to record interaction", zap.Error(recErr))
	}
}
