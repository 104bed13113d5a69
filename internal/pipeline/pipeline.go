// Package pipeline runs one buddy request from classification to a
// policy-compliant response.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Brian-C69/calm-campus/internal/actions"
	"github.com/Brian-C69/calm-campus/internal/contextpack"
	"github.com/Brian-C69/calm-campus/internal/domain"
	"github.com/Brian-C69/calm-campus/internal/extract"
	"github.com/Brian-C69/calm-campus/internal/llm"
	"github.com/Brian-C69/calm-campus/internal/metrics"
	"github.com/Brian-C69/calm-campus/internal/policy"
	"github.com/Brian-C69/calm-campus/internal/prompt"
	"github.com/Brian-C69/calm-campus/internal/relationship"
)

// Invoker calls the model backend. *llm.Client implements it.
type Invoker interface {
	Invoke(ctx context.Context, msgs []domain.PromptMessage) llm.Reply
}

// Path names the stage that produced a response.
type Path string

const (
	PathShortCircuit     Path = "short_circuit"
	PathModel            Path = "model"
	PathResolverFallback Path = "resolver_fallback"
	PathGenericFallback  Path = "generic_fallback"
)

// Result is the outcome of a run.
type Result struct {
	Response domain.BuddyResponse
	Path     Path
	Flags    policy.Flags
	Model    string
}

// Pipeline is safe for concurrent use; it keeps no per-request state.
type Pipeline struct {
	invoker  Invoker
	redactor *policy.Redactor
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithClock sets the clock used for the context block's local time.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithRedactor replaces the body-metric redactor.
func WithRedactor(r *policy.Redactor) Option {
	return func(p *Pipeline) { p.redactor = r }
}

// New creates a Pipeline that calls invoker for model replies.
func New(invoker Invoker, opts ...Option) *Pipeline {
	p := &Pipeline{
		invoker: invoker,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.redactor == nil {
		p.redactor = policy.NewRedactor()
	}
	p.logger = p.logger.With("component", "pipeline")
	return p
}

// Run always returns a complete response. Failures are absorbed into the
// resolver or canned fallbacks and reported in Result.Path.
func (p *Pipeline) Run(ctx context.Context, req *domain.ChatRequest) Result {
	start := time.Now()
	logger := p.logger
	if id := middleware.GetReqID(ctx); id != "" {
		logger = logger.With("request_id", id)
	}

	flags := policy.Classify(req.Message)
	contacts := req.ConsentedContacts()
	opts := actions.Options{Crisis: flags.Crisis, ContactNames: contactNames(contacts)}

	// Crisis requests always get the safety-prioritized prompt or fallback.
	if !flags.Crisis && relationship.IsQuery(req.Message) {
		if resp := relationship.Resolve(req.Message, contacts); resp != nil {
			return p.finish(logger, start, Result{Response: *resp, Path: PathShortCircuit, Flags: flags}, opts)
		}
	}

	history := req.NormalizedHistory()
	contextBlock := contextpack.Assemble(req, p.now())
	msgs := prompt.BuildMessages(prompt.BuildSystem(flags), contextBlock, history, req.Message)

	logger.Debug("Invoking model",
		"domains", contextpack.Included(req),
		"history", len(history),
		"crisis", flags.Crisis,
		"restricted", flags.RestrictedTopic)

	reply := p.invoker.Invoke(ctx, msgs)
	if reply.OK {
		if c := extract.Extract(reply.Content); c != nil {
			resp := domain.BuddyResponse{
				Mode:             c.Mode,
				MessageForUser:   c.MessageForUser,
				FollowUpQuestion: c.FollowUpQuestion,
				SuggestedActions: actions.Sanitize(c.SuggestedActions, opts),
			}
			return p.finish(logger, start, Result{Response: resp, Path: PathModel, Flags: flags, Model: reply.Model}, opts)
		}
		metrics.ObserveExtractionFailure()
		logger.Warn("Model reply failed schema compliance",
			"model", reply.Model, "response_bytes", len(reply.Content))
	}

	if !flags.Crisis {
		if resp := relationship.Resolve(req.Message, contacts); resp != nil {
			return p.finish(logger, start, Result{Response: *resp, Path: PathResolverFallback, Flags: flags, Model: reply.Model}, opts)
		}
	}

	resp := genericFallback(flags.Crisis)
	if !reply.OK && reply.Err != nil {
		resp.Error = reply.Err.Error()
	}
	return p.finish(logger, start, Result{Response: resp, Path: PathGenericFallback, Flags: flags, Model: reply.Model}, opts)
}

// finish applies the output-side policy shared by every path.
func (p *Pipeline) finish(logger *slog.Logger, start time.Time, res Result, opts actions.Options) Result {
	resp := &res.Response
	resp.SuggestedActions = actions.FromStrings(resp.SuggestedActions, opts)

	if res.Flags.RestrictedTopic {
		resp.MessageForUser = p.redactor.Redact(resp.MessageForUser)
		resp.FollowUpQuestion = p.redactor.Redact(resp.FollowUpQuestion)
		resp.SuggestedActions = actions.FromStrings(p.redactor.RedactAll(resp.SuggestedActions), opts)
	}

	metrics.ObservePipeline(string(res.Path), res.Flags.Crisis)
	logger.Info("Pipeline completed",
		"path", res.Path,
		"mode", resp.Mode,
		"model", res.Model,
		"crisis", res.Flags.Crisis,
		"restricted", res.Flags.RestrictedTopic,
		"actions", len(resp.SuggestedActions),
		"duration_ms", time.Since(start).Milliseconds())
	return res
}

func contactNames(contacts []domain.ContactRecord) []string {
	names := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}
