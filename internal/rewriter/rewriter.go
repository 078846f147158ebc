package rewriter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThinkWhy/internal/backend"
	"ThinkWhy/internal/session"
)

// EmptyContentAdvice is returned instead of calling the service for blank input
const EmptyContentAdvice = "Please enter some content to optimize."

// ErrorPrefix marks content that reports a failed service call
const ErrorPrefix = "Error: "

// Rewriter produces optimized posts and revisions with one service call each.
// Service failures come back as "Error: <message>" strings, never as errors.
type Rewriter struct {
	gen    backend.Generator
	logger *slog.Logger
	tracer trace.Tracer
	calls  metric.Int64Counter
}

var _ session.Reviser = (*Rewriter)(nil)

// New creates a Rewriter on top of gen
func New(gen backend.Generator, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) (*Rewriter, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	calls, err := meter.Int64Counter(
		"rewriter.calls",
		metric.WithDescription("Rewrite and revision requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	return &Rewriter{gen: gen, logger: logger, tracer: tracer, calls: calls}, nil
}

// Rewrite optimizes content for the given parameters. Length checks are the
// caller's job; only blank content is short-circuited.
func (r *Rewriter) Rewrite(ctx context.Context, content string, p session.Params) string {
	if strings.TrimSpace(content) == "" {
		return EmptyContentAdvice
	}
	return r.call(ctx, "rewrite", BuildRewritePrompt(content, p), p)
}

// Revise re-optimizes draft following instructions. Callers must not pass
// blank instructions.
func (r *Rewriter) Revise(ctx context.Context, original, draft, instructions string, p session.Params) string {
	return r.call(ctx, "revise", BuildRevisionPrompt(original, draft, instructions, p), p)
}

func (r *Rewriter) call(ctx context.Context, kind, prompt string, p session.Params) string {
	ctx, span := r.tracer.Start(ctx, "rewriter."+kind, trace.WithAttributes(
		attribute.String("post.audience", p.Audience),
		attribute.String("post.theme", p.Theme),
		attribute.String("post.tone", p.Tone),
		attribute.Int("post.hashtags", p.HashtagCount),
	))
	defer span.End()

	out, err := r.gen.Generate(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("rewrite failed", "kind", kind, "error", err)
		out = ErrorPrefix + err.Error()
	} else {
		r.logger.Info("rewrite completed", "kind", kind, "chars", len(out))
	}
	r.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
	return out
}

// IsError reports whether content is an in-band service failure
func IsError(content string) bool {
	return strings.HasPrefix(content, ErrorPrefix)
}
