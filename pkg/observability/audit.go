package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/travspan/pkg/domain"
)

// AuditHooks logs every run start, step and finish at Info level.
// The engine already logs steps at Debug; these are for audit trails that must not depend on the level.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"algorithm", e.Config.Algorithm,
				"mode", e.Config.Mode,
				"start", e.Config.Start,
				"end", e.Config.End,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step",
				"n", e.Count,
				"step", e.Step,
				"next", e.Next,
				"frontier", e.FrontierSize,
				"events", len(e.Events),
			)
		},
		OnFinish: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_finish",
				"algorithm", e.Config.Algorithm,
				"reason", e.Reason,
				"steps", e.Steps,
			)
		},
	}
}
