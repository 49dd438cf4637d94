package impl

import (
	"context"
	"log/slog"
	"time"

	"passport/config"
	"passport/internal/domain/repository"

	"go.uber.org/fx"
)

const defaultSessionSweepInterval = time.Hour

// SessionJanitorParams holds dependencies for the session janitor, injected by Fx.
type SessionJanitorParams struct {
	fx.In
	fx.Lifecycle

	RefreshTokenRepo repository.RefreshTokenRepository
	Config           *config.Config
	Logger           *slog.Logger
}

// StartSessionJanitor runs a background sweep that deletes expired refresh
// tokens. Expired sessions are already rejected on use; the sweep only keeps
// the table from growing without bound.
func StartSessionJanitor(params SessionJanitorParams) {
	interval := defaultSessionSweepInterval
	if params.Config != nil && params.Config.Auth.SessionSweepInterval > 0 {
		interval = params.Config.Auth.SessionSweepInterval
	}

	sweepCtx, cancel := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweepExpiredSessions(sweepCtx, params.RefreshTokenRepo, params.Logger, interval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()

			return nil
		},
	})
}

func sweepExpiredSessions(ctx context.Context, repo repository.RefreshTokenRepository, logger *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpiredRefreshTokens(ctx, time.Now())
			if err != nil {
				logger.Warn("Failed to sweep expired sessions", slog.Any("error", err))

				continue
			}
			if removed > 0 {
				logger.Debug("Swept expired sessions", slog.Int64("removed", removed))
			}
		}
	}
}
