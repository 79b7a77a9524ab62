package sync

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sarobidyBryan/signalement/internal/config"
)

// Scheduler drives recurring bidirectional syncs. An empty cron expression
// leaves scheduling off and the trigger endpoints as the only entry point.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(lc fx.Lifecycle, cfg *config.Config, service SyncService, log *zap.Logger) *Scheduler {
	s := &Scheduler{
		cron: cron.New(),
		log:  log,
	}

	if cfg.SyncCron == "" {
		log.Info("scheduled sync disabled")
		return s
	}

	_, err := s.cron.AddFunc(cfg.SyncCron, func() {
		result := service.Bidirectional(context.Background())
		if !result.Success {
			log.Error("scheduled bidirectional sync finished with failures",
				zap.String("push_error", result.Push.Error),
				zap.String("pull_error", result.Pull.Error))
			return
		}
		log.Info("scheduled bidirectional sync complete")
	})
	if err != nil {
		log.Error("invalid sync cron expression, scheduling disabled",
			zap.String("cron", cfg.SyncCron), zap.Error(err))
		return s
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			log.Info("scheduled sync started", zap.String("cron", cfg.SyncCron))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := s.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return s
}
