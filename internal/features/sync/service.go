package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SyncService orchestrates the directional passes. Entity passes are
// independent: one failing pass neither stops the others nor taints their
// committed watermarks. Callers always get a Summary back; total failure is
// reported in-band through Success and Error.
type SyncService interface {
	PushAll(ctx context.Context) Summary
	PullAll(ctx context.Context) Summary
	Bidirectional(ctx context.Context) BidirectionalResult
	PushStatuses(ctx context.Context) (EntityResult, error)
}

type SyncServiceImpl struct {
	push PushService
	pull PullService
	log  *zap.Logger
}

func NewSyncService(push PushService, pull PullService, log *zap.Logger) SyncService {
	return &SyncServiceImpl{
		push: push,
		pull: pull,
		log:  log,
	}
}

// PushAll runs every relational-to-document pass. The status reference table
// is excluded; it changes rarely and has its own on-demand trigger.
func (s *SyncServiceImpl) PushAll(ctx context.Context) Summary {
	passes := []struct {
		table string
		run   func(context.Context) (EntityResult, error)
	}{
		{TableConfigurations, s.push.Configurations},
		{TableCompanies, s.push.Companies},
		{TableUsers, s.push.Users},
		{TableReports, s.push.Reports},
	}
	return s.runPasses(ctx, "push", passes)
}

// PullAll runs every document-to-relational pass. Only users and reports are
// authored on the document side; everything else is mastered relationally.
func (s *SyncServiceImpl) PullAll(ctx context.Context) Summary {
	passes := []struct {
		table string
		run   func(context.Context) (EntityResult, error)
	}{
		{TableUsers, s.pull.Users},
		{TableReports, s.pull.Reports},
	}
	return s.runPasses(ctx, "pull", passes)
}

// Bidirectional pushes before pulling, so local changes reach the document
// store before remote ones are folded back in.
func (s *SyncServiceImpl) Bidirectional(ctx context.Context) BidirectionalResult {
	push := s.PushAll(ctx)
	pull := s.PullAll(ctx)
	return BidirectionalResult{
		Push:    push,
		Pull:    pull,
		Success: push.Success && pull.Success,
	}
}

func (s *SyncServiceImpl) PushStatuses(ctx context.Context) (EntityResult, error) {
	return s.push.Statuses(ctx)
}

func (s *SyncServiceImpl) runPasses(ctx context.Context, direction string, passes []struct {
	table string
	run   func(context.Context) (EntityResult, error)
}) Summary {
	summary := Summary{
		Success: true,
		Results: make(map[string]EntityResult, len(passes)),
	}

	for _, pass := range passes {
		result, err := pass.run(ctx)
		if err != nil {
			s.log.Error("sync pass failed",
				zap.String("table", pass.table), zap.String("direction", direction), zap.Error(err))
			summary.Success = false
			if summary.Error == "" {
				summary.Error = fmt.Sprintf("%s: %v", pass.table, err)
			} else {
				summary.Error = fmt.Sprintf("%s; %s: %v", summary.Error, pass.table, err)
			}
			continue
		}
		summary.Results[pass.table] = result
	}

	summary.Timestamp = time.Now()
	return summary
}
