package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sarobidyBryan/signalement/internal/features/assignation"
	"github.com/sarobidyBryan/signalement/internal/features/company"
	"github.com/sarobidyBryan/signalement/internal/features/configuration"
	"github.com/sarobidyBryan/signalement/internal/features/docstore"
	"github.com/sarobidyBryan/signalement/internal/features/identity"
	"github.com/sarobidyBryan/signalement/internal/features/report"
	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/synclog"
	"github.com/sarobidyBryan/signalement/internal/features/user"
)

// PushService runs the relational-to-document passes. Each pass reads its
// watermark, upserts every row changed since, and commits the pass start
// time as the new watermark. A failing record is logged and skipped; a
// failing pass returns an error and leaves the watermark untouched, so the
// next run re-covers the same window.
type PushService interface {
	Configurations(ctx context.Context) (EntityResult, error)
	Companies(ctx context.Context) (EntityResult, error)
	Statuses(ctx context.Context) (EntityResult, error)
	Users(ctx context.Context) (EntityResult, error)
	Reports(ctx context.Context) (EntityResult, error)
}

type PushServiceImpl struct {
	gateway        docstore.Gateway
	syncLogs       synclog.SyncLogRepository
	provisioner    identity.Provisioner
	configurations configuration.ConfigurationRepository
	companies      company.CompanyRepository
	statuses       status.StatusRepository
	users          user.UserRepository
	reports        report.ReportRepository
	assignations   assignation.AssignationRepository
	log            *zap.Logger
}

func NewPushService(
	gateway docstore.Gateway,
	syncLogs synclog.SyncLogRepository,
	provisioner identity.Provisioner,
	configurations configuration.ConfigurationRepository,
	companies company.CompanyRepository,
	statuses status.StatusRepository,
	users user.UserRepository,
	reports report.ReportRepository,
	assignations assignation.AssignationRepository,
	log *zap.Logger,
) PushService {
	return &PushServiceImpl{
		gateway:        gateway,
		syncLogs:       syncLogs,
		provisioner:    provisioner,
		configurations: configurations,
		companies:      companies,
		statuses:       statuses,
		users:          users,
		reports:        reports,
		assignations:   assignations,
		log:            log,
	}
}

func (s *PushServiceImpl) Configurations(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()
	since, err := s.syncLogs.LastSyncDate(ctx, TableConfigurations, synclog.SyncTypePush)
	if err != nil {
		return EntityResult{}, err
	}

	modified, err := s.configurations.FindModifiedSince(ctx, since)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableConfigurations, Total: len(modified)}
	for i := range modified {
		cfg := &modified[i]
		docID, err := s.gateway.Upsert(ctx, TableConfigurations, cfg.FirebaseID, cfg.ID, mapConfiguration(cfg))
		if err != nil {
			s.log.Error("push configuration failed",
				zap.String("table", TableConfigurations), zap.Int("id", cfg.ID), zap.Error(err))
			continue
		}

		s.countUpsert(&result, cfg.FirebaseID)
		if docID != cfg.FirebaseID {
			if err := s.configurations.UpdateFirebaseID(ctx, cfg.ID, docID); err != nil {
				s.log.Error("configuration external id write-back failed",
					zap.String("table", TableConfigurations), zap.Int("id", cfg.ID), zap.Error(err))
				continue
			}
		}
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

func (s *PushServiceImpl) Companies(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()
	since, err := s.syncLogs.LastSyncDate(ctx, TableCompanies, synclog.SyncTypePush)
	if err != nil {
		return EntityResult{}, err
	}

	modified, err := s.companies.FindModifiedSince(ctx, since)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableCompanies, Total: len(modified)}
	for i := range modified {
		c := &modified[i]
		docID, err := s.gateway.Upsert(ctx, TableCompanies, c.FirebaseID, c.ID, mapCompany(c))
		if err != nil {
			s.log.Error("push company failed",
				zap.String("table", TableCompanies), zap.Int("id", c.ID), zap.Error(err))
			continue
		}

		s.countUpsert(&result, c.FirebaseID)
		if docID != c.FirebaseID {
			if err := s.companies.UpdateFirebaseID(ctx, c.ID, docID); err != nil {
				s.log.Error("company external id write-back failed",
					zap.String("table", TableCompanies), zap.Int("id", c.ID), zap.Error(err))
				continue
			}
		}
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

// Statuses pushes the whole reference table every time. The table carries no
// reliable modification timestamps, and it is small.
func (s *PushServiceImpl) Statuses(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()

	all, err := s.statuses.GetAll(ctx)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableStatus, Total: len(all)}
	for i := range all {
		st := &all[i]
		if _, err := s.gateway.Upsert(ctx, TableStatus, st.FirebaseID, st.ID, mapStatus(st)); err != nil {
			s.log.Error("push status failed",
				zap.String("table", TableStatus), zap.Int("id", st.ID), zap.Error(err))
			continue
		}
		s.countUpsert(&result, st.FirebaseID)
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

// Users provisions a provider identity for every changed principal before
// writing its document. The provider UID doubles as the document id, which
// keeps the auth record and the document permanently correlated.
func (s *PushServiceImpl) Users(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()
	since, err := s.syncLogs.LastSyncDate(ctx, TableUsers, synclog.SyncTypePush)
	if err != nil {
		return EntityResult{}, err
	}

	modified, err := s.users.FindModifiedSince(ctx, since)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableUsers, Total: len(modified)}
	for i := range modified {
		u := &modified[i]

		uid, created, err := s.provisioner.EnsureIdentity(ctx, u.FirebaseUID, u.Email, u.Password, u.Name)
		if err != nil {
			s.log.Error("push user identity provisioning failed",
				zap.String("table", TableUsers), zap.Int("id", u.ID), zap.Error(err))
			continue
		}
		if created {
			result.AuthCreated++
		} else {
			result.AuthExisting++
		}

		if uid != u.FirebaseUID {
			if err := s.users.UpdateFirebaseUID(ctx, u.ID, uid); err != nil {
				s.log.Error("user provider UID write-back failed",
					zap.String("table", TableUsers), zap.Int("id", u.ID), zap.Error(err))
				continue
			}
			u.FirebaseUID = uid
		}

		docID, err := s.gateway.Upsert(ctx, TableUsers, uid, u.ID, mapUser(u))
		if err != nil {
			s.log.Error("push user failed",
				zap.String("table", TableUsers), zap.Int("id", u.ID), zap.Error(err))
			continue
		}
		if docID != uid {
			s.log.Warn("user document id diverged from provider UID",
				zap.String("table", TableUsers), zap.Int("id", u.ID),
				zap.String("uid", uid), zap.String("doc_id", docID))
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

// Reports rebuilds the full denormalized document for every changed report,
// embedding user, status, the current assignation and its computed
// progression totals.
func (s *PushServiceImpl) Reports(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()
	since, err := s.syncLogs.LastSyncDate(ctx, TableReports, synclog.SyncTypePush)
	if err != nil {
		return EntityResult{}, err
	}

	modified, err := s.reports.FindModifiedSince(ctx, since)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableReports, Total: len(modified)}
	for i := range modified {
		rep := &modified[i]

		assignations, err := s.assignations.FindByReportID(ctx, rep.ID)
		if err != nil {
			s.log.Error("push report assignation lookup failed",
				zap.String("table", TableReports), zap.Int("id", rep.ID), zap.Error(err))
			continue
		}

		var items []assignation.Progress
		if len(assignations) > 0 {
			items, err = s.assignations.FindProgressByAssignationID(ctx, assignations[0].ID)
			if err != nil {
				s.log.Error("push report progress lookup failed",
					zap.String("table", TableReports), zap.Int("id", rep.ID), zap.Error(err))
				continue
			}
		}

		docID, err := s.gateway.Upsert(ctx, TableReports, rep.FirebaseID, rep.ID, mapReport(rep, assignations, items))
		if err != nil {
			s.log.Error("push report failed",
				zap.String("table", TableReports), zap.Int("id", rep.ID), zap.Error(err))
			continue
		}

		s.countUpsert(&result, rep.FirebaseID)
		if docID != rep.FirebaseID {
			if err := s.reports.UpdateFirebaseID(ctx, rep.ID, docID); err != nil {
				s.log.Error("report external id write-back failed",
					zap.String("table", TableReports), zap.Int("id", rep.ID), zap.Error(err))
				continue
			}
		}
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

// countUpsert classifies a successful upsert by whether the row already held
// an external id before the pass.
func (s *PushServiceImpl) countUpsert(result *EntityResult, priorExternalID string) {
	if priorExternalID == "" {
		result.Created++
	} else {
		result.Updated++
	}
}

// commit stamps the result and advances the watermark to the pass start
// time, so records modified while the pass ran are re-read next time.
func (s *PushServiceImpl) commit(ctx context.Context, result EntityResult, passStart time.Time) (EntityResult, error) {
	result.Timestamp = time.Now()
	if err := s.syncLogs.LogSync(ctx, result.Table, synclog.SyncTypePush, result.Synced, passStart); err != nil {
		return EntityResult{}, err
	}
	return result, nil
}
