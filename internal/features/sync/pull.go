package sync

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/sarobidyBryan/signalement/internal/config"
	"github.com/sarobidyBryan/signalement/internal/features/docstore"
	"github.com/sarobidyBryan/signalement/internal/features/report"
	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/synclog"
	"github.com/sarobidyBryan/signalement/internal/features/user"
)

// PullService runs the document-to-relational passes. It reads the whole
// collection, skips documents older than the watermark, resolves each one to
// a relational row (internal id, then external id, then natural key) and
// applies a partial update, creating the row when nothing matches.
type PullService interface {
	Users(ctx context.Context) (EntityResult, error)
	Reports(ctx context.Context) (EntityResult, error)
}

type PullServiceImpl struct {
	gateway     docstore.Gateway
	syncLogs    synclog.SyncLogRepository
	users       user.UserRepository
	reports     report.ReportRepository
	statuses    status.StatusRepository
	pullUndated bool
	log         *zap.Logger
}

func NewPullService(
	gateway docstore.Gateway,
	syncLogs synclog.SyncLogRepository,
	users user.UserRepository,
	reports report.ReportRepository,
	statuses status.StatusRepository,
	cfg *config.Config,
	log *zap.Logger,
) PullService {
	return &PullServiceImpl{
		gateway:     gateway,
		syncLogs:    syncLogs,
		users:       users,
		reports:     reports,
		statuses:    statuses,
		pullUndated: cfg.SyncPullUndated,
		log:         log,
	}
}

func (s *PullServiceImpl) Users(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()
	since, err := s.syncLogs.LastSyncDate(ctx, TableUsers, synclog.SyncTypePull)
	if err != nil {
		return EntityResult{}, err
	}

	docs, err := s.gateway.GetAll(ctx, TableUsers)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableUsers, Total: len(docs)}
	for _, doc := range docs {
		if s.skipByWatermark(doc.Data, since) {
			continue
		}

		existing, err := s.findUser(ctx, doc.Data, doc.ID)
		if err != nil {
			s.log.Error("pull user resolution failed",
				zap.String("table", TableUsers), zap.String("doc_id", doc.ID), zap.Error(err))
			continue
		}

		if existing != nil {
			if err := s.updateUser(ctx, existing, doc.Data, doc.ID); err != nil {
				s.log.Error("pull user update failed",
					zap.String("table", TableUsers), zap.String("doc_id", doc.ID), zap.Error(err))
				continue
			}
			result.Updated++
		} else {
			created, err := s.createUser(ctx, doc.Data, doc.ID)
			if err != nil {
				s.log.Error("pull user creation failed",
					zap.String("table", TableUsers), zap.String("doc_id", doc.ID), zap.Error(err))
				continue
			}
			if !created {
				continue
			}
			result.Created++
		}
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

func (s *PullServiceImpl) Reports(ctx context.Context) (EntityResult, error) {
	passStart := time.Now()
	since, err := s.syncLogs.LastSyncDate(ctx, TableReports, synclog.SyncTypePull)
	if err != nil {
		return EntityResult{}, err
	}

	docs, err := s.gateway.GetAll(ctx, TableReports)
	if err != nil {
		return EntityResult{}, err
	}

	result := EntityResult{Table: TableReports, Total: len(docs)}
	for _, doc := range docs {
		if s.skipByWatermark(doc.Data, since) {
			continue
		}

		existing, err := s.findReport(ctx, doc.Data, doc.ID)
		if err != nil {
			s.log.Error("pull report resolution failed",
				zap.String("table", TableReports), zap.String("doc_id", doc.ID), zap.Error(err))
			continue
		}

		if existing != nil {
			if err := s.updateReport(ctx, existing, doc.Data, doc.ID); err != nil {
				s.log.Error("pull report update failed",
					zap.String("table", TableReports), zap.String("doc_id", doc.ID), zap.Error(err))
				continue
			}
			result.Updated++
		} else {
			created, err := s.createReport(ctx, doc.Data, doc.ID)
			if err != nil {
				s.log.Error("pull report creation failed",
					zap.String("table", TableReports), zap.String("doc_id", doc.ID), zap.Error(err))
				continue
			}
			if !created {
				continue
			}
			result.Created++
		}
		result.Synced++
	}

	return s.commit(ctx, result, passStart)
}

// skipByWatermark drops documents untouched since the last pull. Documents
// with no usable timestamp are included or skipped per configuration.
func (s *PullServiceImpl) skipByWatermark(data bson.M, since time.Time) bool {
	updatedAt := documentUpdatedAt(data)
	if updatedAt == nil {
		return !s.pullUndated
	}
	return updatedAt.Before(since)
}

// ===== user resolution =====

// findUser resolves a user document against the relational store: embedded
// internal id first, then the document id as provider UID, then email.
func (s *PullServiceImpl) findUser(ctx context.Context, data bson.M, docID string) (*user.User, error) {
	if id := getInt(data, "id"); id > 0 {
		u, err := s.users.GetByID(ctx, id)
		if err != nil || u != nil {
			return u, err
		}
	}

	u, err := s.users.GetByFirebaseUID(ctx, docID)
	if err != nil || u != nil {
		return u, err
	}

	if email := getString(data, "email"); email != "" {
		return s.users.GetByEmail(ctx, email)
	}
	return nil, nil
}

func (s *PullServiceImpl) createUser(ctx context.Context, data bson.M, docID string) (bool, error) {
	role, err := s.resolveRole(ctx, data)
	if err != nil {
		return false, err
	}
	if role == nil {
		role, err = s.users.GetRoleByCode(ctx, "USER")
		if err != nil {
			return false, err
		}
	}
	if role == nil {
		s.log.Error("default role missing, user document not materialized",
			zap.String("table", TableUsers), zap.String("doc_id", docID))
		return false, nil
	}

	statusType, err := s.resolveUserStatusType(ctx, data)
	if err != nil {
		return false, err
	}
	if statusType == nil {
		statusType, err = s.users.GetUserStatusTypeByCode(ctx, "ACTIVE")
		if err != nil {
			return false, err
		}
	}
	if statusType == nil {
		s.log.Error("default user status type missing, user document not materialized",
			zap.String("table", TableUsers), zap.String("doc_id", docID))
		return false, nil
	}

	now := time.Now()
	u := &user.User{
		Name:           getString(data, "name"),
		Email:          getString(data, "email"),
		Password:       getStringDefault(data, "password", "firebase_user"),
		FirebaseUID:    docID,
		Role:           role,
		UserStatusType: statusType,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

// updateUser applies only the fields the document actually carries.
func (s *PullServiceImpl) updateUser(ctx context.Context, u *user.User, data bson.M, docID string) error {
	if name := getString(data, "name"); name != "" {
		u.Name = name
	}
	if email := getString(data, "email"); email != "" {
		u.Email = email
	}
	u.FirebaseUID = docID

	role, err := s.resolveRole(ctx, data)
	if err != nil {
		return err
	}
	if role != nil {
		u.Role = role
	}

	statusType, err := s.resolveUserStatusType(ctx, data)
	if err != nil {
		return err
	}
	if statusType != nil {
		u.UserStatusType = statusType
	}

	u.UpdatedAt = time.Now()
	return s.users.Update(ctx, u)
}

func (s *PullServiceImpl) resolveRole(ctx context.Context, data bson.M) (*user.Role, error) {
	sub := getSub(data, "role")
	if sub == nil {
		return nil, nil
	}
	if id := getInt(sub, "id"); id > 0 {
		return s.users.GetRoleByID(ctx, id)
	}
	if code := getString(sub, "role_code"); code != "" {
		return s.users.GetRoleByCode(ctx, code)
	}
	return nil, nil
}

func (s *PullServiceImpl) resolveUserStatusType(ctx context.Context, data bson.M) (*user.UserStatusType, error) {
	sub := getSub(data, "user_status_type")
	if sub == nil {
		return nil, nil
	}
	if id := getInt(sub, "id"); id > 0 {
		return s.users.GetUserStatusTypeByID(ctx, id)
	}
	if code := getString(sub, "status_code"); code != "" {
		return s.users.GetUserStatusTypeByCode(ctx, code)
	}
	return nil, nil
}

// ===== report resolution =====

func (s *PullServiceImpl) findReport(ctx context.Context, data bson.M, docID string) (*report.Report, error) {
	if id := getInt(data, "id"); id > 0 {
		rep, err := s.reports.GetByID(ctx, id)
		if err != nil || rep != nil {
			return rep, err
		}
	}
	return s.reports.GetByFirebaseID(ctx, docID)
}

func (s *PullServiceImpl) createReport(ctx context.Context, data bson.M, docID string) (bool, error) {
	owner, err := s.resolveReportUser(ctx, data)
	if err != nil {
		return false, err
	}
	if owner == nil {
		s.log.Error("report document owner unresolved, not materialized",
			zap.String("table", TableReports), zap.String("doc_id", docID))
		return false, nil
	}

	st, err := s.resolveStatus(ctx, data)
	if err != nil {
		return false, err
	}
	if st == nil {
		st, err = s.statuses.GetByCode(ctx, "SUBMITTED")
		if err != nil {
			return false, err
		}
	}
	if st == nil {
		s.log.Error("default report status missing, not materialized",
			zap.String("table", TableReports), zap.String("doc_id", docID))
		return false, nil
	}

	rep := &report.Report{
		User:        *owner,
		Status:      *st,
		Description: getString(data, "description"),
		Area:        getDecimal(data, "area"),
		Longitude:   getDecimal(data, "longitude"),
		Latitude:    getDecimal(data, "latitude"),
		ReportDate:  getTime(data, "report_date"),
		FirebaseID:  docID,
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return false, err
	}

	// Seed the status history so delay statistics see the initial transition.
	if err := s.reports.RecordStatusHistory(ctx, rep.ID, st.ID, time.Now()); err != nil {
		s.log.Error("report status history seeding failed",
			zap.String("table", TableReports), zap.Int("id", rep.ID), zap.Error(err))
	}
	return true, nil
}

// updateReport applies a partial update. The owning user is never changed
// once a report exists.
func (s *PullServiceImpl) updateReport(ctx context.Context, rep *report.Report, data bson.M, docID string) error {
	st, err := s.resolveStatus(ctx, data)
	if err != nil {
		return err
	}
	if st != nil {
		rep.Status = *st
	}

	if description := getString(data, "description"); description != "" {
		rep.Description = description
	}
	if area := getDecimal(data, "area"); area.Valid {
		rep.Area = area
	}
	if longitude := getDecimal(data, "longitude"); longitude.Valid {
		rep.Longitude = longitude
	}
	if latitude := getDecimal(data, "latitude"); latitude.Valid {
		rep.Latitude = latitude
	}
	if reportDate := getTime(data, "report_date"); reportDate != nil {
		rep.ReportDate = reportDate
	}
	rep.FirebaseID = docID

	return s.reports.Update(ctx, rep)
}

func (s *PullServiceImpl) resolveReportUser(ctx context.Context, data bson.M) (*user.User, error) {
	sub := getSub(data, "user")
	if sub == nil {
		return nil, nil
	}
	if id := getInt(sub, "id"); id > 0 {
		u, err := s.users.GetByID(ctx, id)
		if err != nil || u != nil {
			return u, err
		}
	}
	if email := getString(sub, "email"); email != "" {
		return s.users.GetByEmail(ctx, email)
	}
	return nil, nil
}

func (s *PullServiceImpl) resolveStatus(ctx context.Context, data bson.M) (*status.Status, error) {
	sub := getSub(data, "status")
	if sub == nil {
		return nil, nil
	}
	if id := getInt(sub, "id"); id > 0 {
		return s.statuses.GetByID(ctx, id)
	}
	if code := getString(sub, "status_code"); code != "" {
		return s.statuses.GetByCode(ctx, code)
	}
	return nil, nil
}

func (s *PullServiceImpl) commit(ctx context.Context, result EntityResult, passStart time.Time) (EntityResult, error) {
	result.Timestamp = time.Now()
	if err := s.syncLogs.LogSync(ctx, result.Table, synclog.SyncTypePull, result.Synced, passStart); err != nil {
		return EntityResult{}, err
	}
	return result, nil
}
