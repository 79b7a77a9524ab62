package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/sarobidyBryan/signalement/internal/features/assignation"
	"github.com/sarobidyBryan/signalement/internal/features/company"
	"github.com/sarobidyBryan/signalement/internal/features/configuration"
	"github.com/sarobidyBryan/signalement/internal/features/docstore"
	"github.com/sarobidyBryan/signalement/internal/features/report"
	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/synclog"
	"github.com/sarobidyBryan/signalement/internal/features/user"
)

var testLogger = zap.NewNop()

// ===== document store =====

type fakeGateway struct {
	collections map[string]map[string]bson.M
	generated   int
	saveErr     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{collections: make(map[string]map[string]bson.M)}
}

func (g *fakeGateway) col(name string) map[string]bson.M {
	if g.collections[name] == nil {
		g.collections[name] = make(map[string]bson.M)
	}
	return g.collections[name]
}

func (g *fakeGateway) Save(ctx context.Context, collection, docID string, data bson.M) (string, error) {
	if g.saveErr != nil {
		return "", g.saveErr
	}
	if docID == "" {
		g.generated++
		docID = fmt.Sprintf("gen-%d", g.generated)
	}

	col := g.col(collection)
	if col[docID] == nil {
		col[docID] = bson.M{}
	}
	for k, v := range data {
		col[docID][k] = v
	}
	return docID, nil
}

func (g *fakeGateway) Upsert(ctx context.Context, collection, docID string, postgresID int, data bson.M) (string, error) {
	if docID == "" {
		existing, err := g.FindDocIDByPostgresID(ctx, collection, postgresID)
		if err != nil {
			return "", err
		}
		docID = existing
	}

	data[docstore.CorrelationField] = postgresID
	data["synced_at"] = time.Now()
	return g.Save(ctx, collection, docID, data)
}

func (g *fakeGateway) Get(ctx context.Context, collection, docID string) (bson.M, error) {
	doc, ok := g.col(collection)[docID]
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (g *fakeGateway) GetAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	col := g.col(collection)
	ids := make([]string, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]docstore.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, docstore.Document{ID: id, Data: col[id]})
	}
	return docs, nil
}

func (g *fakeGateway) FindByField(ctx context.Context, collection, field string, value interface{}) ([]docstore.Document, error) {
	var docs []docstore.Document
	for id, data := range g.col(collection) {
		if data[field] == value {
			docs = append(docs, docstore.Document{ID: id, Data: data})
		}
	}
	return docs, nil
}

func (g *fakeGateway) FindDocIDByPostgresID(ctx context.Context, collection string, postgresID int) (string, error) {
	docs, err := g.FindByField(ctx, collection, docstore.CorrelationField, postgresID)
	if err != nil || len(docs) == 0 {
		return "", err
	}
	return docs[0].ID, nil
}

func (g *fakeGateway) ModifiedSince(ctx context.Context, collection string, since time.Time) ([]docstore.Document, error) {
	return g.GetAll(ctx, collection)
}

func (g *fakeGateway) Delete(ctx context.Context, collection, docID string) error {
	delete(g.col(collection), docID)
	return nil
}

// ===== sync audit log =====

type loggedSync struct {
	Table    string
	SyncType string
	Records  int
	At       time.Time
}

type fakeSyncLogs struct {
	entries []loggedSync
	logErr  error
}

func (f *fakeSyncLogs) LastSyncDate(ctx context.Context, tableName, syncType string) (time.Time, error) {
	last := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range f.entries {
		if e.Table == tableName && e.SyncType == syncType && e.At.After(last) {
			last = e.At
		}
	}
	return last, nil
}

func (f *fakeSyncLogs) LogSync(ctx context.Context, tableName, syncType string, recordsSynced int, at time.Time) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.entries = append(f.entries, loggedSync{Table: tableName, SyncType: syncType, Records: recordsSynced, At: at})
	return nil
}

func (f *fakeSyncLogs) List(ctx context.Context) ([]synclog.SyncLog, error) { return nil, nil }

// ===== identity =====

type fakeProvisioner struct {
	uids    map[string]string // email -> uid
	created int
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{uids: make(map[string]string)}
}

func (f *fakeProvisioner) EnsureIdentity(ctx context.Context, cachedUID, email, password, displayName string) (string, bool, error) {
	if uid, ok := f.uids[email]; ok {
		return uid, false, nil
	}
	uid := fmt.Sprintf("uid-%s", email)
	f.uids[email] = uid
	f.created++
	return uid, true, nil
}

// ===== relational repositories =====

type fakeConfigurationRepo struct {
	configs []configuration.Configuration
	findErr error
}

func (f *fakeConfigurationRepo) FindModifiedSince(ctx context.Context, since time.Time) ([]configuration.Configuration, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []configuration.Configuration
	for _, c := range f.configs {
		if c.CreatedAt.After(since) || c.UpdatedAt.After(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConfigurationRepo) GetByKey(ctx context.Context, key string) (*configuration.Configuration, error) {
	return nil, nil
}

func (f *fakeConfigurationRepo) UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error {
	for i := range f.configs {
		if f.configs[i].ID == id {
			f.configs[i].FirebaseID = firebaseID
		}
	}
	return nil
}

type fakeCompanyRepo struct {
	companies []company.Company
}

func (f *fakeCompanyRepo) FindModifiedSince(ctx context.Context, since time.Time) ([]company.Company, error) {
	var out []company.Company
	for _, c := range f.companies {
		if c.CreatedAt.After(since) || c.UpdatedAt.After(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id int) (*company.Company, error) {
	for i := range f.companies {
		if f.companies[i].ID == id {
			return &f.companies[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCompanyRepo) UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error {
	for i := range f.companies {
		if f.companies[i].ID == id {
			f.companies[i].FirebaseID = firebaseID
		}
	}
	return nil
}

type fakeStatusRepo struct {
	statuses []status.Status
}

func (f *fakeStatusRepo) GetAll(ctx context.Context) ([]status.Status, error) {
	return append([]status.Status(nil), f.statuses...), nil
}

func (f *fakeStatusRepo) GetByID(ctx context.Context, id int) (*status.Status, error) {
	for i := range f.statuses {
		if f.statuses[i].ID == id {
			return &f.statuses[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStatusRepo) GetByCode(ctx context.Context, code string) (*status.Status, error) {
	for i := range f.statuses {
		if f.statuses[i].StatusCode == code {
			return &f.statuses[i], nil
		}
	}
	return nil, nil
}

type fakeUserRepo struct {
	users       []user.User
	roles       []user.Role
	statusTypes []user.UserStatusType
	nextID      int
}

func (f *fakeUserRepo) FindModifiedSince(ctx context.Context, since time.Time) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.CreatedAt.After(since) || u.UpdatedAt.After(since) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*user.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByFirebaseUID(ctx context.Context, uid string) (*user.User, error) {
	for i := range f.users {
		if f.users[i].FirebaseUID == uid && uid != "" {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.nextID++
	u.ID = f.nextID + 100
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	for i := range f.users {
		if f.users[i].ID == u.ID {
			f.users[i] = *u
		}
	}
	return nil
}

func (f *fakeUserRepo) UpdateFirebaseUID(ctx context.Context, id int, uid string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].FirebaseUID = uid
		}
	}
	return nil
}

func (f *fakeUserRepo) GetRoleByID(ctx context.Context, id int) (*user.Role, error) {
	for i := range f.roles {
		if f.roles[i].ID == id {
			return &f.roles[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetRoleByCode(ctx context.Context, code string) (*user.Role, error) {
	for i := range f.roles {
		if f.roles[i].RoleCode == code {
			return &f.roles[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserStatusTypeByID(ctx context.Context, id int) (*user.UserStatusType, error) {
	for i := range f.statusTypes {
		if f.statusTypes[i].ID == id {
			return &f.statusTypes[i], nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserStatusTypeByCode(ctx context.Context, code string) (*user.UserStatusType, error) {
	for i := range f.statusTypes {
		if f.statusTypes[i].StatusCode == code {
			return &f.statusTypes[i], nil
		}
	}
	return nil, nil
}

type fakeReportRepo struct {
	reports []report.Report
	history []report.StatusHistory
	nextID  int
}

func (f *fakeReportRepo) FindModifiedSince(ctx context.Context, since time.Time) ([]report.Report, error) {
	var out []report.Report
	for _, r := range f.reports {
		if r.CreatedAt.After(since) || r.UpdatedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id int) (*report.Report, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) GetByFirebaseID(ctx context.Context, firebaseID string) (*report.Report, error) {
	for i := range f.reports {
		if f.reports[i].FirebaseID == firebaseID && firebaseID != "" {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) Create(ctx context.Context, r *report.Report) error {
	f.nextID++
	r.ID = f.nextID + 500
	f.reports = append(f.reports, *r)
	return nil
}

func (f *fakeReportRepo) Update(ctx context.Context, r *report.Report) error {
	for i := range f.reports {
		if f.reports[i].ID == r.ID {
			f.reports[i] = *r
		}
	}
	return nil
}

func (f *fakeReportRepo) UpdateFirebaseID(ctx context.Context, id int, firebaseID string) error {
	for i := range f.reports {
		if f.reports[i].ID == id {
			f.reports[i].FirebaseID = firebaseID
		}
	}
	return nil
}

func (f *fakeReportRepo) RecordStatusHistory(ctx context.Context, reportID, statusID int, at time.Time) error {
	f.history = append(f.history, report.StatusHistory{
		ID:               len(f.history) + 1,
		ReportID:         reportID,
		StatusID:         statusID,
		RegistrationDate: at,
	})
	return nil
}

type fakeAssignationRepo struct {
	assignations map[int][]assignation.Assignation
	progress     map[int][]assignation.Progress
}

func (f *fakeAssignationRepo) FindByReportID(ctx context.Context, reportID int) ([]assignation.Assignation, error) {
	return f.assignations[reportID], nil
}

func (f *fakeAssignationRepo) FindProgressByAssignationID(ctx context.Context, assignationID int) ([]assignation.Progress, error) {
	return f.progress[assignationID], nil
}
