package sync

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sarobidyBryan/signalement/internal/config"
	"github.com/sarobidyBryan/signalement/internal/features/report"
	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/synclog"
	"github.com/sarobidyBryan/signalement/internal/features/user"
)

type pullFixture struct {
	gateway  *fakeGateway
	syncLogs *fakeSyncLogs
	users    *fakeUserRepo
	reports  *fakeReportRepo
	statuses *fakeStatusRepo
	svc      PullService
}

func newPullFixture(pullUndated bool) *pullFixture {
	f := &pullFixture{
		gateway:  newFakeGateway(),
		syncLogs: &fakeSyncLogs{},
		users: &fakeUserRepo{
			roles:       []user.Role{{ID: 1, RoleCode: "USER", Label: "User"}, {ID: 2, RoleCode: "ADMIN", Label: "Admin"}},
			statusTypes: []user.UserStatusType{{ID: 1, StatusCode: "ACTIVE", Label: "Active"}},
		},
		reports: &fakeReportRepo{},
		statuses: &fakeStatusRepo{statuses: []status.Status{
			{ID: 1, StatusCode: "SUBMITTED", Label: "Submitted"},
			{ID: 2, StatusCode: "IN_PROGRESS", Label: "In progress"},
		}},
	}
	f.svc = NewPullService(
		f.gateway, f.syncLogs, f.users, f.reports, f.statuses,
		&config.Config{SyncPullUndated: pullUndated},
		testLogger,
	)
	return f
}

func TestPullUsersCreatesWithDefaults(t *testing.T) {
	f := newPullFixture(true)
	f.gateway.col(TableUsers)["uid-9"] = bson.M{
		"name":       "Remote User",
		"email":      "remote@example.com",
		"updated_at": time.Now(),
	}

	result, err := f.svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if result.Created != 1 || result.Synced != 1 {
		t.Fatalf("result = %+v, want created=1 synced=1", result)
	}

	created := f.users.users[len(f.users.users)-1]
	if created.FirebaseUID != "uid-9" {
		t.Errorf("FirebaseUID = %q, want uid-9", created.FirebaseUID)
	}
	if created.Password != "firebase_user" {
		t.Errorf("Password = %q, want the placeholder", created.Password)
	}
	if created.Role == nil || created.Role.RoleCode != "USER" {
		t.Errorf("Role = %+v, want default USER", created.Role)
	}
	if created.UserStatusType == nil || created.UserStatusType.StatusCode != "ACTIVE" {
		t.Errorf("UserStatusType = %+v, want default ACTIVE", created.UserStatusType)
	}
}

func TestPullUsersPartialUpdate(t *testing.T) {
	f := newPullFixture(true)
	role := user.Role{ID: 1, RoleCode: "USER", Label: "User"}
	statusType := user.UserStatusType{ID: 1, StatusCode: "ACTIVE", Label: "Active"}
	f.users.users = []user.User{
		{ID: 5, Name: "Old Name", Email: "keep@example.com", FirebaseUID: "uid-5",
			Role: &role, UserStatusType: &statusType},
	}
	f.gateway.col(TableUsers)["uid-5"] = bson.M{
		"id":         5,
		"name":       "New Name",
		"updated_at": time.Now(),
	}

	result, err := f.svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if result.Updated != 1 || result.Created != 0 {
		t.Fatalf("result = %+v, want updated=1", result)
	}

	got := f.users.users[0]
	if got.Name != "New Name" {
		t.Errorf("Name = %q, want New Name", got.Name)
	}
	if got.Email != "keep@example.com" {
		t.Errorf("Email = %q, document without email must not clear it", got.Email)
	}
}

func TestPullUsersAdoptsByEmail(t *testing.T) {
	f := newPullFixture(true)
	role := user.Role{ID: 1, RoleCode: "USER", Label: "User"}
	statusType := user.UserStatusType{ID: 1, StatusCode: "ACTIVE", Label: "Active"}
	f.users.users = []user.User{
		{ID: 6, Name: "Alice", Email: "alice@example.com", Role: &role, UserStatusType: &statusType},
	}
	// Document carries neither a usable internal id nor a known UID.
	f.gateway.col(TableUsers)["uid-new"] = bson.M{
		"email":      "alice@example.com",
		"updated_at": time.Now(),
	}

	result, err := f.svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if result.Updated != 1 || result.Created != 0 {
		t.Fatalf("result = %+v, want the row adopted, not duplicated", result)
	}
	if got := f.users.users[0].FirebaseUID; got != "uid-new" {
		t.Errorf("FirebaseUID = %q, want uid-new", got)
	}
	if len(f.users.users) != 1 {
		t.Fatalf("user rows = %d, want 1", len(f.users.users))
	}
}

func TestPullUsersSkipsStaleDocuments(t *testing.T) {
	f := newPullFixture(true)
	f.syncLogs.entries = []loggedSync{
		{Table: TableUsers, SyncType: synclog.SyncTypePull, At: time.Now()},
	}
	f.gateway.col(TableUsers)["uid-old"] = bson.M{
		"email":      "stale@example.com",
		"updated_at": time.Now().Add(-time.Hour),
	}

	result, err := f.svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if result.Total != 1 || result.Synced != 0 {
		t.Fatalf("result = %+v, want the stale document skipped", result)
	}
	if len(f.users.users) != 0 {
		t.Fatalf("user rows = %d, want 0", len(f.users.users))
	}
}

func TestPullUndatedDocumentsConfigurable(t *testing.T) {
	doc := bson.M{"email": "nodate@example.com", "name": "No Date"}

	t.Run("included by default", func(t *testing.T) {
		f := newPullFixture(true)
		f.gateway.col(TableUsers)["uid-nd"] = doc
		result, err := f.svc.Users(context.Background())
		if err != nil {
			t.Fatalf("Users: %v", err)
		}
		if result.Created != 1 {
			t.Fatalf("result = %+v, want the undated document pulled", result)
		}
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		f := newPullFixture(false)
		f.gateway.col(TableUsers)["uid-nd"] = doc
		result, err := f.svc.Users(context.Background())
		if err != nil {
			t.Fatalf("Users: %v", err)
		}
		if result.Synced != 0 {
			t.Fatalf("result = %+v, want the undated document skipped", result)
		}
	})
}

func TestPullReportsPartialUpdate(t *testing.T) {
	f := newPullFixture(true)
	role := user.Role{ID: 1, RoleCode: "USER", Label: "User"}
	statusType := user.UserStatusType{ID: 1, StatusCode: "ACTIVE", Label: "Active"}
	area := decimal.NewNullDecimal(decimal.RequireFromString("150"))
	longitude := decimal.NewNullDecimal(decimal.RequireFromString("47.521"))
	f.reports.reports = []report.Report{
		{ID: 7,
			User:        user.User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: &role, UserStatusType: &statusType},
			Status:      status.Status{ID: 1, StatusCode: "SUBMITTED", Label: "Submitted"},
			Area:        area, Longitude: longitude,
			Description: "old description", FirebaseID: "doc-7"},
	}
	f.gateway.col(TableReports)["doc-7"] = bson.M{
		"id":          7,
		"description": "updated from mobile",
		"updated_at":  time.Now(),
	}

	result, err := f.svc.Reports(context.Background())
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("result = %+v, want updated=1", result)
	}

	got := f.reports.reports[0]
	if got.Description != "updated from mobile" {
		t.Errorf("Description = %q", got.Description)
	}
	if !got.Area.Valid || !got.Area.Decimal.Equal(area.Decimal) {
		t.Errorf("Area = %+v, partial update must not touch it", got.Area)
	}
	if !got.Longitude.Valid || !got.Longitude.Decimal.Equal(longitude.Decimal) {
		t.Errorf("Longitude = %+v, partial update must not touch it", got.Longitude)
	}
}

func TestPullReportsCreateSeedsStatusHistory(t *testing.T) {
	f := newPullFixture(true)
	role := user.Role{ID: 1, RoleCode: "USER", Label: "User"}
	statusType := user.UserStatusType{ID: 1, StatusCode: "ACTIVE", Label: "Active"}
	f.users.users = []user.User{
		{ID: 3, Name: "Alice", Email: "alice@example.com", Role: &role, UserStatusType: &statusType},
	}
	f.gateway.col(TableReports)["doc-new"] = bson.M{
		"description": "fresh from mobile",
		"area":        120.5,
		"user":        bson.M{"email": "alice@example.com"},
		"updated_at":  time.Now(),
	}

	result, err := f.svc.Reports(context.Background())
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("result = %+v, want created=1", result)
	}

	created := f.reports.reports[0]
	if created.FirebaseID != "doc-new" {
		t.Errorf("FirebaseID = %q, want doc-new", created.FirebaseID)
	}
	if created.Status.StatusCode != "SUBMITTED" {
		t.Errorf("Status = %q, want default SUBMITTED", created.Status.StatusCode)
	}
	if !created.Area.Valid || created.Area.Decimal.InexactFloat64() != 120.5 {
		t.Errorf("Area = %+v, want 120.5", created.Area)
	}

	if len(f.reports.history) != 1 {
		t.Fatalf("status history rows = %d, want 1", len(f.reports.history))
	}
	h := f.reports.history[0]
	if h.ReportID != created.ID || h.StatusID != created.Status.ID {
		t.Errorf("history = %+v, want report %d status %d", h, created.ID, created.Status.ID)
	}
}

func TestPullReportsUnresolvedOwnerIsSkipped(t *testing.T) {
	f := newPullFixture(true)
	f.gateway.col(TableReports)["doc-orphan"] = bson.M{
		"description": "nobody owns this",
		"user":        bson.M{"email": "ghost@example.com"},
		"updated_at":  time.Now(),
	}

	result, err := f.svc.Reports(context.Background())
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if result.Created != 0 || result.Synced != 0 {
		t.Fatalf("result = %+v, want the orphan document skipped", result)
	}
	if len(f.reports.reports) != 0 {
		t.Fatalf("report rows = %d, want 0", len(f.reports.reports))
	}
}
