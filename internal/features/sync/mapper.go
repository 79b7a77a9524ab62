package sync

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sarobidyBryan/signalement/internal/features/assignation"
	"github.com/sarobidyBryan/signalement/internal/features/company"
	"github.com/sarobidyBryan/signalement/internal/features/configuration"
	"github.com/sarobidyBryan/signalement/internal/features/progression"
	"github.com/sarobidyBryan/signalement/internal/features/report"
	"github.com/sarobidyBryan/signalement/internal/features/status"
	"github.com/sarobidyBryan/signalement/internal/features/user"
)

// Document field names are snake_case throughout. The correlation and
// watermark fields (postgres_id, updated_at, synced_at) must match what the
// docstore gateway queries on.

func mapConfiguration(c *configuration.Configuration) bson.M {
	return bson.M{
		"id":          c.ID,
		"key":         c.Key,
		"value":       c.Value,
		"type":        c.Type,
		"firebase_id": c.FirebaseID,
		"created_at":  c.CreatedAt,
		"updated_at":  c.UpdatedAt,
	}
}

func mapCompany(c *company.Company) bson.M {
	return bson.M{
		"id":          c.ID,
		"name":        c.Name,
		"email":       c.Email,
		"firebase_id": c.FirebaseID,
		"created_at":  c.CreatedAt,
		"updated_at":  c.UpdatedAt,
	}
}

func mapStatus(s *status.Status) bson.M {
	return bson.M{
		"id":          s.ID,
		"status_code": s.StatusCode,
		"label":       s.Label,
	}
}

func mapRole(r *user.Role) bson.M {
	return bson.M{
		"id":        r.ID,
		"role_code": r.RoleCode,
		"label":     r.Label,
	}
}

func mapUserStatusType(t *user.UserStatusType) bson.M {
	return bson.M{
		"id":          t.ID,
		"status_code": t.StatusCode,
		"label":       t.Label,
	}
}

func mapUser(u *user.User) bson.M {
	data := bson.M{
		"id":           u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"password":     u.Password,
		"firebase_uid": u.FirebaseUID,
		"created_at":   u.CreatedAt,
		"updated_at":   u.UpdatedAt,
	}
	if u.Role != nil {
		data["role"] = mapRole(u.Role)
	}
	if u.UserStatusType != nil {
		data["user_status_type"] = mapUserStatusType(u.UserStatusType)
	}
	return data
}

// mapReport builds the denormalized aggregate: the report's own fields plus
// embedded user, status, the first assignation with its company, and the
// progressions block with running totals. Rebuilt wholesale on every push.
func mapReport(rep *report.Report, assignations []assignation.Assignation, items []assignation.Progress) bson.M {
	data := bson.M{
		"id":          rep.ID,
		"report_date": timeValue(rep.ReportDate),
		"area":        nullDecimalValue(rep.Area),
		"longitude":   nullDecimalValue(rep.Longitude),
		"latitude":    nullDecimalValue(rep.Latitude),
		"description": rep.Description,
		"firebase_id": rep.FirebaseID,
		"created_at":  rep.CreatedAt,
		"updated_at":  rep.UpdatedAt,
		"user":        mapUser(&rep.User),
		"status":      mapStatus(&rep.Status),
	}

	if len(assignations) == 0 {
		data["assignation"] = nil
		data["progressions"] = nil
		return data
	}

	first := assignations[0]
	data["assignation"] = mapAssignation(&first)
	data["progressions"] = mapProgressions(&first, items, rep.Area)
	return data
}

func mapAssignation(a *assignation.Assignation) bson.M {
	return bson.M{
		"id":          a.ID,
		"budget":      nullDecimalValue(a.Budget),
		"start_date":  dateString(a.StartDate),
		"deadline":    dateString(a.Deadline),
		"firebase_id": a.FirebaseID,
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
		"company":     mapCompany(&a.Company),
	}
}

func mapProgressions(a *assignation.Assignation, items []assignation.Progress, totalArea decimal.NullDecimal) bson.M {
	treatedAreas := make([]decimal.NullDecimal, len(items))
	for i, p := range items {
		treatedAreas[i] = p.TreatedArea
	}

	totalTreated, totalPercentage := progression.Totals(treatedAreas, totalArea)

	mapped := make([]bson.M, 0, len(items))
	for i := range items {
		mapped = append(mapped, mapProgressItem(&items[i], totalArea))
	}

	return bson.M{
		"reports_assignation_id":          a.ID,
		"reports_assignation_firebase_id": a.FirebaseID,
		"total_treated_area":              totalTreated.InexactFloat64(),
		"total_percentage":                totalPercentage.InexactFloat64(),
		"remaining_area":                  progression.RemainingArea(totalTreated, totalArea).InexactFloat64(),
		"is_completed":                    progression.IsCompleted(totalTreated, totalArea),
		"items":                           mapped,
	}
}

func mapProgressItem(p *assignation.Progress, totalArea decimal.NullDecimal) bson.M {
	return bson.M{
		"id":                p.ID,
		"treated_area":      nullDecimalValue(p.TreatedArea),
		"percentage":        progression.Percentage(p.TreatedArea, totalArea).InexactFloat64(),
		"comment":           p.Comment,
		"registration_date": timeValue(p.RegistrationDate),
		"firebase_id":       p.FirebaseID,
		"created_at":        p.CreatedAt,
		"updated_at":        p.UpdatedAt,
	}
}

// ===== encode helpers =====

func nullDecimalValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func timeValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func dateString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

// ===== decode helpers, tolerant of BSON numeric and date widening =====

func getString(data bson.M, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getStringDefault(data bson.M, key, fallback string) string {
	if s := getString(data, key); s != "" {
		return s
	}
	return fallback
}

func getInt(data bson.M, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getDecimal(data bson.M, key string) decimal.NullDecimal {
	switch v := data[key].(type) {
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case int32:
		return decimal.NewNullDecimal(decimal.NewFromInt32(v))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return decimal.NewNullDecimal(d)
		}
	}
	return decimal.NullDecimal{}
}

func getTime(data bson.M, key string) *time.Time {
	switch v := data[key].(type) {
	case primitive.DateTime:
		t := v.Time()
		return &t
	case time.Time:
		return &v
	}
	return nil
}

func getSub(data bson.M, key string) bson.M {
	switch v := data[key].(type) {
	case bson.M:
		return v
	case map[string]interface{}:
		return bson.M(v)
	}
	return nil
}

// documentUpdatedAt extracts the watermark timestamp of a pulled document,
// preferring the domain updated_at over the engine-stamped synced_at.
func documentUpdatedAt(data bson.M) *time.Time {
	if t := getTime(data, "updated_at"); t != nil {
		return t
	}
	return getTime(data, "synced_at")
}
