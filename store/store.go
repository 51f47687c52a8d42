package store

import (
	"context"
	"errors"
	"time"

	"github.com/nelnel19/BAHA-ALERT/models"
)

// ErrNotFound is returned when an id does not resolve to a stored document.
var ErrNotFound = errors.New("not found")

// ReportFilter is the reporter-identity soft join: reports are matched to a
// caller by string comparison, not by a foreign key. ReporterName matches as a
// case-insensitive substring ("juan" finds "Juan Dela Cruz" and "Juana");
// ContactNumber must already be digits-only and matches exactly. Both set
// means AND. Two users sharing name and number are indistinguishable here;
// known accuracy limitation.
type ReportFilter struct {
	ReporterName  string
	ContactNumber string
}

// Empty reports whether the filter carries no identity at all.
func (f ReportFilter) Empty() bool {
	return f.ReporterName == "" && f.ContactNumber == ""
}

// ReportPatch is a partial update; nil fields are left untouched.
// ContactNumber must be normalized by the caller before it gets here.
type ReportPatch struct {
	ReporterName  *string
	ContactNumber *string
	Location      *string
	Description   *string
	DangerLevel   *string
	ImageURL      *string
	ImagePublicID *string
}

// SchedulePatch is a partial update for an LGU event.
type SchedulePatch struct {
	Title         *string
	Description   *string
	Date          *time.Time
	Category      *string
	Location      *string
	ImageURL      *string
	ImagePublicID *string
}

// UserPatch is a partial account update. Password must already be hashed.
type UserPatch struct {
	Name          *string
	Age           *int
	Password      *string
	ContactNumber *string
	ProfileImage  *string
}

// ReportStore is the flood_reports collection.
type ReportStore interface {
	Insert(ctx context.Context, r models.FloodReport) (models.FloodReport, error)
	All(ctx context.Context) ([]models.FloodReport, error)
	Find(ctx context.Context, f ReportFilter) ([]models.FloodReport, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, p ReportPatch) (models.FloodReport, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleStore is the lgu_schedules collection.
type ScheduleStore interface {
	Insert(ctx context.Context, s models.LguSchedule) (models.LguSchedule, error)
	AllByDate(ctx context.Context) ([]models.LguSchedule, error)
	AllByCreated(ctx context.Context) ([]models.LguSchedule, error)
	Get(ctx context.Context, id string) (models.LguSchedule, error)
	Update(ctx context.Context, id string, p SchedulePatch) (models.LguSchedule, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// UserStore is the users collection.
type UserStore interface {
	Insert(ctx context.Context, u models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, id string, p UserPatch) (models.User, error)
	Delete(ctx context.Context, id string) error
}
