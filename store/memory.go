package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nelnel19/BAHA-ALERT/models"
)

// In-memory stores with the same semantics as the Mongo implementations.
// They back handler tests and let the server run without a database in
// throwaway setups.

// MemReports is an in-memory ReportStore.
type MemReports struct {
	mu      sync.Mutex
	reports []models.FloodReport
}

func NewMemReports() *MemReports { return &MemReports{} }

func (s *MemReports) Insert(_ context.Context, r models.FloodReport) (models.FloodReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	s.reports = append(s.reports, r)
	return r, nil
}

func (s *MemReports) All(ctx context.Context) ([]models.FloodReport, error) {
	return s.Find(ctx, ReportFilter{})
}

func (s *MemReports) Find(_ context.Context, f ReportFilter) ([]models.FloodReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.FloodReport{}
	for _, r := range s.reports {
		if f.ReporterName != "" &&
			!strings.Contains(strings.ToLower(r.ReporterName), strings.ToLower(f.ReporterName)) {
			continue
		}
		if f.ContactNumber != "" && r.ContactNumber != f.ContactNumber {
			continue
		}
		out = append(out, r)
	}
	// Newest first; insertion order breaks ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemReports) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.reports)), nil
}

func (s *MemReports) Update(_ context.Context, id string, p ReportPatch) (models.FloodReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID.Hex() != id {
			continue
		}
		r := &s.reports[i]
		applyStr(&r.ReporterName, p.ReporterName)
		applyStr(&r.ContactNumber, p.ContactNumber)
		applyStr(&r.Location, p.Location)
		applyStr(&r.Description, p.Description)
		applyStr(&r.DangerLevel, p.DangerLevel)
		applyStr(&r.ImageURL, p.ImageURL)
		applyStr(&r.ImagePublicID, p.ImagePublicID)
		return *r, nil
	}
	return models.FloodReport{}, ErrNotFound
}

func (s *MemReports) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID.Hex() == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemSchedules is an in-memory ScheduleStore.
type MemSchedules struct {
	mu        sync.Mutex
	schedules []models.LguSchedule
}

func NewMemSchedules() *MemSchedules { return &MemSchedules{} }

func (s *MemSchedules) Insert(_ context.Context, sc models.LguSchedule) (models.LguSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.ID = primitive.NewObjectID()
	s.schedules = append(s.schedules, sc)
	return sc, nil
}

func (s *MemSchedules) AllByDate(_ context.Context) ([]models.LguSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.LguSchedule{}, s.schedules...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemSchedules) AllByCreated(_ context.Context) ([]models.LguSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]models.LguSchedule{}, s.schedules...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemSchedules) Get(_ context.Context, id string) (models.LguSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.schedules {
		if sc.ID.Hex() == id {
			return sc, nil
		}
	}
	return models.LguSchedule{}, ErrNotFound
}

func (s *MemSchedules) Update(_ context.Context, id string, p SchedulePatch) (models.LguSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.schedules {
		if s.schedules[i].ID.Hex() != id {
			continue
		}
		sc := &s.schedules[i]
		applyStr(&sc.Title, p.Title)
		applyStr(&sc.Description, p.Description)
		applyStr(&sc.Category, p.Category)
		applyStr(&sc.Location, p.Location)
		applyStr(&sc.ImageURL, p.ImageURL)
		applyStr(&sc.ImagePublicID, p.ImagePublicID)
		if p.Date != nil {
			sc.Date = *p.Date
		}
		return *sc, nil
	}
	return models.LguSchedule{}, ErrNotFound
}

func (s *MemSchedules) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.schedules {
		if s.schedules[i].ID.Hex() == id {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemSchedules) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.schedules)), nil
}

// MemUsers is an in-memory UserStore.
type MemUsers struct {
	mu    sync.Mutex
	users []models.User
}

func NewMemUsers() *MemUsers { return &MemUsers{} }

func (s *MemUsers) Insert(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = primitive.NewObjectID()
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemUsers) Update(_ context.Context, id string, p UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID.Hex() != id {
			continue
		}
		u := &s.users[i]
		applyStr(&u.Name, p.Name)
		applyStr(&u.Password, p.Password)
		applyStr(&u.ContactNumber, p.ContactNumber)
		applyStr(&u.ProfileImage, p.ProfileImage)
		if p.Age != nil {
			u.Age = *p.Age
		}
		return *u, nil
	}
	return models.User{}, ErrNotFound
}

func (s *MemUsers) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID.Hex() == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func applyStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
