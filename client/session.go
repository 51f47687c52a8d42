package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nelnel19/BAHA-ALERT/analysis"
	"github.com/nelnel19/BAHA-ALERT/models"
)

// State is where a report-creation session currently stands.
type State int

const (
	StateIdle State = iota
	StateImageSelected
	StateAnalyzing
	StateAnalysisFailed
	StateAnalyzed
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateImageSelected:
		return "ImageSelected"
	case StateAnalyzing:
		return "Analyzing"
	case StateAnalysisFailed:
		return "AnalysisFailed"
	case StateAnalyzed:
		return "Analyzed"
	case StateSubmitting:
		return "Submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrNoImage          = errors.New("no image selected")
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	ErrNotAnalyzed      = errors.New("image has not been analyzed")
	ErrAnalysisNotRetry = errors.New("analysis has not failed")
	ErrBusy             = errors.New("session is busy")
	ErrMissingIdentity  = errors.New("no cached identity to query with")
)

// MissingFieldsError names the empty required fields that blocked submission.
// It is raised client-side; no request is sent.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

// Session drives one report from image pick to submission. Methods are safe
// for concurrent use; only one analysis or submission runs at a time.
type Session struct {
	api     *Client
	profile *ProfileCache

	mu        sync.Mutex
	state     State
	imageName string
	image     []byte
	draft     Draft
	result    *analysis.Result
}

func NewSession(api *Client, profile *ProfileCache) *Session {
	return &Session{api: api, profile: profile, state: StateIdle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AnalysisResult returns the classification carried by the session, or nil
// before a successful analysis.
func (s *Session) AnalysisResult() *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// SelectImage stages a new image. Picking a new image discards any previous
// classification; the user must analyze again before submitting.
func (s *Session) SelectImage(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnalyzing || s.state == StateSubmitting {
		return ErrBusy
	}
	s.imageName = name
	s.image = append([]byte(nil), data...)
	s.result = nil
	s.state = StateImageSelected
	return nil
}

// SetDetails records the user-entered report fields. The danger level always
// comes from the analysis result, not from here.
func (s *Session) SetDetails(reporterName, contactNumber, location, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnalyzing || s.state == StateSubmitting {
		return ErrBusy
	}
	s.draft.ReporterName = reporterName
	s.draft.ContactNumber = contactNumber
	s.draft.Location = location
	s.draft.Description = description
	return nil
}

// Analyze classifies the selected image. Only one analysis may be in flight;
// a second call while Analyzing fails immediately.
func (s *Session) Analyze(ctx context.Context) (analysis.Result, error) {
	s.mu.Lock()
	switch s.state {
	case StateAnalyzing:
		s.mu.Unlock()
		return analysis.Result{}, ErrAnalysisInFlight
	case StateSubmitting:
		s.mu.Unlock()
		return analysis.Result{}, ErrBusy
	case StateImageSelected:
	default:
		s.mu.Unlock()
		return analysis.Result{}, ErrNoImage
	}
	s.state = StateAnalyzing
	name, img := s.imageName, s.image
	s.mu.Unlock()

	result, err := s.api.Analyze(ctx, name, bytes.NewReader(img))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateAnalysisFailed
		return analysis.Result{}, err
	}
	s.result = &result
	s.state = StateAnalyzed
	return result, nil
}

// Retry acknowledges a failed analysis, returning to ImageSelected so the
// user can trigger it again with the same image.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalysisFailed {
		return ErrAnalysisNotRetry
	}
	s.state = StateImageSelected
	return nil
}

// Submit sends the report. It refuses, without touching the network, unless
// the image has been analyzed and every required field is filled in. On
// success the session resets to Idle with all fields cleared, and the contact
// number is written into the profile cache if the cache had none.
func (s *Session) Submit(ctx context.Context) (models.FloodReport, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return models.FloodReport{}, ErrBusy
	case StateAnalyzing:
		s.mu.Unlock()
		return models.FloodReport{}, ErrAnalysisInFlight
	case StateAnalyzed:
	default:
		s.mu.Unlock()
		return models.FloodReport{}, ErrNotAnalyzed
	}
	if missing := missingFields(s.draft); len(missing) > 0 {
		s.mu.Unlock()
		return models.FloodReport{}, &MissingFieldsError{Fields: missing}
	}

	draft := s.draft
	draft.DangerLevel = s.result.DangerLevel
	name, img := s.imageName, s.image
	s.state = StateSubmitting
	s.mu.Unlock()

	report, err := s.api.SubmitReport(ctx, draft, name, bytes.NewReader(img))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Back to Analyzed so the user can retry the same submission.
		s.state = StateAnalyzed
		return models.FloodReport{}, err
	}

	if s.profile != nil {
		// Best effort; a cache write failure never fails the submission.
		_, _ = s.profile.EnrichContact(draft.ContactNumber)
	}
	s.reset()
	return report, nil
}

// Reset abandons the session and clears everything.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnalyzing || s.state == StateSubmitting {
		return
	}
	s.reset()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.imageName = ""
	s.image = nil
	s.draft = Draft{}
	s.result = nil
}

// MyReports loads the reports matching the cached identity. Image URLs come
// back absolute, ready to render.
func (s *Session) MyReports(ctx context.Context) ([]models.FloodReport, error) {
	prof, err := s.profile.Load()
	if err != nil {
		return nil, err
	}
	if prof.Name == "" && prof.ContactNumber == "" {
		return nil, ErrMissingIdentity
	}
	return s.api.MyReports(ctx, prof.Name, prof.ContactNumber)
}

func missingFields(d Draft) []string {
	var missing []string
	if d.ReporterName == "" {
		missing = append(missing, "reporterName")
	}
	if d.ContactNumber == "" {
		missing = append(missing, "contactNumber")
	}
	if d.Location == "" {
		missing = append(missing, "location")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	return missing
}
