package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelnel19/BAHA-ALERT/analysis"
	"github.com/nelnel19/BAHA-ALERT/client"
	"github.com/nelnel19/BAHA-ALERT/models"
)

// apiStub is a fake server for session tests. Handlers can be switched per
// test to fail or block.
type apiStub struct {
	srv         *httptest.Server
	analyzeFail atomic.Bool
	analyzeGate chan struct{} // when set, Analyze blocks until closed
	submits     atomic.Int64
}

func newAPIStub(t *testing.T) *apiStub {
	t.Helper()
	s := &apiStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/flood-analyze", func(w http.ResponseWriter, r *http.Request) {
		if s.analyzeGate != nil {
			<-s.analyzeGate
		}
		if s.analyzeFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Flood analysis failed"})
			return
		}
		json.NewEncoder(w).Encode(analysis.Result{
			ImageURL:      "/uploads/flood_analysis_1.png",
			DangerLevel:   models.DangerHigh,
			SeverityScore: 90,
			Description:   "Severe flooding detected. Water levels are dangerously high. Avoid crossing at all costs.",
		})
	})
	mux.HandleFunc("POST /api/flood-reports", func(w http.ResponseWriter, r *http.Request) {
		s.submits.Add(1)
		require.NoError(t, r.ParseMultipartForm(32<<20))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.ReportResp{
			Success: true,
			Report: models.FloodReport{
				ReporterName:  r.FormValue("reporterName"),
				ContactNumber: r.FormValue("contactNumber"),
				DangerLevel:   r.FormValue("dangerLevel"),
				ImageURL:      "/uploads/flood_reports_1.png",
			},
		})
	})
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func newSession(t *testing.T, stub *apiStub) (*client.Session, *client.ProfileCache) {
	t.Helper()
	c, err := client.New(stub.srv.URL)
	require.NoError(t, err)
	cache := client.NewProfileCache(filepath.Join(t.TempDir(), "profile.json"))
	return client.NewSession(c, cache), cache
}

func TestSession_HappyPath(t *testing.T) {
	stub := newAPIStub(t)
	sess, cache := newSession(t, stub)
	ctx := context.Background()

	assert.Equal(t, client.StateIdle, sess.State())

	require.NoError(t, sess.SelectImage("flood.png", []byte("imagedata")))
	assert.Equal(t, client.StateImageSelected, sess.State())

	result, err := sess.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, client.StateAnalyzed, sess.State())
	assert.Equal(t, models.DangerHigh, result.DangerLevel)

	require.NoError(t, sess.SetDetails("Maria Santos", "0917 111 2222", "Riverside St.", "Knee-deep water"))

	report, err := sess.Submit(ctx)
	require.NoError(t, err)
	// Submitted resets everything for the next report.
	assert.Equal(t, client.StateIdle, sess.State())
	assert.Nil(t, sess.AnalysisResult())
	// The analyzed level travels into the submission.
	assert.Equal(t, models.DangerHigh, report.DangerLevel)

	prof, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, "0917 111 2222", prof.ContactNumber)
}

func TestSession_AnalyzeRequiresImage(t *testing.T) {
	stub := newAPIStub(t)
	sess, _ := newSession(t, stub)

	_, err := sess.Analyze(context.Background())
	assert.ErrorIs(t, err, client.ErrNoImage)
}

func TestSession_AnalysisFailureAndRetry(t *testing.T) {
	stub := newAPIStub(t)
	sess, _ := newSession(t, stub)
	ctx := context.Background()

	require.NoError(t, sess.SelectImage("flood.png", []byte("imagedata")))

	stub.analyzeFail.Store(true)
	_, err := sess.Analyze(ctx)
	require.Error(t, err)
	assert.Equal(t, client.StateAnalysisFailed, sess.State())

	// Analysis cannot be re-triggered until the failure is acknowledged.
	_, err = sess.Analyze(ctx)
	assert.ErrorIs(t, err, client.ErrNoImage)

	require.NoError(t, sess.Retry())
	assert.Equal(t, client.StateImageSelected, sess.State())

	stub.analyzeFail.Store(false)
	_, err = sess.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, client.StateAnalyzed, sess.State())
}

func TestSession_SingleAnalysisInFlight(t *testing.T) {
	stub := newAPIStub(t)
	stub.analyzeGate = make(chan struct{})
	sess, _ := newSession(t, stub)
	ctx := context.Background()

	require.NoError(t, sess.SelectImage("flood.png", []byte("imagedata")))

	done := make(chan error, 1)
	go func() {
		_, err := sess.Analyze(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return sess.State() == client.StateAnalyzing
	}, time.Second, 5*time.Millisecond)

	_, err := sess.Analyze(ctx)
	assert.ErrorIs(t, err, client.ErrAnalysisInFlight)

	// Picking a new image mid-analysis is also refused.
	assert.ErrorIs(t, sess.SelectImage("other.png", []byte("x")), client.ErrBusy)

	close(stub.analyzeGate)
	require.NoError(t, <-done)
	assert.Equal(t, client.StateAnalyzed, sess.State())
}

func TestSession_SubmitValidation(t *testing.T) {
	stub := newAPIStub(t)
	sess, _ := newSession(t, stub)
	ctx := context.Background()

	t.Run("before analysis", func(t *testing.T) {
		require.NoError(t, sess.SelectImage("flood.png", []byte("imagedata")))
		_, err := sess.Submit(ctx)
		assert.ErrorIs(t, err, client.ErrNotAnalyzed)
	})

	t.Run("empty required fields", func(t *testing.T) {
		_, err := sess.Analyze(ctx)
		require.NoError(t, err)
		require.NoError(t, sess.SetDetails("Maria Santos", "", "Riverside St.", ""))

		_, err = sess.Submit(ctx)
		var missing *client.MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.ElementsMatch(t, []string{"contactNumber", "description"}, missing.Fields)
		// Blocked client-side: nothing reached the server.
		assert.Zero(t, stub.submits.Load())
		assert.Equal(t, client.StateAnalyzed, sess.State())
	})
}

func TestSession_NewImageDiscardsAnalysis(t *testing.T) {
	stub := newAPIStub(t)
	sess, _ := newSession(t, stub)
	ctx := context.Background()

	require.NoError(t, sess.SelectImage("first.png", []byte("one")))
	_, err := sess.Analyze(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess.AnalysisResult())

	require.NoError(t, sess.SelectImage("second.png", []byte("two")))
	assert.Equal(t, client.StateImageSelected, sess.State())
	assert.Nil(t, sess.AnalysisResult())
}

func TestSession_ProfileEnrichmentDoesNotOverwrite(t *testing.T) {
	stub := newAPIStub(t)
	sess, cache := newSession(t, stub)
	ctx := context.Background()

	require.NoError(t, cache.Save(client.Profile{Name: "Maria", ContactNumber: "09998887766"}))

	require.NoError(t, sess.SelectImage("flood.png", []byte("imagedata")))
	_, err := sess.Analyze(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.SetDetails("Maria Santos", "0917 111 2222", "Riverside St.", "Knee-deep"))
	_, err = sess.Submit(ctx)
	require.NoError(t, err)

	prof, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, "09998887766", prof.ContactNumber, "existing contact must not be overwritten")
}

func TestSession_MyReportsUsesCachedIdentity(t *testing.T) {
	stub := newAPIStub(t)
	sess, cache := newSession(t, stub)
	ctx := context.Background()

	t.Run("empty profile", func(t *testing.T) {
		_, err := sess.MyReports(ctx)
		assert.ErrorIs(t, err, client.ErrMissingIdentity)
	})

	t.Run("cached identity forwarded", func(t *testing.T) {
		require.NoError(t, cache.Save(client.Profile{Name: "Maria Santos", ContactNumber: "09171112222"}))

		// Stub lacks the route, so the call reaching the server at all
		// proves the identity made it out of the cache.
		_, err := sess.MyReports(ctx)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})
}
