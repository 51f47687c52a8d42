package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/nelnel19/BAHA-ALERT/controllers"
	"github.com/nelnel19/BAHA-ALERT/observability"
	"github.com/nelnel19/BAHA-ALERT/routes"
	"github.com/nelnel19/BAHA-ALERT/storage"
	"github.com/nelnel19/BAHA-ALERT/store"
)

type testEnv struct {
	app       *fiber.App
	reports   *store.MemReports
	schedules *store.MemSchedules
	users     *store.MemUsers
	uploadDir string
	ai        *fakeAI
}

type fakeAI struct {
	reply string
	err   error
	asked []string
}

func (f *fakeAI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	for _, m := range req.Messages {
		if m.Role == openai.ChatMessageRoleUser {
			f.asked = append(f.asked, m.Content)
		}
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

type failingStorage struct{}

func (failingStorage) Save(context.Context, string, *multipart.FileHeader) (storage.Upload, error) {
	return storage.Upload{}, errors.New("object storage unavailable")
}

func (failingStorage) Destroy(context.Context, string) error {
	return errors.New("object storage unavailable")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		reports:   store.NewMemReports(),
		schedules: store.NewMemSchedules(),
		users:     store.NewMemUsers(),
		uploadDir: t.TempDir(),
		ai:        &fakeAI{reply: "Stay safe."},
	}
	h := controllers.New(controllers.Handlers{
		Reports:   env.reports,
		Schedules: env.schedules,
		Users:     env.users,
		Storage:   storage.NewDisk(env.uploadDir),
		Metrics:   observability.NewMetricsForTesting(),
		JWTSecret: "test-secret",
		AI:        env.ai,
		AIModel:   "test-model",
	})
	env.app = fiber.New()
	routes.Register(env.app, h)
	return env
}

// withStorage rebuilds the app around a different storage backend.
func (env *testEnv) withStorage(s storage.Storage) {
	h := controllers.New(controllers.Handlers{
		Reports:   env.reports,
		Schedules: env.schedules,
		Users:     env.users,
		Storage:   s,
		Metrics:   observability.NewMetricsForTesting(),
		JWTSecret: "test-secret",
		AI:        env.ai,
		AIModel:   "test-model",
	})
	env.app = fiber.New()
	routes.Register(env.app, h)
}

func (env *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, file []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// pngBytes renders a uniform image with the given green/blue intensities.
func pngBytes(t *testing.T, g, b uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{G: g, B: b, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
