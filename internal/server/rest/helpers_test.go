package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskflow/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubPresigner struct{}

func (stubPresigner) PresignPut(_ context.Context, key string) (string, error) {
	return "https://s3.local/put/" + key, nil
}

func (stubPresigner) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.local/get/" + key, nil
}

type testAPI struct {
	router *gin.Engine
	tokens *auth.TokenService
	pinger *stubPinger
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	repos := repomanager.NewMemoryRepositoryManager()
	tokens := auth.NewTokenService(testSecret, time.Hour)
	pinger := &stubPinger{}

	svc := Services{
		Users:       services.NewUserService(repos, tokens),
		Projects:    services.NewProjectService(repos),
		Tasks:       services.NewTaskService(repos),
		Attachments: services.NewAttachmentService(repos, stubPresigner{}),
	}
	return &testAPI{
		router: NewRouter(tokens, svc, pinger, logging.NewNop()),
		tokens: tokens,
		pinger: pinger,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

// register creates an account and returns its id and token.
func (a *testAPI) register(t *testing.T, name string) (string, string) {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": name + "@x.com", "password": "pw-" + name,
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["user"].(map[string]any)["id"].(string), body["token"].(string)
}

func (a *testAPI) createTask(t *testing.T, token string, fields gin.H) map[string]any {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/api/tasks", token, fields)
	require.Equal(t, http.StatusCreated, code, body)
	return body["task"].(map[string]any)
}

var errPing = errors.New("connection refused")
