package rest

import (
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_RegisterCreateDelete(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	token := body["token"].(string)
	assert.NotContains(t, user, "passwordHash")

	identity, err := api.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user["id"], identity.ID.String())

	task := api.createTask(t, token, gin.H{"title": "Write report"})
	assert.Equal(t, user["id"], task["ownerId"])
	assert.Equal(t, "todo", task["status"])
	taskPath := "/api/tasks/" + task["id"].(string)

	forged, err := auth.GenerateToken(identity, []byte("not-the-secret"), time.Hour, time.Now())
	require.NoError(t, err)
	code, body = api.do(t, http.MethodDelete, taskPath, forged, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid or expired token", body["error"])

	expired, err := auth.GenerateToken(identity, []byte(testSecret), time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	code, _ = api.do(t, http.MethodDelete, taskPath, expired, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = api.do(t, http.MethodDelete, taskPath, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"result": "deleted"}, body)

	code, _ = api.do(t, http.MethodGet, taskPath, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	annID, annToken := api.register(t, "ann")

	code, body := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Impostor", "email": "ANN@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already registered", body["error"])

	code, _ = api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com", "password": "pw-ann"})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["token"])

	code, body = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", body["error"])

	code, _ = api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@x.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(t, http.MethodGet, "/api/auth/me", annToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, annID, body["user"].(map[string]any)["id"])

	code, _ = api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestTaskPermissionsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, annToken := api.register(t, "ann")
	bobID, bobToken := api.register(t, "bob")
	_, eveToken := api.register(t, "eve")

	task := api.createTask(t, annToken, gin.H{
		"title": "Write report", "priority": "high", "category": "docs", "assigneeId": bobID, "assignee": "Bob",
	})
	path := "/api/tasks/" + task["id"].(string)

	code, body := api.do(t, http.MethodPatch, path, bobToken, gin.H{"status": "done"})
	require.Equal(t, http.StatusOK, code, body)
	updated := body["task"].(map[string]any)
	assert.Equal(t, "done", updated["status"])
	for _, field := range []string{"title", "priority", "category", "assignee", "assigneeId", "ownerId", "createdAt"} {
		assert.Equal(t, task[field], updated[field], field)
	}

	code, _ = api.do(t, http.MethodGet, path, eveToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodPut, path, eveToken, gin.H{"title": "mine"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body["error"])

	code, body = api.do(t, http.MethodPatch, path, annToken, gin.H{"title": 42})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "title must be a string", body["error"])

	code, _ = api.do(t, http.MethodPatch, path, annToken, gin.H{"priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(t, http.MethodPatch, path, annToken, gin.H{"assigneeId": nil})
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["task"].(map[string]any)["assigneeId"])

	code, _ = api.do(t, http.MethodGet, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodGet, "/api/tasks/not-a-uuid", annToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(t, http.MethodGet, "/api/tasks/"+models.NewID().String(), annToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTaskCreateValidationOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.register(t, "ann")

	for _, body := range []gin.H{
		{"title": ""},
		{"title": "t", "priority": "urgent"},
		{"title": "t", "dueDate": "01.02.2026"},
		{"title": "t", "assigneeId": models.NewID().String()},
		{"title": "t", "projectId": models.NewID().String()},
		{"title": "t", "assigneeId": "nope"},
	} {
		code, _ := api.do(t, http.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, code, "%v", body)
	}
}

func TestListTasksOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	annID, annToken := api.register(t, "ann")
	_, bobToken := api.register(t, "bob")

	code, body := api.do(t, http.MethodPost, "/api/projects", annToken, gin.H{"name": "P"})
	require.Equal(t, http.StatusCreated, code)
	projectID := body["project"].(map[string]any)["id"].(string)

	api.createTask(t, annToken, gin.H{"title": "in project", "projectId": projectID})
	api.createTask(t, annToken, gin.H{"title": "loose"})
	api.createTask(t, bobToken, gin.H{"title": "for ann", "assigneeId": annID})
	api.createTask(t, bobToken, gin.H{"title": "bob only"})

	code, body = api.do(t, http.MethodGet, "/api/tasks", annToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["tasks"], 3)

	code, body = api.do(t, http.MethodGet, "/api/tasks?projectId="+projectID, annToken, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["tasks"], 1)
	assert.Equal(t, "in project", body["tasks"].([]any)[0].(map[string]any)["title"])

	code, _ = api.do(t, http.MethodGet, "/api/tasks?projectId=bad", annToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProjectsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	annID, annToken := api.register(t, "ann")
	bobID, bobToken := api.register(t, "bob")

	code, body := api.do(t, http.MethodPost, "/api/projects", annToken, gin.H{"name": "Launch", "description": "q3"})
	require.Equal(t, http.StatusCreated, code)
	project := body["project"].(map[string]any)
	path := "/api/projects/" + project["id"].(string)
	assert.Equal(t, annID, project["owner"])
	assert.Equal(t, []any{annID}, project["members"])

	code, _ = api.do(t, http.MethodGet, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodPost, path+"/members", bobToken, gin.H{"userId": bobID})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(t, http.MethodPost, path+"/members", annToken, gin.H{"userId": bobID})
	require.Equal(t, http.StatusOK, code)
	assert.ElementsMatch(t, []any{annID, bobID}, body["project"].(map[string]any)["members"])

	code, body = api.do(t, http.MethodPatch, path, bobToken, gin.H{"description": "edited"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Launch", body["project"].(map[string]any)["name"])
	assert.Equal(t, "edited", body["project"].(map[string]any)["description"])

	code, body = api.do(t, http.MethodGet, "/api/projects", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["projects"], 1)

	task := api.createTask(t, bobToken, gin.H{"title": "t", "projectId": project["id"]})

	code, body = api.do(t, http.MethodDelete, path+"/members/"+annID, annToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "owner cannot be removed", body["error"])

	code, _ = api.do(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(t, http.MethodDelete, path, annToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "deleted", body["result"])

	code, _ = api.do(t, http.MethodGet, "/api/tasks/"+task["id"].(string), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(t, http.MethodGet, path, annToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAttachmentsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	_, annToken := api.register(t, "ann")
	_, eveToken := api.register(t, "eve")

	task := api.createTask(t, annToken, gin.H{"title": "t"})
	path := "/api/tasks/" + task["id"].(string) + "/attachments"

	code, body := api.do(t, http.MethodPost, path, annToken, gin.H{"fileName": "notes.txt"})
	require.Equal(t, http.StatusCreated, code, body)
	attachment := body["attachment"].(map[string]any)
	assert.Equal(t, "notes.txt", attachment["fileName"])
	assert.Contains(t, body["uploadUrl"], "https://s3.local/put/tasks/")
	assert.NotContains(t, attachment, "storageKey")

	code, body = api.do(t, http.MethodGet, path, annToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["attachments"], 1)

	code, body = api.do(t, http.MethodGet, path+"/"+attachment["id"].(string), annToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["downloadUrl"], "https://s3.local/get/tasks/")

	code, _ = api.do(t, http.MethodGet, path, eveToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(t, http.MethodGet, path+"/junk", annToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	api.pinger.err = errPing
	code, body = api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
}
