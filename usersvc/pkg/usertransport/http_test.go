package usertransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/authsvc/pkg/authservice"
	"github.com/taskpad/backend/tasksvc"
	taskgorm "github.com/taskpad/backend/tasksvc/db/gorm"
	"github.com/taskpad/backend/usersvc"
	usergorm "github.com/taskpad/backend/usersvc/db/gorm"
	"github.com/taskpad/backend/usersvc/pkg/userendpoint"
	"github.com/taskpad/backend/usersvc/pkg/userservice"
	"gorm.io/driver/sqlite"
	libgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	server *httptest.Server
	users  usersvc.UserRepository
	tasks  tasksvc.TaskRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := libgorm.Open(sqlite.Open(dsn), &libgorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{}))

	users := usergorm.NewUserRepository(db)
	tasks := taskgorm.NewTaskRepository(db)

	svc := userservice.NewBasicService(users, tasks, authservice.NewHasher())
	endpoints := userendpoint.New(svc, log.NewNopLogger())

	server := httptest.NewServer(NewHTTPHandler(endpoints, log.NewNopLogger()))
	t.Cleanup(server.Close)

	return testEnv{server: server, users: users, tasks: tasks}
}

func (e testEnv) storeUser(t *testing.T, username, email string) usersvc.User {
	t.Helper()

	user := usersvc.User{Username: username, Email: email, Password: "hash"}
	require.NoError(t, e.users.Create(&user))

	return user
}

func tokenFor(t *testing.T, user usersvc.User) string {
	t.Helper()

	token, err := authservice.NewTokenizer([]byte(authsvc.AccessSecret), time.Hour).Issue(user.ID, user.Email)
	require.NoError(t, err)

	return token
}

func (e testEnv) do(t *testing.T, method, path, token string, payload interface{}) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(authsvc.TokenHeader, token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func TestUsersHTTPRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, "GET", "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUsersHTTPRejectsForgedToken(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")

	forged, err := authservice.NewTokenizer([]byte("wrong-secret"), time.Hour).Issue(owner.ID, owner.Email)
	require.NoError(t, err)

	code, _ := env.do(t, "GET", "/users", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUsersHTTPListsAll(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")
	env.storeUser(t, "def", "d@e.com")

	code, data := env.do(t, "GET", "/users", tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, code)

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, users[0], "password")
}

func TestUserHTTPProfile(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")
	require.NoError(t, env.tasks.Create(&tasksvc.Task{Title: "mine", UserID: owner.ID}))

	code, data := env.do(t, "GET", fmt.Sprintf("/users/%d", owner.ID), tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, code)

	var body struct {
		User struct {
			Username string `json:"username"`
			Tasks    []struct {
				Title string `json:"title"`
			} `json:"tasks"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "abc", body.User.Username)
	require.Len(t, body.User.Tasks, 1)
	assert.Equal(t, "mine", body.User.Tasks[0].Title)
}

func TestUserHTTPOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")
	other := env.storeUser(t, "def", "d@e.com")

	// A valid token for someone else is not enough.
	code, data := env.do(t, "GET", fmt.Sprintf("/users/%d", other.ID), tokenFor(t, owner), nil)
	assert.Equal(t, http.StatusForbidden, code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "access denied, only the owner has access", body["message"])
}

func TestUpdateUserHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")

	code, data := env.do(t, "PUT", fmt.Sprintf("/users/%d", owner.ID), tokenFor(t, owner),
		map[string]string{"username": "xyz"})
	require.Equal(t, http.StatusOK, code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "xyz", body["username"])
	assert.Equal(t, "a@b.com", body["email"])
}

func TestUpdateUserHTTPEmptyPayload(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")

	code, data := env.do(t, "PUT", fmt.Sprintf("/users/%d", owner.ID), tokenFor(t, owner),
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "update requires at least one field", body["message"])
}

func TestUpdateUserHTTPOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")
	other := env.storeUser(t, "def", "d@e.com")

	code, _ := env.do(t, "PUT", fmt.Sprintf("/users/%d", other.ID), tokenFor(t, owner),
		map[string]string{"username": "xyz"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestDeleteUserHTTP(t *testing.T) {
	env := newTestEnv(t)
	owner := env.storeUser(t, "abc", "a@b.com")
	require.NoError(t, env.tasks.Create(&tasksvc.Task{Title: "mine", UserID: owner.ID}))
	token := tokenFor(t, owner)

	code, data := env.do(t, "DELETE", fmt.Sprintf("/users/%d", owner.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "User deleted successfully", body["message"])

	// The user and the user's tasks are gone.
	code, _ = env.do(t, "GET", fmt.Sprintf("/users/%d", owner.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	orphaned, err := env.tasks.FindAllByOwner(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, orphaned)
}
