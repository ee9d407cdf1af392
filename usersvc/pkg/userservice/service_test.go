package userservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpad/backend/authsvc/pkg/authservice"
	"github.com/taskpad/backend/tasksvc"
	taskgorm "github.com/taskpad/backend/tasksvc/db/gorm"
	"github.com/taskpad/backend/usersvc"
	usergorm "github.com/taskpad/backend/usersvc/db/gorm"
	"gorm.io/driver/sqlite"
	libgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strptr(s string) *string { return &s }

func newTestService(t *testing.T) (Service, usersvc.UserRepository, tasksvc.TaskRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := libgorm.Open(sqlite.Open(dsn), &libgorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{}))

	users := usergorm.NewUserRepository(db)
	tasks := taskgorm.NewTaskRepository(db)

	return NewBasicService(users, tasks, authservice.NewHasher()), users, tasks
}

func newStoredUser(t *testing.T, users usersvc.UserRepository, username, email string) usersvc.User {
	t.Helper()

	user := usersvc.User{Username: username, Email: email, Password: "hash"}
	require.NoError(t, users.Create(&user))

	return user
}

func TestUsers(t *testing.T) {
	svc, users, _ := newTestService(t)
	newStoredUser(t, users, "abc", "a@b.com")
	newStoredUser(t, users, "def", "d@e.com")

	all, err := svc.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserProfileIncludesTasks(t *testing.T) {
	svc, users, tasks := newTestService(t)
	owner := newStoredUser(t, users, "abc", "a@b.com")
	other := newStoredUser(t, users, "def", "d@e.com")

	require.NoError(t, tasks.Create(&tasksvc.Task{Title: "mine", UserID: owner.ID}))
	require.NoError(t, tasks.Create(&tasksvc.Task{Title: "theirs", UserID: other.ID}))

	profile, err := svc.User(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", profile.Username)
	require.Len(t, profile.Tasks, 1)
	assert.Equal(t, "mine", profile.Tasks[0].Title)
}

func TestUserProfileEmptyTasks(t *testing.T) {
	svc, users, _ := newTestService(t)
	owner := newStoredUser(t, users, "abc", "a@b.com")

	profile, err := svc.User(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, profile.Tasks)
	assert.Empty(t, profile.Tasks)
}

func TestUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.User(context.Background(), 99)
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc, users, _ := newTestService(t)
	owner := newStoredUser(t, users, "abc", "a@b.com")

	_, err := svc.UpdateUser(context.Background(), owner.ID, usersvc.UserUpdate{
		Password: strptr("password2"),
	})
	require.NoError(t, err)

	stored, err := users.Find(owner.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password2", stored.Password)
	assert.True(t, authservice.NewHasher().Compare("password2", stored.Password))
}

func TestUpdateUserRejectsEmptyPayload(t *testing.T) {
	svc, users, _ := newTestService(t)
	owner := newStoredUser(t, users, "abc", "a@b.com")

	_, err := svc.UpdateUser(context.Background(), owner.ID, usersvc.UserUpdate{})
	assert.EqualError(t, err, "update requires at least one field")
}

func TestDeleteUserCascadesToTasks(t *testing.T) {
	svc, users, tasks := newTestService(t)
	owner := newStoredUser(t, users, "abc", "a@b.com")
	other := newStoredUser(t, users, "def", "d@e.com")

	require.NoError(t, tasks.Create(&tasksvc.Task{Title: "mine", UserID: owner.ID}))
	require.NoError(t, tasks.Create(&tasksvc.Task{Title: "theirs", UserID: other.ID}))

	ok, err := svc.DeleteUser(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = users.Find(owner.ID)
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)

	orphaned, err := tasks.FindAllByOwner(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, orphaned)

	kept, err := tasks.FindAllByOwner(other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.DeleteUser(context.Background(), 99)
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}
