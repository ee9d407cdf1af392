package taskservice

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpad/backend/tasksvc"
	taskgorm "github.com/taskpad/backend/tasksvc/db/gorm"
	"github.com/taskpad/backend/usersvc"
	usergorm "github.com/taskpad/backend/usersvc/db/gorm"
	"gorm.io/driver/sqlite"
	libgorm "gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strptr(s string) *string { return &s }

func newTestService(t *testing.T) (Service, usersvc.UserRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := libgorm.Open(sqlite.Open(dsn), &libgorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{}))

	users := usergorm.NewUserRepository(db)

	return NewBasicService(taskgorm.NewTaskRepository(db), users), users
}

func TestCreateTask(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{Title: "buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, "buy milk", task.Title)
	assert.EqualValues(t, 1, task.UserID)
	assert.False(t, task.IsComplete)
}

func TestCreateTaskHonorsIsComplete(t *testing.T) {
	svc, _ := newTestService(t)
	done := true

	task, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{
		Title:      "buy milk",
		IsComplete: &done,
	})
	require.NoError(t, err)
	assert.True(t, task.IsComplete)
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{})
	assert.EqualError(t, err, "title is required")
}

func TestTasksScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{Title: "mine"})
	require.NoError(t, err)
	_, err = svc.CreateTask(context.Background(), 2, tasksvc.NewTask{Title: "theirs"})
	require.NoError(t, err)

	tasks, err := svc.Tasks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
}

func TestTasksByUser(t *testing.T) {
	svc, users := newTestService(t)

	owner := usersvc.User{Username: "abc", Email: "a@b.com", Password: "hash"}
	require.NoError(t, users.Create(&owner))

	_, err := svc.CreateTask(context.Background(), owner.ID, tasksvc.NewTask{Title: "mine"})
	require.NoError(t, err)

	tasks, err := svc.TasksByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTasksByUserUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.TasksByUser(context.Background(), 99)
	assert.ErrorIs(t, err, usersvc.ErrUserNotFound)
}

func TestUpdateTask(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{Title: "buy milk"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(context.Background(), created.ID, tasksvc.TaskUpdate{
		Category: strptr("errands"),
	})
	require.NoError(t, err)
	assert.Equal(t, "errands", updated.Category)
	assert.Equal(t, "buy milk", updated.Title)
}

func TestUpdateTaskRejectsEmptyPayload(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{Title: "buy milk"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(context.Background(), created.ID, tasksvc.TaskUpdate{})
	assert.EqualError(t, err, "update requires at least one field")
}

func TestDeleteTask(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{Title: "buy milk"})
	require.NoError(t, err)

	ok, err := svc.DeleteTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Task(context.Background(), created.ID)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}

func TestCompleteTask(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateTask(context.Background(), 1, tasksvc.NewTask{Title: "buy milk"})
	require.NoError(t, err)

	done, err := svc.CompleteTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, done.IsComplete)

	done, err = svc.CompleteTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, done.IsComplete)

	_, err = svc.CompleteTask(context.Background(), 99)
	assert.ErrorIs(t, err, tasksvc.ErrTaskNotFound)
}
