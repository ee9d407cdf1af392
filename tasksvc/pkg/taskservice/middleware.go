package taskservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/taskpad/backend/tasksvc"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) CreateTask(ctx context.Context, ownerID uint64, t tasksvc.NewTask) (task tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateTask",
			"user_id", ownerID,
			"title", t.Title,
			"task_id", task.ID,
			"err", err,
		)
	}()
	return mw.next.CreateTask(ctx, ownerID, t)
}

func (mw loggingMiddleware) Tasks(ctx context.Context, ownerID uint64) (tasks []tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log("method", "Tasks", "user_id", ownerID, "count", len(tasks), "err", err)
	}()
	return mw.next.Tasks(ctx, ownerID)
}

func (mw loggingMiddleware) TasksByUser(ctx context.Context, userID uint64) (tasks []tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log("method", "TasksByUser", "user_id", userID, "count", len(tasks), "err", err)
	}()
	return mw.next.TasksByUser(ctx, userID)
}

func (mw loggingMiddleware) Task(ctx context.Context, taskID uint64) (task tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log("method", "Task", "task_id", taskID, "err", err)
	}()
	return mw.next.Task(ctx, taskID)
}

func (mw loggingMiddleware) UpdateTask(ctx context.Context, taskID uint64, u tasksvc.TaskUpdate) (task tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log("method", "UpdateTask", "task_id", taskID, "err", err)
	}()
	return mw.next.UpdateTask(ctx, taskID, u)
}

func (mw loggingMiddleware) DeleteTask(ctx context.Context, taskID uint64) (result bool, err error) {
	defer func() {
		mw.logger.Log("method", "DeleteTask", "task_id", taskID, "result", result, "err", err)
	}()
	return mw.next.DeleteTask(ctx, taskID)
}

func (mw loggingMiddleware) CompleteTask(ctx context.Context, taskID uint64) (task tasksvc.Task, err error) {
	defer func() {
		mw.logger.Log("method", "CompleteTask", "task_id", taskID, "err", err)
	}()
	return mw.next.CompleteTask(ctx, taskID)
}

func InstrumentingMiddleware(counter metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{counter, latency, next}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           Service
}

func (mw instrumentingMiddleware) instrument(method string, begin time.Time) {
	mw.requestCount.With("method", method).Add(1)
	mw.requestLatency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (mw instrumentingMiddleware) CreateTask(ctx context.Context, ownerID uint64, t tasksvc.NewTask) (tasksvc.Task, error) {
	defer mw.instrument("create_task", time.Now())
	return mw.next.CreateTask(ctx, ownerID, t)
}

func (mw instrumentingMiddleware) Tasks(ctx context.Context, ownerID uint64) ([]tasksvc.Task, error) {
	defer mw.instrument("tasks", time.Now())
	return mw.next.Tasks(ctx, ownerID)
}

func (mw instrumentingMiddleware) TasksByUser(ctx context.Context, userID uint64) ([]tasksvc.Task, error) {
	defer mw.instrument("tasks_by_user", time.Now())
	return mw.next.TasksByUser(ctx, userID)
}

func (mw instrumentingMiddleware) Task(ctx context.Context, taskID uint64) (tasksvc.Task, error) {
	defer mw.instrument("task", time.Now())
	return mw.next.Task(ctx, taskID)
}

func (mw instrumentingMiddleware) UpdateTask(ctx context.Context, taskID uint64, u tasksvc.TaskUpdate) (tasksvc.Task, error) {
	defer mw.instrument("update_task", time.Now())
	return mw.next.UpdateTask(ctx, taskID, u)
}

func (mw instrumentingMiddleware) DeleteTask(ctx context.Context, taskID uint64) (bool, error) {
	defer mw.instrument("delete_task", time.Now())
	return mw.next.DeleteTask(ctx, taskID)
}

func (mw instrumentingMiddleware) CompleteTask(ctx context.Context, taskID uint64) (tasksvc.Task, error) {
	defer mw.instrument("complete_task", time.Now())
	return mw.next.CompleteTask(ctx, taskID)
}
