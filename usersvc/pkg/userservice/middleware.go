package userservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/taskpad/backend/usersvc"
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

func (mw loggingMiddleware) Users(ctx context.Context) (users []usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "Users", "count", len(users), "err", err)
	}()
	return mw.next.Users(ctx)
}

func (mw loggingMiddleware) User(ctx context.Context, id uint64) (p Profile, err error) {
	defer func() {
		mw.logger.Log("method", "User", "user_id", id, "err", err)
	}()
	return mw.next.User(ctx, id)
}

func (mw loggingMiddleware) UpdateUser(ctx context.Context, id uint64, u usersvc.UserUpdate) (user usersvc.User, err error) {
	defer func() {
		mw.logger.Log("method", "UpdateUser", "user_id", id, "err", err)
	}()
	return mw.next.UpdateUser(ctx, id, u)
}

func (mw loggingMiddleware) DeleteUser(ctx context.Context, id uint64) (result bool, err error) {
	defer func() {
		mw.logger.Log("method", "DeleteUser", "user_id", id, "result", result, "err", err)
	}()
	return mw.next.DeleteUser(ctx, id)
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

func (mw instrumentingMiddleware) Users(ctx context.Context) ([]usersvc.User, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "users").Add(1)
		mw.requestLatency.With("method", "users").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Users(ctx)
}

func (mw instrumentingMiddleware) User(ctx context.Context, id uint64) (Profile, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "user").Add(1)
		mw.requestLatency.With("method", "user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.User(ctx, id)
}

func (mw instrumentingMiddleware) UpdateUser(ctx context.Context, id uint64, u usersvc.UserUpdate) (usersvc.User, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "update_user").Add(1)
		mw.requestLatency.With("method", "update_user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.UpdateUser(ctx, id, u)
}

func (mw instrumentingMiddleware) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_user").Add(1)
		mw.requestLatency.With("method", "delete_user").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteUser(ctx, id)
}
