package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-kit/kit/log"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/gorilla/mux"
	"github.com/oklog/oklog/pkg/group"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/taskpad/backend/authsvc"
	"github.com/taskpad/backend/authsvc/pkg/authendpoint"
	"github.com/taskpad/backend/authsvc/pkg/authservice"
	"github.com/taskpad/backend/authsvc/pkg/authtransport"
	"github.com/taskpad/backend/tasksvc"
	taskdb "github.com/taskpad/backend/tasksvc/db/gorm"
	"github.com/taskpad/backend/tasksvc/pkg/taskendpoint"
	"github.com/taskpad/backend/tasksvc/pkg/taskservice"
	"github.com/taskpad/backend/tasksvc/pkg/tasktransport"
	"github.com/taskpad/backend/usersvc"
	userdb "github.com/taskpad/backend/usersvc/db/gorm"
	"github.com/taskpad/backend/usersvc/pkg/userendpoint"
	"github.com/taskpad/backend/usersvc/pkg/userservice"
	"github.com/taskpad/backend/usersvc/pkg/usertransport"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	libgorm "gorm.io/gorm"
)

func main() {
	fs := flag.NewFlagSet("taskpad", flag.ExitOnError)
	var (
		httpAddr = fs.String(
			"http.addr",
			getEnv("HTTP_ADDR", ":8000"),
			"HTTP listen address",
		)
		databaseURL = fs.String(
			"database.url",
			getEnv("DATABASE_URL", ""),
			"Database URL",
		)
		apiPrefix = fs.String(
			"api.prefix",
			getEnv("API_PREFIX", ""),
			"Path prefix all routes are mounted under",
		)
		tokenExpiry = fs.Duration(
			"token.expiry",
			getEnvAsDuration("TOKEN_EXPIRY", authservice.DefaultTokenExpiry()),
			"Validity duration of issued tokens",
		)
	)

	fs.Usage = usageFor(fs, os.Args[0]+" [flags]")
	fs.Parse(os.Args[1:])

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
	}

	var db *libgorm.DB
	var err error
	{
		if *databaseURL != "" {
			db, err = libgorm.Open(postgres.Open(*databaseURL), &libgorm.Config{})
		} else {
			db, err = libgorm.Open(sqlite.Open("gorm.db"), &libgorm.Config{})
		}
		if err != nil {
			logger.Log("err", err)
			os.Exit(1)
		}
	}

	db.AutoMigrate(&usersvc.User{}, &tasksvc.Task{})

	var (
		userRepository = userdb.NewUserRepository(db)
		taskRepository = taskdb.NewTaskRepository(db)
		hasher         = authservice.NewHasher()
		tokenizer      = authservice.NewTokenizer([]byte(authsvc.AccessSecret), *tokenExpiry)
	)

	var authService authservice.Service
	{
		authService = authservice.New(userRepository, hasher, tokenizer, logger)
		authService = authservice.InstrumentingMiddleware(
			requestCount("authsvc"), requestLatency("authsvc"),
		)(authService)
	}

	var userService userservice.Service
	{
		userService = userservice.New(userRepository, taskRepository, hasher, logger)
		userService = userservice.InstrumentingMiddleware(
			requestCount("usersvc"), requestLatency("usersvc"),
		)(userService)
	}

	var taskService taskservice.Service
	{
		taskService = taskservice.New(taskRepository, userRepository, logger)
		taskService = taskservice.InstrumentingMiddleware(
			requestCount("tasksvc"), requestLatency("tasksvc"),
		)(taskService)
	}

	var (
		authEndpoints = authendpoint.New(authService, logger)
		userEndpoints = userendpoint.New(userService, logger)
		taskEndpoints = taskendpoint.New(taskService, logger)
	)

	r := mux.NewRouter()
	r.Path("/metrics").Handler(promhttp.Handler())
	r.PathPrefix("/auth").Handler(authtransport.NewHTTPHandler(authEndpoints, logger))
	r.PathPrefix("/users").Handler(usertransport.NewHTTPHandler(userEndpoints, logger))
	r.PathPrefix("/tasks").Handler(tasktransport.NewHTTPHandler(taskEndpoints, logger))

	var handler http.Handler = r
	if prefix := strings.TrimSuffix(*apiPrefix, "/"); prefix != "" {
		handler = http.StripPrefix(prefix, r)
	}

	var g group.Group
	{
		httpListener, err := net.Listen("tcp", *httpAddr)
		if err != nil {
			logger.Log("transport", "HTTP", "during", "Listen", "err", err)
			os.Exit(1)
		}
		g.Add(func() error {
			logger.Log("transport", "HTTP", "addr", *httpAddr)
			return http.Serve(httpListener, handler)
		}, func(error) {
			httpListener.Close()
		})
	}
	{
		// This function just sits and waits for ctrl-C.
		cancelInterrupt := make(chan struct{})
		g.Add(func() error {
			c := make(chan os.Signal, 1)
			signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-c:
				return fmt.Errorf("received signal %s", sig)
			case <-cancelInterrupt:
				return nil
			}
		}, func(error) {
			close(cancelInterrupt)
		})
	}
	logger.Log("exit", g.Run())
}

func requestCount(subsystem string) *kitprometheus.Counter {
	return kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: "taskpad",
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, []string{"method"})
}

func requestLatency(subsystem string) *kitprometheus.Summary {
	return kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace: "taskpad",
		Subsystem: subsystem,
		Name:      "request_latency_seconds",
		Help:      "Total duration of requests in seconds.",
	}, []string{"method"})
}

func usageFor(fs *flag.FlagSet, short string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "USAGE\n")
		fmt.Fprintf(os.Stderr, "  %s\n", short)
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "FLAGS\n")
		w := tabwriter.NewWriter(os.Stderr, 0, 2, 2, ' ', 0)
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(w, "\t-%s %s\t%s\n", f.Name, f.DefValue, f.Usage)
		})
		w.Flush()
		fmt.Fprintf(os.Stderr, "\n")
	}
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	if v, err := time.ParseDuration(value); err == nil {
		return v
	}
	return fallback
}
