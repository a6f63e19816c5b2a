package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/course-registration/config"
	"github.com/alem-hub/course-registration/internal/application/command"
	"github.com/alem-hub/course-registration/internal/application/query"
	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/internal/infrastructure/metrics"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/course-registration/internal/infrastructure/tracing"
	httpapi "github.com/alem-hub/course-registration/internal/interface/http"
	"github.com/alem-hub/course-registration/internal/interface/http/handlers"
	"github.com/alem-hub/course-registration/pkg/circuitbreaker"
	"github.com/alem-hub/course-registration/pkg/retry"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORAGE
// ══════════════════════════════════════════════════════════════════════════════

// storage is the selected backend: PostgreSQL when a database URL is
// configured, the in-memory store otherwise.
type storage struct {
	factory       registration.UnitOfWorkFactory
	students      student.Repository
	courses       course.Repository
	registrations registration.Repository
	pinger        handlers.Pinger

	// pg is nil for the in-memory store.
	pg *postgres.Connection
}

func (s *storage) close() {
	if s.pg != nil {
		log.Info("closing database connection...")
		s.pg.Close()
	}
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig) (*storage, error) {
	if cfg.UsesMemory() {
		log.Warn("database.url is empty, using the in-memory store; data is lost on exit")
		store := memory.NewStore()
		return &storage{
			factory:       store,
			students:      store.Students(),
			courses:       store.Courses(),
			registrations: store.Registrations(),
			pinger:        store,
		}, nil
	}

	conn, err := connectPostgres(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &storage{
		factory:       postgres.NewUnitOfWorkFactory(conn),
		students:      postgres.NewStudentRepository(conn),
		courses:       postgres.NewCourseRepository(conn),
		registrations: postgres.NewRegistrationRepository(conn),
		pinger:        conn,
		pg:            conn,
	}, nil
}

// connectPostgres waits for the database, which may still be starting next
// to the service.
func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*postgres.Connection, error) {
	log.Info("connecting to database...")

	opts := postgres.DefaultPoolOptions()
	opts.MaxConns = cfg.MaxConns
	opts.MinConns = cfg.MinConns
	opts.MaxConnLifetime = cfg.MaxConnLifetime
	opts.MaxConnIdleTime = cfg.MaxConnIdleTime

	conn, err := retry.DoWithData(ctx,
		func(ctx context.Context) (*postgres.Connection, error) {
			return postgres.NewConnectionFromURL(ctx, cfg.URL, opts)
		},
		retry.WithMaxAttempts(cfg.ConnectAttempts),
		retry.WithInitialDelay(500*time.Millisecond),
		retry.WithMaxDelay(5*time.Second),
		retry.WithJitter(0.2),
		retry.WithOnRetry(logRetry("database")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connection established")
	return conn, nil
}

func logRetry(target string) func(attempt int, err error, delay time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed, retrying",
			"target", target,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

// application holds every wired component of the serve command.
type application struct {
	cfg     *config.Config
	store   *storage
	cache   course.Cache
	redis   *redis.Cache
	metrics *metrics.Metrics
	tracing *tracing.Provider
	health  *handlers.CompositeHealthChecker
}

func newApplication(ctx context.Context, cfg *config.Config) (_ *application, err error) {
	app := &application{cfg: cfg}
	defer func() {
		if err != nil {
			app.close(context.Background())
		}
	}()

	app.store, err = openStorage(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := app.setupCache(ctx); err != nil {
		return nil, err
	}

	if cfg.Observability.MetricsEnabled {
		app.metrics = metrics.New(nil)
	}

	app.tracing, err = tracing.NewProvider(ctx, tracing.Config{
		Enabled:      cfg.Observability.Tracing.Enabled,
		Exporter:     cfg.Observability.Tracing.Exporter,
		OTLPEndpoint: cfg.Observability.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Observability.Tracing.SampleRate,
		ServiceName:  cfg.App.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	app.health = handlers.NewCompositeHealthChecker(cfg.App.Version)
	app.health.SetTimeout(cfg.HTTP.HealthCheckTimeout)
	app.health.AddCheck("database", handlers.NewDatabaseCheck(app.store.pinger))
	if pinger, ok := app.cache.(handlers.Pinger); ok {
		app.health.AddCheck("cache", handlers.NewCacheCheck(pinger))
	}

	return app, nil
}

func (a *application) setupCache(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		a.cache = memory.NewCourseCache(a.cfg.Cache.CourseTTL, a.cfg.Cache.CleanupInterval)
		log.Info("using in-process course cache", "ttl", a.cfg.Cache.CourseTTL.String())
		return nil
	}

	rc := a.cfg.Redis
	redisCfg := redis.Config{
		URL:          rc.URL,
		Host:         rc.Host,
		Port:         rc.Port,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	}

	log.Info("connecting to redis...")
	var cache *redis.Cache
	err := retry.StartupRetrier(logRetry("redis")).Do(ctx, func(ctx context.Context) error {
		var err error
		cache, err = redis.NewCache(ctx, redisCfg)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.redis = cache
	breaker := circuitbreaker.New("redis",
		circuitbreaker.WithFailureThreshold(3),
		circuitbreaker.WithCoolDown(15*time.Second),
		circuitbreaker.WithIsFailure(redis.IsBreakerFailure),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}),
	)
	a.cache = redis.NewCourseCache(cache, log).WithBreaker(breaker)
	log.Info("redis connection established")
	return nil
}

// server wires the command and query handlers into the HTTP API.
func (a *application) server() *httpapi.Server {
	clock := timeutil.SystemClock{}
	inst := command.Instrumentation{
		Logger:  log,
		Tracer:  a.tracing.Tracer(),
		Metrics: a.metrics,
	}

	hc := a.cfg.HTTP
	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = hc.Host
	httpCfg.Port = hc.Port
	httpCfg.ReadTimeout = hc.ReadTimeout
	httpCfg.WriteTimeout = hc.WriteTimeout
	httpCfg.IdleTimeout = hc.IdleTimeout
	httpCfg.EnableCORS = hc.EnableCORS
	httpCfg.AllowedOrigins = hc.AllowedOrigins
	httpCfg.EnableMetrics = a.metrics != nil
	httpCfg.RateLimitPerMinute = hc.RateLimitPerMinute
	httpCfg.TrustProxyHeaders = hc.TrustProxyHeaders

	return httpapi.NewServer(httpCfg, httpapi.Dependencies{
		RegisterCourse:     command.NewRegisterCourseHandler(a.store.factory, clock, inst),
		UnregisterCourse:   command.NewUnregisterCourseHandler(a.store.factory, clock, inst),
		CreateStudent:      command.NewCreateStudentHandler(a.store.students, clock, log),
		CourseAdmin:        command.NewCourseAdmin(a.store.courses, a.cache, log),
		GetUpcomingCourses: query.NewGetUpcomingCoursesHandler(a.store.students, a.store.registrations, clock),
		GetCourse:          query.NewGetCourseHandler(a.store.courses, a.cache, a.cfg.Cache.CourseTTL, log),
		ListCourses:        query.NewListCoursesHandler(a.store.courses),
		Logger:             log,
		Metrics:            a.metrics,
		HealthChecker:      a.health,
		Version:            a.cfg.App.Version,
	})
}

func (a *application) close(ctx context.Context) {
	if a.tracing != nil {
		if err := a.tracing.Shutdown(ctx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}
	if a.redis != nil {
		log.Info("closing redis connection...")
		if err := a.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if a.store != nil {
		a.store.close()
	}
}
