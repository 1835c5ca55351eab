package switchboard

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"

	httpAdapter "github.com/aretw0/switchboard/internal/adapters/http"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/flows/registration"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/internal/runtime"
	memoryAdapter "github.com/aretw0/switchboard/pkg/adapters/memory"
	promAdapter "github.com/aretw0/switchboard/pkg/adapters/prom"
	redisAdapter "github.com/aretw0/switchboard/pkg/adapters/redis"
	"github.com/aretw0/switchboard/pkg/directory"
	"github.com/aretw0/switchboard/pkg/metrics"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/session"
)

// App is the fully wired engine: state machine, registration flow,
// adapters and the gateway-facing HTTP handler.
type App struct {
	Machine *runtime.Machine
	Handler http.Handler

	logger  *slog.Logger
	dir     ports.Directory
	notif   ports.Notifier
	store   ports.ProfileStore
	counter ports.CounterStore
	sink    ports.MetricsSink
	closers []io.Closer
}

// Option overrides a collaborator, mainly for tests and embedding hosts.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithDirectory injects a directory implementation.
func WithDirectory(dir ports.Directory) Option {
	return func(a *App) {
		a.dir = dir
	}
}

// WithNotifier injects a notification channel.
func WithNotifier(n ports.Notifier) Option {
	return func(a *App) {
		a.notif = n
	}
}

// WithProfileStore injects a profile store.
func WithProfileStore(s ports.ProfileStore) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithCounterStore injects a counter store.
func WithCounterStore(c ports.CounterStore) Option {
	return func(a *App) {
		a.counter = c
	}
}

// WithMetricsSink injects a metric sink (replaces the Prometheus one).
func WithMetricsSink(s ports.MetricsSink) Option {
	return func(a *App) {
		a.sink = s
	}
}

// New wires an App from configuration. Absent config sections select the
// built-in substitutes: dummy directory, in-memory stores, no-op notifier.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	app := &App{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(app)
	}

	var (
		rdb            *backend.Client
		locker         ports.DistributedLocker
		metricsHandler http.Handler
	)

	if cfg.Redis != nil {
		rdb = backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.closers = append(app.closers, rdb)
		locker = redisAdapter.NewLocker(rdb, "switchboard:")
	}

	if app.store == nil {
		if rdb != nil {
			app.store = redisAdapter.NewFromClient(rdb)
		} else {
			app.store = memoryAdapter.NewStore()
		}
	}
	if app.counter == nil {
		if rdb != nil {
			app.counter = redisAdapter.NewCounters(rdb, "")
		} else {
			app.counter = memoryAdapter.NewCounters()
		}
	}

	if app.notif == nil {
		if cfg.Notify != nil && rdb != nil {
			app.notif = redisAdapter.NewOutbox(rdb, cfg.Notify.Pool, cfg.Notify.Tag)
		} else {
			app.notif = ports.NopNotifier{}
		}
	}

	if app.dir == nil {
		if cfg.Directory != nil {
			app.logger.Info("using real directory API", "url", cfg.Directory.URL)
			app.dir = directory.NewClient(directory.Config{
				URL:      cfg.Directory.URL,
				Username: cfg.Directory.Username,
				Password: cfg.Directory.Password,
				Lang:     cfg.DefaultLang,
			}, directory.WithClientLogger(app.logger))
		} else {
			app.logger.Info("using dummy directory API")
			app.dir = directory.NewDummy()
		}
	}

	if app.sink == nil {
		reg := prometheus.NewRegistry()
		app.sink = promAdapter.NewSink(reg, cfg.MetricStore)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	recorder := metrics.NewRecorder(app.counter, app.sink, metrics.WithLogger(app.logger))
	flow := registration.New(app.dir, app.notif, recorder, registration.WithLogger(app.logger))

	pipeline := runtime.NewPipeline(runtime.WithPipelineLogger(app.logger))
	flow.Attach(pipeline)

	machine, err := runtime.NewMachine(flow.Graph(), app.store, pipeline, runtime.WithLogger(app.logger))
	if err != nil {
		return nil, err
	}
	app.Machine = machine

	filter, err := cfg.CompileAddressFilter()
	if err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{session.WithLogger(app.logger)}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}
	sessions := session.NewManager(sessionOpts...)

	serverOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(app.logger),
		httpAdapter.WithAddressFilter(filter),
	}
	if metricsHandler != nil {
		serverOpts = append(serverOpts, httpAdapter.WithMetricsHandler(metricsHandler))
	}
	if cfg.QA {
		serverOpts = append(serverOpts, httpAdapter.WithDebugProfiles(app.store))
	}
	app.Handler = httpAdapter.NewHandler(machine, sessions, serverOpts...)

	return app, nil
}

// Close releases the App's resources.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
