// Package app wires configuration, adapters and use cases together.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"actai-dashboard/internal/adapter/actai"
	msql "actai-dashboard/internal/adapter/mysql"
	"actai-dashboard/internal/adapter/notes"
	"actai-dashboard/internal/adapter/session"
	"actai-dashboard/internal/config"
	"actai-dashboard/internal/dashboard"
	"actai-dashboard/internal/migrate"
	"actai-dashboard/internal/ports"
	"actai-dashboard/internal/usecase"
)

var (
	// ErrSyncRunning is returned when a snapshot is requested while one is in progress.
	ErrSyncRunning = errors.New("sync already running")
	// ErrSnapshotDisabled is returned when no MySQL DSN is configured.
	ErrSnapshotDisabled = errors.New("snapshot sink not configured: set mysql.dsn")
)

// App wires adapters and use cases.
type App struct {
	log      *zap.Logger
	cfg      config.Config
	registry *prometheus.Registry

	Store    *dashboard.Store
	Sessions *session.FileStore
	Client   *actai.Client

	Auth     *usecase.AuthUseCase
	Loader   *usecase.Loader
	Status   *usecase.StatusCoordinator
	Editor   *usecase.Editor
	Voice    *usecase.VoicePlanner
	Checkins *usecase.CheckinUseCase
	Notes    *usecase.Notes

	syncMu  sync.Mutex
	sinkMu  sync.Mutex
	sink    *msql.Client
	closers []func() error
}

// New builds the application. Nothing is dialed here; MySQL is opened on
// the first snapshot and Redis on the first note access.
func New(log *zap.Logger, cfg config.Config) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessions := session.NewFileStore(cfg.Session.Path)
	client := actai.NewClient(cfg.API.BaseURL, sessions, log.Named("actai"),
		actai.WithTimeout(cfg.API.Timeout),
		actai.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		actai.WithMetrics(actai.NewMetrics(reg)),
	)
	store := dashboard.New(log.Named("dashboard"))

	a := &App{
		log:      log,
		cfg:      cfg,
		registry: reg,
		Store:    store,
		Sessions: sessions,
		Client:   client,
	}

	notesStore, err := a.notesStore()
	if err != nil {
		return nil, err
	}

	a.Auth = &usecase.AuthUseCase{Log: log, API: client, Sessions: sessions, Store: store}
	a.Loader = &usecase.Loader{Log: log, Plans: client, Tasks: client, Store: store}
	a.Status = &usecase.StatusCoordinator{Log: log, Tasks: client, Store: store}
	a.Editor = &usecase.Editor{Log: log, Plans: client, Tasks: client, Store: store}
	a.Voice = &usecase.VoicePlanner{Log: log, Audio: client, Editor: a.Editor}
	a.Checkins = &usecase.CheckinUseCase{Log: log, API: client}
	a.Notes = &usecase.Notes{Store: notesStore}
	return a, nil
}

func (a *App) notesStore() (ports.NotesStore, error) {
	switch a.cfg.Notes.Backend {
	case "", "file":
		return notes.NewFileStore(a.cfg.Notes.Path), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Notes.RedisAddr,
			Password: a.cfg.Notes.RedisPassword,
			DB:       a.cfg.Notes.RedisDB,
		})
		a.closers = append(a.closers, rdb.Close)
		return notes.NewRedisStore(rdb, a.cfg.Notes.RedisKey), nil
	}
	return nil, errors.New("unknown notes backend " + a.cfg.Notes.Backend)
}

// Registry exposes the metrics registry served on /metrics.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// RunSnapshot copies the current plans into MySQL, running migrations the
// first time. Concurrent calls fail with ErrSyncRunning.
func (a *App) RunSnapshot(ctx context.Context) (int, error) {
	if !a.syncMu.TryLock() {
		return 0, ErrSyncRunning
	}
	defer a.syncMu.Unlock()

	sink, err := a.openSink(ctx)
	if err != nil {
		return 0, err
	}
	uc := &usecase.SyncUseCase{Log: a.log, Plans: a.Client, Sink: sink}
	return uc.Run(ctx)
}

func (a *App) openSink(ctx context.Context) (*msql.Client, error) {
	a.sinkMu.Lock()
	defer a.sinkMu.Unlock()
	if a.sink != nil {
		return a.sink, nil
	}
	if a.cfg.MySQL.DSN == "" {
		return nil, ErrSnapshotDisabled
	}
	// Run migrations before opening the sink for use
	if err := migrate.Run(ctx, a.cfg.MySQL.DSN, a.log.Named("migrate")); err != nil {
		return nil, err
	}
	sink, err := msql.NewClient(ctx, a.cfg.MySQL.DSN, a.log.Named("mysql"))
	if err != nil {
		return nil, err
	}
	a.sink = sink
	a.closers = append(a.closers, sink.Close)
	return sink, nil
}

// Close releases the MySQL and Redis connections.
func (a *App) Close() error {
	a.sinkMu.Lock()
	defer a.sinkMu.Unlock()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	a.sink = nil
	return errors.Join(errs...)
}
