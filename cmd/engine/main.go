package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pictoseq/engine/internal/cache"
	"github.com/pictoseq/engine/internal/config"
	"github.com/pictoseq/engine/internal/dataset"
	"github.com/pictoseq/engine/internal/dispatcher"
	"github.com/pictoseq/engine/internal/engine"
	"github.com/pictoseq/engine/internal/influx"
	"github.com/pictoseq/engine/internal/logging"
	"github.com/pictoseq/engine/internal/monitor"
	intOtel "github.com/pictoseq/engine/internal/otel"
	"github.com/pictoseq/engine/internal/overrides"
	"github.com/pictoseq/engine/internal/storage"
	_ "github.com/pictoseq/engine/internal/storage/memory"
	_ "github.com/pictoseq/engine/internal/storage/postgres"
	_ "github.com/pictoseq/engine/internal/storage/sqlitestorage"
	"github.com/pictoseq/engine/internal/worker"
	"github.com/pictoseq/engine/pkg/core"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "pictoseq-engine"
)

// global variables
var (
	SessionStartTime time.Time = time.Now()

	SessionLogFilePath string
	sessionLogFile     *os.File

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// Services
	engineService   *engine.Service
	workerManager   *worker.Manager
	monitorService  *monitor.Service
	eventDispatcher *dispatcher.Dispatcher

	storageBackend storage.Backend
	influxManager  *influx.Manager
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := bootstrap(); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}
	defer shutdown()

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return 0
	}

	if err := runVerb(strings.ToLower(args[0]), args[1:]); err != nil {
		Logger.Error("Command failed", "command", args[0], "error", err)
		return 1
	}
	return 0
}

func bootstrap() error {
	var err error

	// Initialize slog manager with initial config so config loading
	// itself can log
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	// load config
	if err = config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	// create logs dir if it doesn't exist
	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}

	SessionLogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
	sessionLogFile, err = os.OpenFile(SessionLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", SessionLogFilePath)
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    sessionLogFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else if otelCfg.Endpoint != "" {
			Logger.Info("OTel provider initialized", "file", SessionLogFilePath, "endpoint", otelCfg.Endpoint)
		} else {
			Logger.Info("OTel provider initialized", "file", SessionLogFilePath)
		}
	}

	// Re-setup logging with file output and optional OTel, stamping
	// every record with the session it belongs to
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{
			slog.String("session", SessionStartTime.Format(time.RFC3339)),
			slog.Duration("uptime", time.Since(SessionStartTime)),
		}
	})
	SlogManager.Setup(sessionLogFile, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", SessionLogFilePath)

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	registerLifecycleHandlers(eventDispatcher)

	// Load the alphabet and the special placement overrides
	ds, err := dataset.Load(viper.GetString("dataset.path"))
	if err != nil {
		return fmt.Errorf("failed to load alphabet dataset: %w", err)
	}
	Logger.Info("Alphabet dataset loaded", "letters", ds.Len(), "path", viper.GetString("dataset.path"))

	store, err := overrides.Load(viper.GetString("overrides.path"))
	if errors.Is(err, overrides.ErrStoreCorrupt) {
		Logger.Warn("Override store unreadable, continuing with empty store",
			"path", viper.GetString("overrides.path"), "error", err)
	} else if err != nil {
		return fmt.Errorf("failed to load override store: %w", err)
	}

	engineService = engine.NewService(engine.Dependencies{
		Dataset:     ds,
		Overrides:   store,
		AnchorCache: cache.NewAnchorCache(),
		LetterCache: cache.NewLetterCache(),
		LogManager:  SlogManager,
		GridMode:    core.GridMode(viper.GetString("gridMode")),
	})

	if err = initStorage(); err != nil {
		return err
	}

	if viper.GetBool("influx.enabled") {
		influxManager = influx.NewManager(zlog, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, metrics disabled", "error", err)
			influxManager = nil
		}
	}

	// Initialize worker manager and register command handlers
	workerManager = worker.NewManager(worker.Dependencies{
		Engine:     engineService,
		LogManager: SlogManager,
		Influx:     influxManager,
	})
	Logger.Debug("Registering worker handlers with dispatcher")
	workerManager.RegisterHandlers(eventDispatcher)
	Logger.Info("Worker handlers registered with dispatcher")

	// Initialize monitor service
	monitorDeps := monitor.Dependencies{
		Engine:     engineService,
		LogManager: SlogManager,
		Influx:     influxManager,
		StatusDir:  logsDir,
	}
	if rec, ok := storageBackend.(monitor.PerformanceRecorder); ok {
		monitorDeps.Recorder = rec
	}
	monitorService = monitor.NewService(monitorDeps)

	if !monitorService.IsRunning() {
		Logger.Debug("Status process not running, starting it")
		monitorService.Start()
	}

	return nil
}

func initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg)
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	storageBackend = backend
	if err := storageBackend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		return err
	}
	engineService.SetBackend(storageBackend)

	Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	return nil
}

func shutdown() {
	if monitorService != nil {
		monitorService.Stop()
	}
	if engineService != nil {
		engineService.Close()
	}
	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
		if exp, ok := storageBackend.(storage.Exportable); ok {
			Logger.Info("Session data exported", "path", exp.GetExportedFilePath())
		}
	}
	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Warn("Failed to flush OTel data", "error", err)
		}
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	if sessionLogFile != nil {
		sessionLogFile.Close()
	}
}

// registerLifecycleHandlers registers system/lifecycle command handlers
// with the dispatcher
func registerLifecycleHandlers(d *dispatcher.Dispatcher) {
	d.Register(":INIT:", func(e dispatcher.Event) (any, error) {
		return "ok", nil
	})

	// Simple queries - sync return is sufficient, no callback needed
	d.Register(":VERSION:", func(e dispatcher.Event) (any, error) {
		return []string{CurrentVersion, BuildDate}, nil
	})

	d.Register(":GETDIR:LOG:", func(e dispatcher.Event) (any, error) {
		return SessionLogFilePath, nil
	})

	d.Register(":SAVE:", func(e dispatcher.Event) (any, error) {
		Logger.Info("Received :SAVE: command, flushing session state")
		// Flush OTel data if provider is available
		if OTelProvider != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := OTelProvider.Flush(ctx); err != nil {
				Logger.Warn("Failed to flush OTel data", "error", err)
			}
		}
		return "ok", nil
	})
}
