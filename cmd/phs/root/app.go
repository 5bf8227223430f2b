package root

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/luisamog/ARKHO-PHS/internal/config"
	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/project"
	"github.com/luisamog/ARKHO-PHS/internal/sqlite"
)

// app holds the opened database and the services built on it.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	projects *project.Service
	activity *activity.Service
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if flags.dbPath != "" {
		cfg.DB.Path = flags.dbPath
	}
	return cfg, nil
}

// openApp opens the database, applies migrations and wires the services.
// The returned cleanup closes the database and any log file.
func openApp(cfg config.Config, stderr io.Writer) (*app, func(), error) {
	logger, closeLog, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return nil, nil, err
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		closeLog()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), activitySvc, logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		projects: projectSvc,
		activity: activitySvc,
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
		closeLog()
	}
	return a, cleanup, nil
}

// newLogger logs to the configured file, or to stderr. Stdout stays free for
// command output and the stdio transport.
func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, func(), error) {
	writer := stderr
	closeFn := func() {}
	if cfg.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Path, cfg.MaxBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		writer = fileWriter
		closeFn = func() { _ = fileWriter.Close() }
	}
	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}))
	return logger, closeFn, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
