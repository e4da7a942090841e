package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/ottoshop/internal/config"
	"github.com/hammamikhairi/ottoshop/internal/engine"
	"github.com/hammamikhairi/ottoshop/internal/ingredient"
	"github.com/hammamikhairi/ottoshop/internal/logger"
	"github.com/hammamikhairi/ottoshop/internal/recipe"
	"github.com/hammamikhairi/ottoshop/internal/storage"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	eng     *engine.Engine
	closers []io.Closer
}

type globalFlags struct {
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
}

func newApp(flags globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logFile != "" {
		cfg.Logging.File = flags.logFile
	}

	level, _ := logger.ParseLevel(cfg.Logging.Level)
	if flags.verbose {
		level = logger.LevelVerbose
	}
	if flags.quiet {
		level = logger.LevelOff
	}

	a := &app{cfg: cfg}

	var logOut io.Writer = os.Stderr
	if !cfg.LogToConsole() {
		if dir := filepath.Dir(cfg.Logging.File); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Logging.File, err)
		} else {
			logOut = f
			a.closers = append(a.closers, f)
		}
	}
	a.log = logger.New(level, logOut)

	recipes := recipe.NewFileSource(cfg.BaseDir, a.log)
	store := storage.NewFileStore(cfg.BaseDir, a.log,
		storage.WithFileName(cfg.Store.FileName),
		storage.WithLockTimeout(cfg.LockTimeout()),
	)
	a.eng = engine.New(store, ingredient.NewExtractor(recipes, a.log), a.log,
		engine.WithAislePath(cfg.Aisle),
		engine.WithPantryPath(cfg.Pantry),
	)

	a.log.Debug("base dir %s, store %s, aisle %q, pantry %q", cfg.BaseDir, store.Path(), cfg.Aisle, cfg.Pantry)
	return a, nil
}

func (a *app) Close() {
	a.log.Sync()
	for _, c := range a.closers {
		_ = c.Close()
	}
}
