package demo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/service/server"
	"github.com/oshokin/orientation-lock/internal/tui"
)

// Options controls the demo.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file. A missing
	// file falls back to the defaults.
	ConfigPath string
	// LogFile receives the log while the terminal UI owns the screen.
	LogFile string
}

// DefaultLogFilename is the log file name used when Options.LogFile is empty.
const DefaultLogFilename = "orientation-lock-demo.log"

// Run starts the controller and shows the terminal UI until the user quits.
func Run(ctx context.Context, opts *Options) error {
	settings, err := loadSettings(opts.ConfigPath)
	if err != nil {
		return err
	}

	logPath := opts.LogFile
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), DefaultLogFilename)
	}

	logFile, err := os.OpenFile(filepath.Clean(logPath), os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	defer func() {
		_ = logFile.Close()
	}()

	// The terminal belongs to the UI; everything else logs to the file.
	logger.SetLogger(logger.New(logFile))

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok && settings.LogLevel != "" {
		logger.SetLevel(level)
	}

	ctx = logger.WithName(ctx, "orientation-lock-demo")

	dev := server.NewDevice(settings)

	ctrl, err := server.NewController(ctx, settings, dev, nil)
	if err != nil {
		return err
	}

	defer ctrl.Close()

	logger.InfoKV(ctx, "Demo started", "target", string(settings.Lock.Target), "orientation", dev.Type())

	return tui.Run(ctx, tui.NewModel(ctx, ctrl, dev, settings.Lock.TiltThreshold))
}

// loadSettings reads path, or returns the defaults when the file does not exist.
func loadSettings(path string) (*config.Config, error) {
	settings, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return settings, nil
}
