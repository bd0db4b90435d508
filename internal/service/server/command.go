package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/orientation-lock/internal/api/grpc/lock"
	"github.com/oshokin/orientation-lock/internal/api/web"
	"github.com/oshokin/orientation-lock/internal/config"
	"github.com/oshokin/orientation-lock/internal/logger"
	"github.com/oshokin/orientation-lock/internal/platform/mqttfeed"
)

// Options controls the orientation-lock-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// HTTPAddress overrides the HTTP listen address from config when set.
	HTTPAddress string
	// Broker overrides the MQTT broker from config when set.
	Broker string
}

// httpShutdownTimeout bounds the graceful HTTP shutdown.
const httpShutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the lock server and blocks until ctx is cancelled or a
// listener fails.
//
//nolint:funlen // Linear wiring of the server components.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "orientation-lock-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(settings, opts)

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok && settings.LogLevel != "" {
		logger.SetLevel(level)
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	dev := NewDevice(settings)

	// Connect the sensor bus when a broker is configured.
	var publisher AlertPublisher

	if settings.MQTT.Enabled() {
		client, err := mqttfeed.Connect(ctx, mqttfeed.Options{
			Broker:   settings.MQTT.Broker,
			ClientID: settings.MQTT.ClientID + "-server",
			Timeout:  settings.Timeout,
		})
		if err != nil {
			return fmt.Errorf("connect MQTT: %w", err)
		}

		defer mqttfeed.Disconnect(client)

		unsubscribe, err := mqttfeed.Subscribe(
			ctx, client, dev, settings.MQTT.TiltTopic, settings.MQTT.OrientationTopic, settings.Timeout)
		if err != nil {
			return fmt.Errorf("subscribe MQTT: %w", err)
		}

		defer unsubscribe()

		publisher = mqttfeed.NewPublisher(client, settings.Timeout)
	}

	ctrl, err := NewController(ctx, settings, dev, publisher)
	if err != nil {
		return err
	}

	defer ctrl.Close()

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterLockServiceServer(grpcServer, api.NewServer(ctrl))

	logger.InfoKV(ctx, "Lock server listening",
		"listen_address", listenAddress,
		"http_address", settings.HTTPAddress,
		"mqtt_broker", settings.MQTT.Broker,
		"target", string(settings.Lock.Target))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	var httpServer *http.Server

	if settings.HTTPAddress != "" {
		httpServer = &http.Server{
			Addr:              settings.HTTPAddress,
			Handler:           web.NewRouter(ctx, ctrl, dev),
			ReadHeaderTimeout: settings.Timeout,
		}

		group.Go(func() error {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve HTTP: %w", err)
			}

			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down servers")

		// Watch streams end once the controller closes its subscribers.
		ctrl.Close()
		grpcServer.GracefulStop()

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), httpShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.WarnKV(ctx, "HTTP shutdown failed", "error", err)
			}
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Lock server stopped")

	return nil
}

// applyOverrides applies command line overrides to the loaded settings.
func applyOverrides(settings *config.Config, opts *Options) {
	if opts.HTTPAddress != "" {
		settings.HTTPAddress = opts.HTTPAddress
	}

	if opts.Broker != "" {
		settings.MQTT.Broker = opts.Broker
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
