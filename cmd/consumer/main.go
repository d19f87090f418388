package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/fraglink/internal/analytics"
	"github.com/serroba/fraglink/internal/container"
	"github.com/serroba/fraglink/internal/messaging"
	"go.uber.org/zap"
)

// loadOptions reads the settings shared with the server. SERVICE_* names, as the
// server's flags read them, take precedence over the bare names.
func loadOptions(getenv func(string) string) (*container.Options, error) {
	lookup := func(key, defaultValue string) string {
		if v := getenv("SERVICE_" + key); v != "" {
			return v
		}

		if v := getenv(key); v != "" {
			return v
		}

		return defaultValue
	}

	opts := &container.Options{
		RedisAddr: lookup("REDIS_ADDR", "localhost:6379"),
		LogFormat: lookup("LOG_FORMAT", "console"),
	}

	if _, err := container.NewLogger(opts.LogFormat); err != nil {
		return nil, err
	}

	return opts, nil
}

func run(ctx context.Context, opts *container.Options) error {
	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)

	group, err := do.Invoke[*messaging.ConsumerGroup](injector)
	if err != nil {
		return err
	}

	if err := group.Start(ctx); err != nil {
		return err
	}

	logger.Info("consuming analytics events",
		zap.String("redis", opts.RedisAddr),
		zap.String("consumerGroup", messaging.ConsumerGroupName),
		zap.Strings("topics", []string{analytics.TopicLinkCreated, analytics.TopicLinkResolved}),
		zap.Int("consumers", group.Len()),
	)

	<-ctx.Done()

	logger.Info("shutting down")

	if err := injector.Shutdown(); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

func main() {
	opts, err := loadOptions(os.Getenv)
	if err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		logger, _ := container.NewLogger(opts.LogFormat)
		logger.Fatal("consumer failed", zap.Error(err))
	}
}
