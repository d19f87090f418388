package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/fraglink/internal/analytics"
	analyticsstore "github.com/serroba/fraglink/internal/analytics/store"
	"github.com/serroba/fraglink/internal/handlers"
	"github.com/serroba/fraglink/internal/health"
	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/messaging"
	"github.com/serroba/fraglink/internal/middleware"
	"github.com/serroba/fraglink/internal/payload"
	"github.com/serroba/fraglink/internal/qr"
	"github.com/serroba/fraglink/internal/ratelimit"
	"github.com/serroba/fraglink/internal/recent"
	"github.com/serroba/fraglink/internal/store"
	"go.uber.org/zap"
)

// QRLimiter names the token bucket guarding QR rendering.
const QRLimiter = "qr-limiter"

type Options struct {
	Port        int    `default:"8888"    help:"Port to listen on"                                      short:"p"`
	Origin      string `default:""        help:"Origin links are composed under (default http://localhost:<port>)"`
	RedisAddr   string `default:""        help:"Redis server address, empty keeps state in process"     short:"r"`
	DatabaseURL string `default:""        help:"Postgres URL for recent link history"                   short:"d"`
	LogFormat   string `default:"console" help:"Log format: console or json"                            short:"l"`
	Compression bool   `default:"true"    help:"Compress fragments with LZ-String"`
	RecentLimit int    `default:"50"      help:"Links kept per client history"`
	CacheTTL    int    `default:"60"      help:"Seconds recent lists stay cached in Redis"`
	QRSize      int    `default:"800"     help:"Default QR edge in pixels"`
	QRPerMinute int    `default:"30"      help:"QR renders allowed per client per minute"`
	QRBurst     int    `default:"10"      help:"QR renders allowed in a burst"`
}

// BaseURL returns the origin composed links point at.
func (o *Options) BaseURL() string {
	if o.Origin != "" {
		return o.Origin
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// InProcess reports whether analytics events stay inside the server process.
func (o *Options) InProcess() bool {
	return o.RedisAddr == ""
}

// Redis holds the shared client. Client is nil when no address is configured.
type Redis struct {
	Client *redis.Client
}

// Checker returns a health checker, or nil when Redis is not configured.
func (r *Redis) Checker() health.Checker {
	if r.Client == nil {
		return nil
	}

	return health.NewRedisChecker(r.Client)
}

func (r *Redis) Shutdown() error {
	if r.Client == nil {
		return nil
	}

	return r.Client.Close()
}

// Postgres holds the shared pool. Pool is nil when no database is configured.
type Postgres struct {
	Pool *pgxpool.Pool
}

// Checker returns a health checker, or nil when Postgres is not configured.
func (p *Postgres) Checker() health.Checker {
	if p.Pool == nil {
		return nil
	}

	return health.NewPostgresChecker(p.Pool)
}

func (p *Postgres) Shutdown() error {
	if p.Pool != nil {
		p.Pool.Close()
	}

	return nil
}

// NewLogger builds a development logger for console output and a production one for json.
func NewLogger(format string) (*zap.Logger, error) {
	switch format {
	case "", "console":
		return zap.NewDevelopment()
	case "json":
		return zap.NewProduction()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		return NewLogger(do.MustInvoke[*Options](i).LogFormat)
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return &Redis{}, nil
		}

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return &Postgres{}, nil
		}

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &Postgres{Pool: pool}, nil
	})
}

// CodecPackage provides the fragment encoder, decoder and link builder.
// The decoder always understands compressed fragments so links made before
// compression was turned off keep resolving.
func CodecPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*payload.Encoder, error) {
		if !do.MustInvoke[*Options](i).Compression {
			return payload.NewEncoder(nil), nil
		}

		return payload.NewEncoder(payload.LZString{}), nil
	})

	do.Provide(i, func(_ *do.Injector) (*payload.Decoder, error) {
		return payload.NewDecoder(payload.LZString{}), nil
	})

	do.Provide(i, func(i *do.Injector) (*link.Builder, error) {
		opts := do.MustInvoke[*Options](i)

		return link.NewBuilder(opts.BaseURL(), do.MustInvoke[*payload.Encoder](i)), nil
	})
}

// RepositoryPackage picks the recent link store: Postgres (cached in Redis when both
// are configured), then Redis, then memory.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (recent.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		rdb := do.MustInvoke[*Redis](i)
		pg := do.MustInvoke[*Postgres](i)

		switch {
		case pg.Pool != nil:
			pgStore := store.NewRecentPostgresStore(pg.Pool, opts.RecentLimit)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := pgStore.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("recent links schema: %w", err)
			}

			if rdb.Client != nil {
				logger.Info("recent links in postgres, cached in redis")

				return store.NewRecentCacheRepository(pgStore, rdb.Client, time.Duration(opts.CacheTTL)*time.Second), nil
			}

			logger.Info("recent links in postgres")

			return pgStore, nil
		case rdb.Client != nil:
			logger.Info("recent links in redis")

			return store.NewRecentRedisStore(rdb.Client, opts.RecentLimit), nil
		default:
			logger.Info("recent links in memory")

			return store.NewRecentMemoryStore(opts.RecentLimit), nil
		}
	})
}

func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*ratelimit.Policy, error) {
		return ratelimit.DefaultPolicy(), nil
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		if rdb := do.MustInvoke[*Redis](i); rdb.Client != nil {
			s, err := store.NewRateLimitRedisStore(rdb.Client)
			if err != nil {
				return nil, err
			}

			return s, nil
		}

		return newPrunedRateLimitStore(time.Minute, longestWindow(do.MustInvoke[*ratelimit.Policy](i))), nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), do.MustInvoke[*ratelimit.Policy](i)), nil
	})

	// With Redis the QR budget is a sliding window shared by every replica;
	// a single process uses a local token bucket that tolerates bursts.
	do.ProvideNamed(i, QRLimiter, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)

		if do.MustInvoke[*Redis](i).Client != nil {
			return ratelimit.NewSlidingWindowLimiter(do.MustInvoke[ratelimit.Store](i), int64(opts.QRPerMinute), time.Minute), nil
		}

		return ratelimit.NewTokenBucketLimiter(float64(opts.QRPerMinute)/60, opts.QRBurst, 10*time.Minute), nil
	})
}

// InProcessPackage provides the Go channel pub/sub used when Redis is not configured.
func InProcessPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return messaging.NewInProcess(messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i))), nil
	})
}

func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		if rdb := do.MustInvoke[*Redis](i); rdb.Client != nil {
			publisher, err := messaging.NewRedisPublisher(rdb.Client, messaging.NewZapLogger(logger))
			if err != nil {
				return nil, fmt.Errorf("redis stream publisher: %w", err)
			}

			return messaging.NewPublisherGroup(publisher), nil
		}

		channel, err := do.Invoke[*gochannel.GoChannel](i)
		if err != nil {
			return nil, fmt.Errorf("in-process publisher: %w", err)
		}

		return messaging.NewPublisherGroup(channel), nil
	})

	do.Provide(i, func(i *do.Injector) (*analytics.Publishers, error) {
		return analytics.NewPublishers(do.MustInvoke[*messaging.PublisherGroup](i).Publisher()), nil
	})
}

// ConsumerGroupPackage wires analytics consumers. Events read from Redis Streams are logged;
// events from the in-process channel are counted for /stats.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*analyticsstore.Memory, error) {
		return analyticsstore.NewMemory(), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		var (
			subscriber message.Subscriber
			sink       analytics.Store
		)

		if rdb := do.MustInvoke[*Redis](i); rdb.Client != nil {
			sub, err := messaging.NewRedisSubscriber(rdb.Client, messaging.NewZapLogger(logger))
			if err != nil {
				return nil, fmt.Errorf("redis stream subscriber: %w", err)
			}

			subscriber = sub
			sink = analyticsstore.NewNoop(logger)
		} else {
			channel, err := do.Invoke[*gochannel.GoChannel](i)
			if err != nil {
				return nil, fmt.Errorf("in-process subscriber: %w", err)
			}

			subscriber = channel
			sink = do.MustInvoke[*analyticsstore.Memory](i)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.RegisterConsumers(group, subscriber, sink, logger)

		return group, nil
	})
}

// HTTPPackage provides the router and the API. Invoking huma.API registers every route.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		newClientID, err := nanoid.Standard(21)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("Fragment Links", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api, newClientID))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			ratelimit.NewOperationScopeResolver(),
			logger,
		))

		publishers := do.MustInvoke[*analytics.Publishers](i)

		handlers.RegisterRoutes(api,
			handlers.NewLinkHandler(do.MustInvoke[*link.Builder](i), do.MustInvoke[recent.Repository](i), publishers, logger),
			handlers.NewResolveHandler(do.MustInvoke[*payload.Decoder](i), publishers, logger),
			handlers.NewQRHandler(qr.NewRenderer(), do.MustInvokeNamed[ratelimit.Limiter](i, QRLimiter), opts.QRSize, logger),
		)
		health.RegisterRoutes(api, health.NewHandler(
			do.MustInvoke[*Redis](i).Checker(),
			do.MustInvoke[*Postgres](i).Checker(),
		))

		if opts.InProcess() {
			handlers.RegisterStats(api, handlers.NewStatsHandler(do.MustInvoke[*analyticsstore.Memory](i).Snapshot))
		}

		handlers.RegisterPage(router)

		return api, nil
	})
}
