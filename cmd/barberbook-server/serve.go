package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"barberbook/backend/internal/config"
	"barberbook/backend/internal/notify"
	"barberbook/backend/internal/service/appointments"
	"barberbook/backend/internal/slotcache"
	"barberbook/backend/internal/store"
	"barberbook/backend/internal/store/memory"
	"barberbook/backend/internal/store/postgres"
	"barberbook/backend/internal/telemetry"
	grpcTransport "barberbook/backend/internal/transport/grpc"
	httpTransport "barberbook/backend/internal/transport/http"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, newLogger(cfg.LogLevel), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving (postgres only)")
	return cmd
}

type stores struct {
	repo    store.AppointmentRepository
	catalog store.CatalogRepository
	ready   func(context.Context) error
	close   func()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger, migrate bool) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		st := memory.New()
		n, err := st.SeedCatalog(ctx, store.DemoCatalog())
		if err != nil {
			return stores{}, err
		}
		log.Warn("using in-memory store; data is lost on restart", slog.Int("seeded", n))
		return stores{repo: st, catalog: st, ready: st.Ping, close: func() {}}, nil
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return stores{}, err
	}
	if migrate {
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			closeDatabase(db, log)
			return stores{}, err
		}
		log.Info("migrations applied", slog.Int("count", len(applied)))
	}
	return stores{
		repo:    postgres.NewAppointmentRepo(db),
		catalog: postgres.NewCatalogRepo(db),
		ready:   postgres.ReadyCheck(db),
		close:   func() { closeDatabase(db, log) },
	}, nil
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger, migrate bool) error {
	log.Info(
		"starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("http_addr", cfg.HTTPAddr),
		slog.String("store", cfg.StoreDriver),
		slog.String("timezone", cfg.BusinessHours.Location.String()),
		slog.String("log_level", cfg.LogLevel),
	)

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("tracer shutdown failed", slog.Any("err", err))
		}
	}()

	st, err := openStores(ctx, cfg, log, migrate)
	if err != nil {
		return err
	}
	defer st.close()

	readyChecks := []httpTransport.ReadyCheck{{Name: "store", Check: st.ready}}
	opts := []appointments.Option{
		appointments.WithBusinessHours(cfg.BusinessHours),
		appointments.WithLogger(log),
	}

	if cfg.RedisURL != "" {
		rdb, err := slotcache.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		opts = append(opts, appointments.WithSlotCache(slotcache.NewRedis(rdb, cfg.RedisSlotTTL, "")))
		readyChecks = append(readyChecks, httpTransport.ReadyCheck{Name: "redis", Check: slotcache.ReadyCheck(rdb)})
		log.Info("slot cache enabled (redis)", slog.Duration("ttl", cfg.RedisSlotTTL))
	}

	if cfg.KafkaBrokers != "" {
		kn, err := notify.NewKafkaNotifier(notify.KafkaConfig{Brokers: cfg.KafkaBrokers, TopicPrefix: cfg.KafkaTopicPrefix}, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := kn.Close(); err != nil {
				log.Warn("kafka writer close failed", slog.Any("err", err))
			}
		}()
		opts = append(opts, appointments.WithNotifier(kn))
		readyChecks = append(readyChecks, httpTransport.ReadyCheck{Name: "kafka", Check: notify.ReadyCheck(cfg.KafkaBrokers)})
		log.Info("notifications enabled (kafka)", slog.String("topic_prefix", cfg.KafkaTopicPrefix))
	} else {
		opts = append(opts, appointments.WithNotifier(notify.NewLogNotifier(log)))
	}

	svc := appointments.NewService(st.repo, st.catalog, opts...)

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(grpcTransport.DefaultRequestTimeout(cfg.GRPCRequestTimeout)),
	)
	grpcTransport.RegisterAppointmentsServiceServer(grpcServer, grpcTransport.NewAppointmentsServer(svc, log))
	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcTransport.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	router := httpTransport.NewRouter(httpTransport.NewHandler(svc, log), httpTransport.RouterConfig{
		CORSOrigins: cfg.HTTPCORSOrigins,
		ReadyChecks: readyChecks,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, "barberbook.http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	log.Info("servers started", slog.String("grpc_addr", cfg.GRPCAddr()), slog.String("http_addr", cfg.HTTPAddr))

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped with error", slog.Any("err", err))
			runErr = err
		}
	}

	healthServer.Shutdown()
	shutdown(log, grpcServer, httpServer, cfg.ShutdownTimeout)
	return runErr
}

func shutdown(log *slog.Logger, g *grpc.Server, h *http.Server, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed; closing", slog.Any("err", err))
		_ = h.Close()
	}

	done := make(chan struct{})
	go func() {
		g.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("servers stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		g.Stop()
	}
}
