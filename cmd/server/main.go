package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"consentgate/internal/audit"
	consentHandler "consentgate/internal/consent/handler"
	consentService "consentgate/internal/consent/service"
	"consentgate/internal/instrumentation"
	"consentgate/internal/jwttoken"
	"consentgate/internal/platform/config"
	"consentgate/internal/platform/httpserver"
	"consentgate/internal/platform/logger"
	"consentgate/internal/platform/metrics"
	platformredis "consentgate/internal/platform/redis"
	httptransport "consentgate/internal/transport/http"
	"consentgate/pkg/platform/secrets"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	bootstrap := flag.Bool("bootstrap-operator-secret", false, "mint an operator secret and its hash, then exit")
	flag.Parse()

	if *bootstrap {
		secret, hash, err := bootstrapOperatorSecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, "bootstrap operator secret:", err)
			os.Exit(1)
		}
		fmt.Printf("operator secret: %s\nCONSENTGATE_OPERATOR_SECRET_HASH=%s\n", secret, hash)
		return
	}

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Audit sink: in-memory store serves the operator endpoint; when Kafka is
	// configured, events also stream to the topic through a background worker.
	auditStore := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(auditStore, log)

	group, ctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka audit store unavailable, continuing with local store only", "error", err)
		} else {
			defer kafkaStore.Close()
			stream := make(chan audit.Event, 256)
			publisher.WithStream(stream)
			worker := audit.NewWorker(kafkaStore, stream, log)
			group.Go(func() error {
				if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}
	}

	// Runtime bundle cache: redis when configured, process-local otherwise.
	var cache instrumentation.BundleCache = instrumentation.NewMemoryBundleCache()
	var healthChecks []httptransport.HealthChecker
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory bundle cache", "error", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		cache = instrumentation.NewRedisBundleCache(redisClient.Client)
		healthChecks = append(healthChecks, redisClient)
	}

	loader := instrumentation.NewHTTPLoader(cfg.RuntimeBaseURL, cache, log)
	sink := audit.NewInstrumentationSink(publisher, log)
	activator := instrumentation.NewActivator(loader, log, m, sink)

	opts := instrumentation.DefaultTrackingOptions()
	opts.SessionRecordingSampleRate = cfg.SampleRate
	flow := consentService.New(cfg.APIKey, opts, activator, log, m, publisher)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "consentgate", "consentgate-admin")

	router := httptransport.NewRouter(
		consentHandler.New(flow, log, m),
		httptransport.NewAdminHandler(publisher, jwtService, jwttoken.NewMiddlewareAdapter(jwtService), cfg.OperatorSecretHash, log),
		httptransport.NewPageHandler(flow, activator, log),
		healthChecks...,
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting consentgate", "addr", cfg.Addr)

	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// bootstrapOperatorSecret mints the secret an operator presents to the token
// endpoint together with the bcrypt hash the server is configured with.
func bootstrapOperatorSecret() (secret, hash string, err error) {
	secret, err = secrets.Generate()
	if err != nil {
		return "", "", err
	}
	hash, err = secrets.Hash(secret)
	if err != nil {
		return "", "", err
	}
	return secret, hash, nil
}
