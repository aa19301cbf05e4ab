package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/cardkit/debitcard"
	"github.com/cardkit/debitcard/api"
	"github.com/cardkit/debitcard/card"
	"github.com/cardkit/debitcard/config"
	"github.com/cardkit/debitcard/driver/inmemory"
	"github.com/cardkit/debitcard/driver/mongodb"
	"github.com/cardkit/debitcard/driver/postgres"
	extensionAMQP "github.com/cardkit/debitcard/extension/amqp"
	extensionPrometheus "github.com/cardkit/debitcard/extension/prometheus"
	extensionZap "github.com/cardkit/debitcard/extension/zap"
	strategyJSON "github.com/cardkit/debitcard/strategy/json"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	failOnError(err)

	cfg := config.Load()

	repository, repositoryCloser, err := newRepository(cfg, logger)
	failOnError(err)
	defer repositoryCloser()

	metrics := extensionPrometheus.NewMetrics()
	registry := prometheus.NewRegistry()
	failOnError(metrics.RegisterMetrics(registry))

	options := []card.FacadeOption{
		card.WithLogger(extensionZap.Wrap(logger)),
		card.WithMetrics(metrics),
	}

	if cfg.AMQPDSN != "" {
		publisher, err := extensionAMQP.NewEventPublisher(
			cfg.AMQPDSN,
			cfg.AMQPQueue,
			strategyJSON.NewEventTransformer(),
			extensionZap.Wrap(logger),
		)
		failOnError(err)

		options = append(options, card.WithEventPublisher(publisher))
	}

	facade, err := card.NewFacade(repository, options...)
	failOnError(err)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Mount("/debug", middleware.Profiler())
	router.Mount("/v1/debit-cards", api.NewHandler(facade, logger).HTTPHandler())

	serve(cfg.HTTPAddr, router, logger)
}

func newRepository(cfg config.Config, logger *zap.Logger) (card.Repository, func(), error) {
	wrapped := extensionZap.Wrap(logger)

	switch cfg.Repository {
	case config.RepositoryInMemory:
		return inmemory.NewRepository(wrapped), func() {}, nil

	case config.RepositoryPostgres:
		db, dbCloser, err := config.NewPostgresDB(cfg.PostgresDSN, logger)
		if err != nil {
			return nil, nil, err
		}

		if err := config.SetupDB(db, postgres.CreateSchema(), logger); err != nil {
			dbCloser()
			return nil, nil, err
		}

		repository, err := postgres.NewRepository(db, strategyJSON.NewEventTransformer(), wrapped)
		if err != nil {
			dbCloser()
			return nil, nil, err
		}

		return repository, dbCloser, nil

	case config.RepositoryMongoDB:
		db, dbCloser, err := config.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, nil, err
		}

		repository, err := mongodb.NewRepository(db, wrapped)
		if err != nil {
			dbCloser()
			return nil, nil, err
		}

		return repository, dbCloser, nil
	}

	return nil, nil, debitcard.Error(fmt.Sprintf("debitcard: unknown repository backend %q", cfg.Repository))
}

func serve(addr string, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{Addr: addr, Handler: router}

	closed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		// We received an interrupt signal, shut down.
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.With(zap.Error(err)).Error("failed to shutdown http server")
		}
		close(closed)
	}()

	logger.With(zap.String("addr", srv.Addr)).Info("Starting http.ListenAndServe")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logger.With(zap.Error(err)).Error("http.ListenAndServe return an error")
	}

	<-closed
}

func failOnError(err error) {
	if err != nil {
		panic(err)
	}
}
