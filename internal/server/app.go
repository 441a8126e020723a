package server

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/cache"
	"github.com/emrgen/notion/internal/compress"
	"github.com/emrgen/notion/internal/config"
	"github.com/emrgen/notion/internal/queue"
	"github.com/emrgen/notion/internal/search"
	"github.com/emrgen/notion/internal/service"
	"github.com/emrgen/notion/internal/storage"
	"github.com/emrgen/notion/internal/store"
)

const documentCacheTTL = 10 * time.Minute

// App holds the document service and the backends selected by the configuration.
type App struct {
	Service  *service.DocumentService
	Verifier auth.Verifier
	closers  []func() error
}

// NewApp wires the document service. Optional backends are enabled when configured.
func NewApp(ctx context.Context, cnf *config.Config, docStore store.Store) (*App, error) {
	app := &App{}

	codec, err := compress.Lookup(cnf.Compression)
	if err != nil {
		return nil, err
	}

	app.Verifier, err = verifier(ctx, cnf.Auth)
	if err != nil {
		return nil, err
	}

	var opts []service.Option
	var broker queue.Broker = queue.NewMemoryBroker()

	if cnf.RedisURL != "" {
		client, err := cache.NewRedis(cnf.RedisURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)

		opts = append(opts, service.WithCache(cache.NewRedisDocumentCache(client, documentCacheTTL)))
		broker = queue.NewRedisBroker(client)
		logrus.Infof("redis cache and change feed enabled")
	}

	if cnf.Kafka.Brokers != "" {
		publisher, err := queue.NewKafkaPublisher(cnf.Kafka.Brokers, cnf.Kafka.Topic)
		if err != nil {
			app.Close()
			return nil, err
		}
		broker = queue.Tee(broker, publisher)
		logrus.Infof("exporting document events to kafka topic %s", cnf.Kafka.Topic)
	}
	opts = append(opts, service.WithBroker(broker))

	var engine search.Engine
	if cnf.Meili.URL != "" {
		engine = search.NewMeili(cnf.Meili.URL, cnf.Meili.APIKey)
	}
	opts = append(opts, service.WithSearch(search.NewService(engine, search.NewStoreSearcher(docStore))))

	if cnf.S3.Endpoint != "" {
		files, err := storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cnf.S3.Endpoint,
			AccessKey: cnf.S3.AccessKey,
			SecretKey: cnf.S3.SecretKey,
			Bucket:    cnf.S3.Bucket,
			UseSSL:    cnf.S3.UseSSL,
		})
		if err != nil {
			_ = broker.Close()
			if engine != nil {
				engine.Close()
			}
			app.Close()
			return nil, err
		}
		opts = append(opts, service.WithFileStore(files))
	}

	app.Service = service.NewDocumentService(codec, docStore, opts...)
	// the service closes the broker and the search engine
	app.closers = append([]func() error{app.Service.Close}, app.closers...)

	return app, nil
}

func verifier(ctx context.Context, cnf config.AuthConfig) (auth.Verifier, error) {
	switch {
	case cnf.JWKSURL != "":
		return auth.NewJWKSVerifier(ctx, cnf.JWKSURL)
	case cnf.JWTSecret != "":
		return auth.NewSecretVerifier([]byte(cnf.JWTSecret)), nil
	default:
		return auth.NopVerifier{}, nil
	}
}

// Close releases the backends in reverse order of dependency.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil

	return errors.Join(errs...)
}
