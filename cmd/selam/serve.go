package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selam/internal/content"
	"selam/internal/db"
	"selam/internal/mailer"
	"selam/internal/server"
	"selam/internal/storage"
	"selam/internal/store/local"
	mongostore "selam/internal/store/mongo"
	"selam/internal/store/postgres"
	"selam/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if config.Environment == "development" {
		pp.Println(config.Environment, config.StorageBackend, config.DataDir)
	}

	stores, err := buildStores(ctx, config, logger)
	if err != nil {
		return err
	}
	defer stores.close()

	blobs, err := buildBlobStorage(ctx, config)
	if err != nil {
		return err
	}

	media := storage.NewCloudinary(
		config.CloudinaryCloudName,
		config.CloudinaryAPIKey,
		config.CloudinaryAPISecret,
		time.Duration(config.UploadTimeoutSec)*time.Second,
	)

	srv, err := server.New(
		config,
		logger,
		stores.documents,
		stores.updates,
		stores.applications,
		blobs,
		media,
		mailer.New(config),
		stores.checkPrimary,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// stores bundles the per-kind coordinators plus the primary's lifecycle,
// so serve and seed share one wiring path.
type stores struct {
	documents    *content.Coordinator[*types.Document, types.DocumentPatch]
	updates      *content.Coordinator[*types.Update, types.UpdatePatch]
	applications *content.Coordinator[*types.Application, types.ApplicationPatch]
	checkPrimary func(context.Context) error
	close        func()
}

func buildStores(ctx context.Context, config *types.Config, logger *logrus.Logger) (*stores, error) {
	queryTimeout := time.Duration(config.QueryTimeoutSec) * time.Second

	documentsLocal := local.New[types.Document, types.DocumentPatch](config.DataDir, "documents", logger)
	updatesLocal := local.New[types.Update, types.UpdatePatch](config.DataDir, "updates", logger)
	applicationsLocal := local.New[types.Application, types.ApplicationPatch](config.DataDir, "applications", logger)

	var (
		documentsPrimary    content.PrimaryStore[*types.Document, types.DocumentPatch]
		updatesPrimary      content.PrimaryStore[*types.Update, types.UpdatePatch]
		applicationsPrimary content.PrimaryStore[*types.Application, types.ApplicationPatch]
		checkPrimary        func(context.Context) error
		closer              = func() {}
	)

	switch {
	case config.MongoURI != "":
		client, err := db.ConnectMongo(ctx, config)
		if err != nil {
			return nil, err
		}

		mdb := client.Database(config.MongoDatabase)
		documentsPrimary = mongostore.NewStore[types.Document, types.DocumentPatch](mdb, "documents")
		updatesPrimary = mongostore.NewStore[types.Update, types.UpdatePatch](mdb, "updates")
		applicationsPrimary = mongostore.NewStore[types.Application, types.ApplicationPatch](mdb, "applications")

		checkPrimary = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		closer = func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.WithError(err).Warn("mongo disconnect failed")
			}
		}

		warnIfUnreachable(ctx, checkPrimary, queryTimeout, logger, "mongo")

	case config.DatabaseURL != "":
		pool, err := db.ConnectPostgres(ctx, config)
		if err != nil {
			return nil, err
		}

		documentsPrimary = postgres.NewDocumentRepository(pool)
		updatesPrimary = postgres.NewUpdateRepository(pool)
		applicationsPrimary = postgres.NewApplicationRepository(pool)

		checkPrimary = pool.Ping
		closer = pool.Close

		warnIfUnreachable(ctx, checkPrimary, queryTimeout, logger, "postgres")

	default:
		logger.Warn("no primary database configured, serving from local file store only")
	}

	return &stores{
		documents:    content.NewCoordinator("documents", documentsPrimary, documentsLocal, logger, queryTimeout),
		updates:      content.NewCoordinator("updates", updatesPrimary, updatesLocal, logger, queryTimeout),
		applications: content.NewCoordinator("applications", applicationsPrimary, applicationsLocal, logger, queryTimeout),
		checkPrimary: checkPrimary,
		close:        closer,
	}, nil
}

// warnIfUnreachable pings the primary at startup. An unreachable primary
// is not fatal; the coordinators fall back to the local store per call.
func warnIfUnreachable(ctx context.Context, ping func(context.Context) error, timeout time.Duration, logger *logrus.Logger, name string) {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ping(pingCtx); err != nil {
		logger.WithError(err).Warnf("%s unreachable at startup, writes will fall back to the local store", name)
	}
}

func buildBlobStorage(ctx context.Context, config *types.Config) (storage.Blob, error) {
	if config.StorageBackend == "s3" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}

		return storage.NewS3Storage(s3.NewFromConfig(awsConfig), config.S3Bucket, config.S3PublicBaseURL), nil
	}

	return storage.NewDiskStorage(config.UploadsDir), nil
}
