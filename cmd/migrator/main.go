package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/lighthouse-migrator/internal/config"
	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/internal/observability"
	"github.com/spec-kit/lighthouse-migrator/internal/repository"
	"github.com/spec-kit/lighthouse-migrator/internal/service"
	"github.com/spec-kit/lighthouse-migrator/internal/storage"
	"github.com/spec-kit/lighthouse-migrator/internal/translate"
	"github.com/spec-kit/lighthouse-migrator/internal/worker"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "migrator",
		Short:   "Lighthouse to Jira issue migration tool",
		Long:    `Converts a Lighthouse ticket export into a Jira import document, migrating attachments to S3.`,
		Version: version,
	}
	rootCmd.AddCommand(newConvertCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConvertCommand() *cobra.Command {
	var (
		exportDir string
		resultDir string
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Run a full conversion of the export tree",
		Run: func(cmd *cobra.Command, args []string) {
			runConvert(exportDir, resultDir)
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "export directory (overrides EXPORT_DIR)")
	cmd.Flags().StringVar(&resultDir, "result-dir", "", "result directory (overrides RESULT_DIR)")
	return cmd
}

func runConvert(exportDir, resultDir string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if exportDir != "" {
		cfg.Export.Directory = exportDir
	}
	if resultDir != "" {
		cfg.Result.Directory = resultDir
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	ctx := context.Background()
	if deadline := cfg.Upload.RunDeadline(); deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	userMap, err := config.LoadUserMap(cfg.Users.MapFile)
	if err != nil {
		logger.Fatal("failed to load user map", zap.Error(err))
	}
	priorityMap, err := config.LoadPriorityMap(cfg.Mapping.PriorityMapFile)
	if err != nil {
		logger.Fatal("failed to load priority map", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	report := service.NewReportService(dispatcher, logger, observability.NewMetrics())
	report.RegisterHandlers()

	uploader, err := storage.NewS3Uploader(ctx, cfg.Storage, cfg.Upload.RetryMaxElapsed(), logger)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	users, err := translate.NewUserResolver(userMap, dispatcher)
	if err != nil {
		logger.Fatal("failed to init user resolver", zap.Error(err))
	}
	mapper := translate.NewPriorityStatusMapper(priorityMap)
	pool := worker.NewUploadPool(cfg.Upload.Workers)

	conversion := service.NewConversionService(service.ConversionDependencies{
		ExportRepo:  repository.NewExportRepository(cfg.Export.Directory, logger),
		ResultRepo:  repository.NewResultRepository(cfg.Result, logger),
		Users:       users,
		Mapper:      mapper,
		Differ:      translate.NewVersionHistoryDiffer(users, mapper, dispatcher),
		Comments:    translate.NewCommentExtractor(users, cfg.Mapping.RepositoryURL),
		Attachments: translate.NewAttachmentMigrator(users, uploader, pool, dispatcher, cfg.Upload.UploadTimeout()),
		Dispatcher:  dispatcher,
		Logger:      logger,
		Project:     cfg.Project,
	})

	path, err := conversion.Run(ctx)
	if err != nil {
		logger.Fatal("conversion failed", zap.Error(err))
	}
	logger.Info("conversion succeeded", zap.String("result", path))
}
