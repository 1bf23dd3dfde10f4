// Package container provides dependency injection and lifecycle management
// for the back office following Clean Architecture principles.
package container

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/application/service"
	"github.com/techvibe/backoffice/internal/config"
	"github.com/techvibe/backoffice/internal/domain/event"
	"github.com/techvibe/backoffice/internal/infrastructure/export"
	infraLark "github.com/techvibe/backoffice/internal/infrastructure/external/lark"
	"github.com/techvibe/backoffice/internal/infrastructure/external/openai"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/repository"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/sqlite"
	"github.com/techvibe/backoffice/internal/infrastructure/storage"
	"github.com/techvibe/backoffice/internal/infrastructure/worker"
	httpapi "github.com/techvibe/backoffice/internal/interfaces/http"
	"github.com/techvibe/backoffice/migrations"
	"github.com/techvibe/backoffice/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// ExternalBundle holds adapters for third-party APIs.
// Translator is nil when no OpenAI key is configured.
type ExternalBundle struct {
	LeadNotifier port.LeadNotifier
	Translator   port.Translator
}

// MigrationSource returns the configured migrations directory, or the embedded set.
func MigrationSource(cfg *config.DatabaseConfig) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return migrations.FS
}

// ProvideDatabase opens the database, applies pending migrations and wraps
// the pool in a transaction manager.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if _, err := database.NewMigrator(sqlDB, logger).Run(MigrationSource(cfg)); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		SqlDB:          sqlDB,
		TransactionMgr: sqlite.NewDB(sqlDB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Document:     repository.NewDocumentRepository(sqlDB, logger),
		LineItem:     repository.NewLineItemRepository(sqlDB, logger),
		Sequence:     repository.NewSequenceRepository(sqlDB, logger),
		Client:       repository.NewClientRepository(sqlDB, logger),
		Lead:         repository.NewLeadRepository(sqlDB, logger),
		Product:      repository.NewProductRepository(sqlDB, logger),
		Service:      repository.NewServiceRepository(sqlDB, logger),
		Payment:      repository.NewPaymentRepository(sqlDB, logger),
		BusinessInfo: repository.NewBusinessInfoRepository(sqlDB, logger),
	}, nil
}

// ProvideExternalClients creates the Lark lead notifier and the OpenAI translator.
func ProvideExternalClients(larkCfg *config.LarkConfig, openaiCfg *config.OpenAIConfig, logger *zap.Logger) (*ExternalBundle, error) {
	if larkCfg == nil || openaiCfg == nil {
		return nil, fmt.Errorf("lark and openai config are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	bundle := &ExternalBundle{
		LeadNotifier: infraLark.NewLeadNotifier(infraLark.Config{
			AppID:       larkCfg.AppID,
			AppSecret:   larkCfg.AppSecret,
			SalesChatID: larkCfg.SalesChatID,
		}, logger),
	}

	if openaiCfg.APIKey == "" {
		logger.Info("OpenAI API key not set, translation disabled")
		return bundle, nil
	}

	prompts, err := openai.LoadPrompts(openaiCfg.PromptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}
	bundle.Translator = openai.NewTranslator(openai.Config{
		APIKey:  openaiCfg.APIKey,
		BaseURL: openaiCfg.BaseURL,
		Model:   openaiCfg.Model,
		Timeout: openaiCfg.Timeout,
	}, prompts, logger)

	return bundle, nil
}

// ProvideStorage creates the export archive.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) (port.FileStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return storage.NewLocalFileStorage(cfg.ExportDir, logger), nil
}

// ProvideExporters returns every document renderer.
func ProvideExporters(logger *zap.Logger) []port.DocumentExporter {
	return []port.DocumentExporter{
		export.NewPDFExporter(logger),
		export.NewExcelExporter(logger),
	}
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(&zapLoggerAdapter{logger: logger.Named("dispatcher")}),
	), nil
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos         *RepositoryBundle
	TxManager     port.TransactionManager
	Dispatcher    dispatcher.Dispatcher
	External      *ExternalBundle
	Storage       port.FileStorage
	Exporters     []port.DocumentExporter
	VerifyBaseURL string
	Logger        *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if deps.External == nil {
		return nil, fmt.Errorf("external clients are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	documents := service.NewDocumentService(
		deps.Repos.Document,
		deps.Repos.LineItem,
		deps.Repos.Sequence,
		deps.TxManager,
		deps.Dispatcher,
		serviceLogger,
	)
	businessInfo := service.NewBusinessInfoService(deps.Repos.BusinessInfo, deps.Dispatcher, serviceLogger)

	return &ServiceBundle{
		Documents:    documents,
		Exports:      service.NewExportService(documents, businessInfo, deps.Exporters, deps.Storage, deps.VerifyBaseURL, serviceLogger),
		Clients:      service.NewClientService(deps.Repos.Client, serviceLogger),
		Leads:        service.NewLeadService(deps.Repos.Lead, deps.Dispatcher, serviceLogger),
		Catalog:      service.NewCatalogService(deps.Repos.Product, deps.Repos.Service, serviceLogger),
		BusinessInfo: businessInfo,
		Payments:     service.NewPaymentService(deps.Repos.Payment, documents, deps.Dispatcher, serviceLogger),
		Translation:  service.NewTranslationService(deps.External.Translator, serviceLogger),
	}, nil
}

// RegisterEventHandlers subscribes the services' reactions to domain events.
func RegisterEventHandlers(d dispatcher.Dispatcher, services *ServiceBundle, notifier port.LeadNotifier, logger *zap.Logger) {
	// synchronous: the next read after a save must see fresh settings
	d.SubscribeNamed(event.TypeBusinessInfoUpdated, "business-info-cache", services.BusinessInfo.InvalidationHandler())

	d.SubscribeNamed(event.TypeLeadReceived, "lark-sales", service.NewLeadNotificationHandler(
		notifier,
		&zapLoggerAdapter{logger: logger.Named("lead-notifier")},
	))

	activity := service.NewActivityLogHandler(&zapLoggerAdapter{logger: logger.Named("activity")})
	for _, typ := range service.ActivityEventTypes {
		d.SubscribeNamed(typ, "activity-log", activity)
	}
}

// ProvideWorkers builds the scheduled jobs and registers them with a worker manager.
func ProvideWorkers(cfg *config.WorkerConfig, services *ServiceBundle, logger *zap.Logger) (*worker.WorkerManager, *worker.CronWorker, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("worker config is required")
	}
	if services == nil {
		return nil, nil, fmt.Errorf("services are required")
	}
	if logger == nil {
		return nil, nil, fmt.Errorf("logger is required")
	}

	var jobs []worker.Job
	if cfg.BusinessInfoRefresh != "" {
		jobs = append(jobs, worker.Job{
			Name:     JobBusinessInfoRefresh,
			Schedule: cfg.BusinessInfoRefresh,
			Timeout:  cfg.JobTimeout,
			Run:      services.BusinessInfo.Refresh,
		})
	}
	if cfg.OverdueSweep.Enabled {
		jobs = append(jobs, worker.Job{
			Name:     JobOverdueSweep,
			Schedule: cfg.OverdueSweep.Schedule,
			Timeout:  cfg.JobTimeout,
			Run:      overdueSweep(services.Documents, logger),
		})
	}

	manager := worker.NewWorkerManager(logger)
	if len(jobs) == 0 {
		return manager, nil, nil
	}

	cronWorker, err := worker.NewCronWorker(jobs, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cron worker: %w", err)
	}
	manager.Register(cronWorker)

	return manager, cronWorker, nil
}

// Scheduled job names
const (
	JobBusinessInfoRefresh = "business-info-refresh"
	JobOverdueSweep        = "overdue-sweep"
)

func overdueSweep(documents service.DocumentService, logger *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := documents.SweepOverdue(ctx, time.Now())
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("Marked invoices overdue", zap.Int("count", n))
		}
		return nil
	}
}

// ProvideHTTPServer creates the HTTP server around the services.
func ProvideHTTPServer(cfg *config.Config, services *ServiceBundle, pinger httpapi.Pinger, version string, logger *zap.Logger) *httpapi.Server {
	serverCfg := httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Site.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		Version:        version,
	}

	return httpapi.NewServer(serverCfg, httpapi.Services{
		Documents:    services.Documents,
		Exports:      services.Exports,
		Clients:      services.Clients,
		Leads:        services.Leads,
		Catalog:      services.Catalog,
		BusinessInfo: services.BusinessInfo,
		Payments:     services.Payments,
		Translation:  services.Translation,
	}, pinger, &zapLoggerAdapter{logger: logger.Named("http")})
}
