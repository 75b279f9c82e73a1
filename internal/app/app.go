package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/database"
	"github.com/Waypost/waypost/internal/domain"
	httpHandler "github.com/Waypost/waypost/internal/http"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/internal/repository"
	"github.com/Waypost/waypost/internal/service"
	"github.com/Waypost/waypost/internal/service/dispatch"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/mailer"
	"github.com/Waypost/waypost/pkg/storage"
	"github.com/Waypost/waypost/pkg/tracing"

	"contrib.go.opencensus.io/integrations/ocsql"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetMailer() mailer.Mailer

	// Repository getters for testing
	GetWorkspaceRepository() domain.WorkspaceRepository
	GetContactRepository() domain.ContactRepository
	GetMessageRepository() domain.MessageRepository
	GetTemplateRepository() domain.TemplateRepository
	GetCampaignRepository() domain.CampaignRepository
	GetWebhookLogRepository() domain.WebhookLogRepository
	GetWebhookJobRepository() domain.WebhookJobRepository

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitDB() error
	InitRedis() error
	InitMailer() error
	InitTracing() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config      *config.Config
	logger      logger.Logger
	db          *sql.DB
	redisClient redis.UniversalClient
	mailer      mailer.Mailer
	eventBus    domain.EventBus

	// Repositories
	workspaceRepo    domain.WorkspaceRepository
	apiKeyRepo       domain.APIKeyRepository
	taskRepo         domain.TaskRepository
	webhookLogRepo   domain.WebhookLogRepository
	webhookJobRepo   domain.WebhookJobRepository
	contactRepo      domain.ContactRepository
	timelineRepo     domain.ContactTimelineRepository
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	templateRepo     domain.TemplateRepository
	campaignRepo     domain.CampaignRepository
	usageRepo        domain.UsageLedgerRepository
	autoReplyRepo    domain.AutoReplyRepository
	killSwitchRepo   domain.KillSwitchRepository
	subscriptionRepo domain.WebhookSubscriptionRepository
	deliveryRepo     domain.WebhookDeliveryRepository
	replayGuard      domain.ReplayGuard
	globalSwitch     domain.GlobalSwitchStore

	// Services
	authService         *service.AuthService
	bspClient           *service.BSPClient
	workspaceService    *service.WorkspaceService
	routerService       *service.TenantRouterService
	rateLimitService    *service.RateLimitService
	contactService      *service.ContactService
	conversationService *service.ConversationService
	messageService      *service.MessageService
	ingestService       *service.IngestService
	statusService       *service.StatusService
	templateService     *service.TemplateService
	accountService      *service.AccountService
	killSwitchService   *service.KillSwitchService
	campaignService     *service.CampaignService
	taskService         *service.TaskService
	mediaService        *service.MediaService
	ingressService      *service.WebhookIngressService
	deliveryService     *service.WebhookDeliveryService
	subscriptionService *service.WebhookSubscriptionService
	dispatcher          *dispatch.Dispatcher

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	workerWg        sync.WaitGroup
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMockRedis configures the app to use a preconnected Redis client
func WithMockRedis(client redis.UniversalClient) AppOption {
	return func(a *App) {
		a.redisClient = client
	}
}

// WithMockMailer configures the app to use a mock mailer
func WithMockMailer(m mailer.Mailer) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		exporter := tracingConfig.TraceExporter
		if exporter == "" {
			exporter = "jaeger"
		}

		metricsExporter := tracingConfig.MetricsExporter
		if metricsExporter == "" {
			metricsExporter = "prometheus"
		}

		a.logger.WithField("trace_exporter", exporter).
			WithField("metrics_exporter", metricsExporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB ensures the system database exists, connects to it and applies the
// schema. Per-workspace databases are created lazily when workspaces are.
func (a *App) InitDB() error {
	if a.db != nil {
		// Preconnected by a mock; nothing to do.
		return nil
	}

	a.logger.WithField("host", a.config.Database.Host).
		WithField("port", a.config.Database.Port).
		WithField("dbname", a.config.Database.DBName).
		WithField("sslmode", a.config.Database.SSLMode).
		Info("Connecting to system database")

	if err := database.EnsureSystemDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
		a.logger.Error(err.Error())
		return fmt.Errorf("failed to ensure system database exists: %w", err)
	}

	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	db, err := sql.Open(driverName, database.GetSystemDSN(&a.config.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to system database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping system database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	maxOpen, maxIdle, maxLifetime := database.GetConnectionPoolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	a.db = db
	return nil
}

// InitRedis connects the Redis client used by the replay guard and the
// global kill switch.
func (a *App) InitRedis() error {
	if a.redisClient != nil {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis at %s: %w", a.config.Redis.Addr, err)
	}

	a.redisClient = client
	a.logger.WithField("addr", a.config.Redis.Addr).Info("Connected to Redis")
	return nil
}

// InitMailer initializes the operator alert mailer
func (a *App) InitMailer() error {
	if a.mailer != nil {
		return nil
	}

	mailerConfig := &mailer.Config{
		SMTPHost:     a.config.SMTP.Host,
		SMTPPort:     a.config.SMTP.Port,
		SMTPUsername: a.config.SMTP.Username,
		SMTPPassword: a.config.SMTP.Password,
		FromEmail:    a.config.SMTP.FromEmail,
		FromName:     a.config.SMTP.FromName,
	}

	if a.config.IsDevelopment() {
		// Test mode logs alerts instead of dialing SMTP.
		a.mailer = mailer.NewTestSMTPMailer(mailerConfig)
		a.logger.Info("Using log-only mailer for development")
	} else {
		a.mailer = mailer.NewSMTPMailer(mailerConfig)
		a.logger.Info("Using SMTP mailer for alerts")
	}

	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}
	if a.redisClient == nil {
		return fmt.Errorf("redis must be initialized before repositories")
	}

	a.workspaceRepo = repository.NewWorkspaceRepository(a.db, &a.config.Database)
	a.apiKeyRepo = repository.NewAPIKeyRepository(a.db)
	a.taskRepo = repository.NewTaskRepository(a.db)
	a.webhookLogRepo = repository.NewWebhookLogRepository(a.db)
	a.webhookJobRepo = repository.NewWebhookJobRepository(a.db)

	a.contactRepo = repository.NewContactRepository(a.workspaceRepo)
	a.timelineRepo = repository.NewContactTimelineRepository(a.workspaceRepo)
	a.conversationRepo = repository.NewConversationRepository(a.workspaceRepo)
	a.messageRepo = repository.NewMessageRepository(a.workspaceRepo)
	a.templateRepo = repository.NewTemplateRepository(a.workspaceRepo)
	a.campaignRepo = repository.NewCampaignRepository(a.workspaceRepo)
	a.usageRepo = repository.NewUsageLedgerRepository(a.workspaceRepo)
	a.autoReplyRepo = repository.NewAutoReplyRepository(a.workspaceRepo)
	a.killSwitchRepo = repository.NewKillSwitchRepository(a.workspaceRepo)
	a.subscriptionRepo = repository.NewWebhookSubscriptionRepository(a.workspaceRepo)
	a.deliveryRepo = repository.NewWebhookDeliveryRepository(a.workspaceRepo)

	a.replayGuard = repository.NewRedisReplayGuard(a.redisClient)
	a.globalSwitch = repository.NewRedisGlobalSwitchStore(a.redisClient)

	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	a.eventBus = domain.NewInMemoryEventBus()

	a.authService = service.NewAuthService(a.apiKeyRepo, a.config.Security.SecretKey, a.logger)
	a.bspClient = service.NewBSPClient(&a.config.BSP, a.logger)
	a.routerService = service.NewTenantRouterService(a.workspaceRepo, a.logger)
	a.workspaceService = service.NewWorkspaceService(a.workspaceRepo, a.routerService, a.logger)
	a.rateLimitService = service.NewRateLimitService(a.logger)

	a.contactService = service.NewContactService(
		a.contactRepo,
		a.timelineRepo,
		a.eventBus,
		a.logger,
		a.config.BSP.DefaultCountryCode,
	)
	a.conversationService = service.NewConversationService(a.conversationRepo, a.eventBus, a.logger)

	store, err := a.buildMediaStore()
	if err != nil {
		return err
	}
	a.mediaService = service.NewMediaService(a.bspClient, store, a.logger)

	a.messageService = service.NewMessageService(
		a.workspaceRepo,
		a.messageRepo,
		a.templateRepo,
		a.contactRepo,
		a.campaignRepo,
		a.usageRepo,
		a.conversationService,
		a.rateLimitService,
		a.bspClient,
		a.eventBus,
		a.mailer,
		a.logger,
		a.config.BSP.DefaultCountryCode,
		a.config.BSP.MessageEncryption,
		a.config.Security.SecretKey,
	)

	a.ingestService = service.NewIngestService(
		a.contactService,
		a.conversationService,
		a.messageRepo,
		a.autoReplyRepo,
		a.templateRepo,
		a.usageRepo,
		a.mediaService,
		a.bspClient,
		a.eventBus,
		a.logger,
	)

	a.templateService = service.NewTemplateService(
		a.workspaceRepo,
		a.templateRepo,
		a.bspClient,
		a.rateLimitService,
		a.eventBus,
		a.logger,
		a.config.BSP.ParentWABAID,
	)

	a.killSwitchService = service.NewKillSwitchService(
		a.workspaceRepo,
		a.campaignRepo,
		a.killSwitchRepo,
		a.taskRepo,
		a.globalSwitch,
		a.eventBus,
		a.mailer,
		a.logger,
	)

	a.accountService = service.NewAccountService(a.workspaceRepo, a.killSwitchService, a.logger)

	a.taskService = service.NewTaskService(a.taskRepo, a.logger)

	a.campaignService = service.NewCampaignService(
		a.workspaceRepo,
		a.campaignRepo,
		a.templateRepo,
		a.taskRepo,
		a.taskService,
		a.killSwitchService,
		a.eventBus,
		a.logger,
	)

	a.statusService = service.NewStatusService(a.messageRepo, a.campaignService, a.eventBus, a.logger)

	// Task processors: campaign batches and workspace health sync.
	campaignProcessor := service.NewCampaignTaskProcessor(
		a.workspaceRepo,
		a.campaignRepo,
		a.templateRepo,
		a.contactRepo,
		a.messageService,
		a.killSwitchService,
		a.eventBus,
		a.logger,
	)
	healthProcessor := service.NewHealthSyncProcessor(
		a.workspaceRepo,
		a.bspClient,
		a.accountService,
		a.taskService,
		a.logger,
		a.config.BSP.ParentWABAID,
	)
	a.taskService.RegisterProcessor(campaignProcessor)
	a.taskService.RegisterProcessor(healthProcessor)
	a.taskService.SubscribeToCampaignEvents(a.eventBus)

	a.ingressService = service.NewWebhookIngressService(
		a.webhookLogRepo,
		a.webhookJobRepo,
		a.replayGuard,
		a.config,
		a.logger,
	)

	a.subscriptionService = service.NewWebhookSubscriptionService(a.subscriptionRepo, a.deliveryRepo, a.logger)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if a.config.Tracing.Enabled {
		httpClient = tracing.WrapHTTPClient(httpClient)
		a.logger.Info("HTTP client wrapped with OpenCensus tracing")
	}
	a.deliveryService = service.NewWebhookDeliveryService(
		a.subscriptionRepo,
		a.deliveryRepo,
		a.workspaceRepo,
		httpClient,
		a.logger,
	)
	a.deliveryService.SubscribeToEvents(a.eventBus)

	a.dispatcher = dispatch.NewDispatcher(
		a.webhookJobRepo,
		a.webhookLogRepo,
		a.routerService,
		a.ingestService,
		a.statusService,
		a.templateService,
		a.accountService,
		dispatch.DefaultDispatcherConfig(),
		a.logger,
	)

	return nil
}

// buildMediaStore picks the media file store from configuration.
func (a *App) buildMediaStore() (storage.FileStore, error) {
	if a.config.Media.StorageDriver == "s3" {
		store, err := storage.NewS3Store(
			a.config.Media.S3Region,
			a.config.Media.S3AccessKey,
			a.config.Media.S3SecretKey,
			a.config.Media.S3Bucket,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 media store: %w", err)
		}
		a.logger.WithField("bucket", a.config.Media.S3Bucket).Info("Using S3 media storage")
		return store, nil
	}

	a.logger.WithField("root", a.config.Media.Root).Info("Using local media storage")
	return storage.NewLocalStore(a.config.Media.Root), nil
}

// InitHandlers initializes all HTTP handlers and routes
func (a *App) InitHandlers() error {
	// Fresh mux so restarts don't trip duplicate route registration.
	a.mux = http.NewServeMux()

	rootHandler := httpHandler.NewRootHandler(a.db, a.logger, a.config.Version)
	webhookHandler := httpHandler.NewWebhookHandler(a.ingressService, a.logger)
	authHandler := httpHandler.NewAuthHandler(a.authService, a.logger)
	workspaceHandler := httpHandler.NewWorkspaceHandler(
		a.workspaceService,
		a.killSwitchService,
		a.rateLimitService,
		a.authService,
		a.logger,
	)
	messageHandler := httpHandler.NewMessageHandler(a.messageService, a.authService, a.logger)
	conversationHandler := httpHandler.NewConversationHandler(a.conversationService, a.authService, a.logger)
	contactHandler := httpHandler.NewContactHandler(a.contactService, a.authService, a.logger)
	templateHandler := httpHandler.NewTemplateHandler(a.templateService, a.authService, a.logger)
	campaignHandler := httpHandler.NewCampaignHandler(a.campaignService, a.authService, a.logger)
	killSwitchHandler := httpHandler.NewKillSwitchHandler(a.killSwitchService, a.authService, a.logger)
	webhookLogHandler := httpHandler.NewWebhookLogHandler(a.webhookLogRepo, a.authService, a.logger)
	subscriptionHandler := httpHandler.NewWebhookSubscriptionHandler(a.subscriptionService, a.authService, a.logger)
	taskHandler := httpHandler.NewTaskHandler(a.taskService, a.authService, a.logger, a.config.Security.CronSecret)

	rootHandler.RegisterRoutes(a.mux)
	webhookHandler.RegisterRoutes(a.mux)
	authHandler.RegisterRoutes(a.mux)
	workspaceHandler.RegisterRoutes(a.mux)
	messageHandler.RegisterRoutes(a.mux)
	conversationHandler.RegisterRoutes(a.mux)
	contactHandler.RegisterRoutes(a.mux)
	templateHandler.RegisterRoutes(a.mux)
	campaignHandler.RegisterRoutes(a.mux)
	killSwitchHandler.RegisterRoutes(a.mux)
	webhookLogHandler.RegisterRoutes(a.mux)
	subscriptionHandler.RegisterRoutes(a.mux)
	taskHandler.RegisterRoutes(a.mux)

	return nil
}

// startWorkers launches the queue dispatcher and the webhook delivery loop.
// Both stop when the shutdown context is cancelled.
func (a *App) startWorkers() error {
	if a.dispatcher != nil {
		if err := a.dispatcher.Start(a.shutdownCtx); err != nil {
			return fmt.Errorf("failed to start dispatcher: %w", err)
		}
		a.logger.Info("Webhook dispatcher started")
	}

	if a.deliveryService != nil {
		a.workerWg.Add(1)
		go func() {
			defer a.workerWg.Done()
			a.deliveryService.Start(a.shutdownCtx)
		}()
		a.logger.Info("Webhook delivery worker started")
	}

	return nil
}

// Start starts the background workers and the HTTP server
func (a *App) Start() error {
	var handler http.Handler = a.mux

	// Graceful shutdown middleware is outermost so every request is counted.
	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
		a.logger.Info("OpenCensus tracing middleware enabled")
	}

	handler = middleware.CORSMiddleware(handler)

	if err := a.startWorkers(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).
		WithField("version", a.config.Version).
		Info("Server starting")

	a.serverMu.Lock()
	if a.serverStarted != nil {
		close(a.serverStarted)
	}
	a.serverStarted = make(chan struct{})

	a.server = &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	if a.config.Server.SSL.Enabled {
		a.logger.WithField("cert_file", a.config.Server.SSL.CertFile).Info("SSL enabled")
		return a.server.ListenAndServeTLS(a.config.Server.SSL.CertFile, a.config.Server.SSL.KeyFile)
	}

	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and workers
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	// Cancelling the shutdown context stops the delivery worker and tells the
	// request middleware to refuse new work.
	a.shutdownCancel()

	if a.dispatcher != nil && a.dispatcher.IsRunning() {
		a.dispatcher.Stop()
		a.logger.Info("Webhook dispatcher stopped")
	}

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		a.workerWg.Wait()
		return a.cleanupResources(ctx)
	}

	activeCount := a.getActiveRequestCount()
	a.logger.WithField("active_requests", activeCount).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	serverShutdownDone := make(chan error, 1)
	go func() {
		a.logger.WithField("timeout", shutdownTimeout).Info("Starting HTTP server shutdown")
		serverShutdownDone <- server.Shutdown(shutdownCtx)
	}()

	requestsDone := make(chan struct{}, 1)
	go func() {
		defer close(requestsDone)

		a.logger.Info("Waiting for active requests to complete...")
		done := make(chan struct{})

		go func() {
			a.requestWg.Wait()
			close(done)
		}()

		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				a.logger.Info("All requests completed")
				return
			case <-ticker.C:
				activeCount := a.getActiveRequestCount()
				a.logger.WithField("active_requests", activeCount).Info("Still waiting for requests to complete...")
			case <-shutdownCtx.Done():
				activeCount := a.getActiveRequestCount()
				a.logger.WithField("active_requests", activeCount).Warn("Shutdown timeout reached, forcing shutdown")
				return
			}
		}
	}()

	var shutdownErr error

	select {
	case err := <-serverShutdownDone:
		shutdownErr = err
		a.logger.Info("HTTP server shutdown completed")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached")
		shutdownErr = fmt.Errorf("shutdown timeout exceeded")
	}

	if shutdownErr == nil {
		select {
		case <-requestsDone:
		case <-time.After(2 * time.Second):
			activeCount := a.getActiveRequestCount()
			if activeCount > 0 {
				a.logger.WithField("active_requests", activeCount).Warn("Some requests still active, proceeding with shutdown")
			}
		}
	}

	a.workerWg.Wait()

	if cleanupErr := a.cleanupResources(ctx); cleanupErr != nil {
		a.logger.WithField("error", cleanupErr).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = cleanupErr
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

// cleanupResources closes the database, Redis and the rate limiter
func (a *App) cleanupResources(ctx context.Context) error {
	a.logger.Info("Cleaning up resources...")

	if a.rateLimitService != nil {
		a.rateLimitService.Stop()
	}

	var firstErr error

	if a.redisClient != nil {
		a.logger.Info("Closing Redis connection")
		if err := a.redisClient.Close(); err != nil {
			a.logger.WithField("error", err).Error("Error closing Redis connection")
			firstErr = err
		}
	}

	if a.db != nil {
		if a.config.Tracing.Enabled {
			if err := ocsql.RecordStats(a.db, 5*time.Second); err != nil {
				a.logger.WithField("error", err).Error("Failed to record final database stats for tracing")
			}
		}

		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err).Error("Error closing database connection")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("Resource cleanup completed")
	return firstErr
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created and initialized.
// Returns true if the server started successfully, false if context expired.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		a.logger.Error("serverStarted channel is nil - server initialization error")
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting Waypost gateway")

	if err := a.InitTracing(); err != nil {
		return err
	}

	if err := a.InitDB(); err != nil {
		return err
	}

	if err := a.InitRedis(); err != nil {
		return err
	}

	if err := a.InitMailer(); err != nil {
		return err
	}

	if err := a.InitRepositories(); err != nil {
		return err
	}

	if err := a.InitServices(); err != nil {
		return err
	}

	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

// GetConfig returns the app's configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the app's logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the app's HTTP multiplexer
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the app's system database connection
func (a *App) GetDB() *sql.DB {
	return a.db
}

// GetMailer returns the app's mailer
func (a *App) GetMailer() mailer.Mailer {
	return a.mailer
}

// Repository getters for testing
func (a *App) GetWorkspaceRepository() domain.WorkspaceRepository {
	return a.workspaceRepo
}

func (a *App) GetContactRepository() domain.ContactRepository {
	return a.contactRepo
}

func (a *App) GetMessageRepository() domain.MessageRepository {
	return a.messageRepo
}

func (a *App) GetTemplateRepository() domain.TemplateRepository {
	return a.templateRepo
}

func (a *App) GetCampaignRepository() domain.CampaignRepository {
	return a.campaignRepo
}

func (a *App) GetWebhookLogRepository() domain.WebhookLogRepository {
	return a.webhookLogRepo
}

func (a *App) GetWebhookJobRepository() domain.WebhookJobRepository {
	return a.webhookJobRepo
}

// incrementActiveRequests atomically increments the active request counter
func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

// decrementActiveRequests atomically decrements the active request counter
func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

// getActiveRequestCount returns the current number of active requests
func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
	a.logger.WithField("shutdown_timeout", timeout).Info("Shutdown timeout configured")
}

// GetShutdownContext returns the shutdown context for components that need to
// watch for shutdown
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

// isShuttingDown returns true if the application is in shutdown mode
func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware wraps HTTP handlers to track active requests
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}
