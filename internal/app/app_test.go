package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/mailer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 18090,
		},
		Security: config.SecurityConfig{
			SecretKey: "test-secret-key-32-bytes-long!!!",
		},
		BSP: config.BSPConfig{
			ParentWABAID:       "waba-test",
			SystemToken:        "token-test",
			WebhookVerifyToken: "verify-test",
			AppSecret:          "app-secret",
			DefaultCountryCode: "91",
			ReplayTTLSeconds:   300,
		},
		Media: config.MediaConfig{
			StorageDriver: "local",
			Root:          t.TempDir(),
		},
		Environment: "development",
		LogLevel:    "error",
		Version:     "test",
	}
}

// newMockedApp builds an app wired against sqlmock and miniredis so the init
// sequence can run without real infrastructure.
func newMockedApp(t *testing.T) (*App, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	a := NewApp(testConfig(t),
		WithLogger(logger.NewTestLogger(t)),
		WithMockDB(mockDB),
		WithMockRedis(redisClient),
	).(*App)

	return a, dbMock
}

func TestNewAppDefaults(t *testing.T) {
	cfg := testConfig(t)
	a := NewApp(cfg).(*App)

	assert.Same(t, cfg, a.GetConfig())
	assert.NotNil(t, a.GetLogger())
	assert.NotNil(t, a.GetMux())
	assert.Nil(t, a.GetDB())
	assert.Equal(t, 60*time.Second, a.shutdownTimeout)
	assert.NotNil(t, a.GetShutdownContext())
	assert.False(t, a.isShuttingDown())
	assert.Zero(t, a.GetActiveRequestCount())
}

func TestAppOptions(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	testLogger := logger.NewTestLogger(t)
	testMailer := mailer.NewTestSMTPMailer(&mailer.Config{})

	a := NewApp(testConfig(t),
		WithLogger(testLogger),
		WithMockDB(mockDB),
		WithMockRedis(redisClient),
		WithMockMailer(testMailer),
	).(*App)

	assert.Same(t, mockDB, a.GetDB())
	assert.Same(t, testLogger, a.GetLogger())
	assert.Same(t, testMailer, a.GetMailer())
	assert.NotNil(t, a.redisClient)
}

func TestInitRepositoriesRequiresDB(t *testing.T) {
	a := NewApp(testConfig(t), WithLogger(logger.NewTestLogger(t))).(*App)

	err := a.InitRepositories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database must be initialized")
}

func TestInitRepositoriesRequiresRedis(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	a := NewApp(testConfig(t),
		WithLogger(logger.NewTestLogger(t)),
		WithMockDB(mockDB),
	).(*App)

	err = a.InitRepositories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis must be initialized")
}

func TestInitMailerDevelopment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Environment = "development"
	a := NewApp(cfg, WithLogger(logger.NewTestLogger(t))).(*App)

	require.NoError(t, a.InitMailer())
	require.NotNil(t, a.GetMailer())

	smtpMailer, ok := a.GetMailer().(*mailer.SMTPMailer)
	require.True(t, ok)
	// A development mailer must never dial SMTP.
	assert.NoError(t, smtpMailer.SendTokenExpiredAlert("ops@example.com", "acme"))
}

func TestInitMailerSkipsWhenMocked(t *testing.T) {
	testMailer := mailer.NewTestSMTPMailer(&mailer.Config{})
	a := NewApp(testConfig(t),
		WithLogger(logger.NewTestLogger(t)),
		WithMockMailer(testMailer),
	).(*App)

	require.NoError(t, a.InitMailer())
	assert.Same(t, testMailer, a.GetMailer())
}

func TestInitializeWithMocks(t *testing.T) {
	a, _ := newMockedApp(t)

	require.NoError(t, a.Initialize())

	assert.NotNil(t, a.GetWorkspaceRepository())
	assert.NotNil(t, a.GetContactRepository())
	assert.NotNil(t, a.GetMessageRepository())
	assert.NotNil(t, a.GetTemplateRepository())
	assert.NotNil(t, a.GetCampaignRepository())
	assert.NotNil(t, a.GetWebhookLogRepository())
	assert.NotNil(t, a.GetWebhookJobRepository())
	assert.NotNil(t, a.dispatcher)
	assert.NotNil(t, a.deliveryService)
	assert.NotNil(t, a.eventBus)
}

func TestInitHandlersRegistersRoutes(t *testing.T) {
	a, _ := newMockedApp(t)
	require.NoError(t, a.Initialize())

	t.Run("health endpoint responds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		a.GetMux().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("api routes require auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks.list?workspace_id=ws1", nil)
		rec := httptest.NewRecorder()
		a.GetMux().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		a.GetMux().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGracefulShutdownMiddlewareCountsRequests(t *testing.T) {
	a, _ := newMockedApp(t)

	var observed int64
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observed = a.GetActiveRequestCount()
		w.WriteHeader(http.StatusOK)
	})

	handler := a.gracefulShutdownMiddleware(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), observed)
	assert.Zero(t, a.GetActiveRequestCount())
}

func TestGracefulShutdownMiddlewareRejectsDuringShutdown(t *testing.T) {
	a, _ := newMockedApp(t)

	handler := a.gracefulShutdownMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run during shutdown")
	}))

	a.shutdownCancel()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "shutting down")
}

func TestWaitForServerStartTimeout(t *testing.T) {
	a, _ := newMockedApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.False(t, a.WaitForServerStart(ctx))
	assert.False(t, a.IsServerCreated())
}

func TestSetShutdownTimeout(t *testing.T) {
	a, _ := newMockedApp(t)

	a.SetShutdownTimeout(5 * time.Second)
	assert.Equal(t, 5*time.Second, a.shutdownTimeout)
}

func TestShutdownWithoutServer(t *testing.T) {
	a, _ := newMockedApp(t)
	require.NoError(t, a.Initialize())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, a.Shutdown(ctx))
	assert.True(t, a.isShuttingDown())
}

func TestStartAndShutdown(t *testing.T) {
	a, _ := newMockedApp(t)
	// Pick a port unlikely to collide with other tests.
	a.GetConfig().Server.Port = 18100 + (time.Now().Nanosecond() % 500)

	require.NoError(t, a.Initialize())

	serverError := make(chan error, 1)
	go func() {
		serverError <- a.Start()
	}()

	startCtx, startCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer startCancel()
	require.True(t, a.WaitForServerStart(startCtx))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, a.Shutdown(ctx))

	select {
	case err := <-serverError:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not exit after shutdown")
	}
}
