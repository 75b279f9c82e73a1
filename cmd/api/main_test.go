package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/app"
	"github.com/Waypost/waypost/pkg/logger"
)

func createTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 18080 + (time.Now().Nanosecond() % 1000),
		},
		Security: config.SecurityConfig{
			SecretKey: "test-secret-key-32-bytes-long!!!",
		},
		BSP: config.BSPConfig{
			ParentWABAID:       "waba-test",
			SystemToken:        "token-test",
			WebhookVerifyToken: "verify-test",
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

// TestRunServerMocked starts and stops the full app against mocked
// infrastructure to exercise the wiring end to end.
func TestRunServerMocked(t *testing.T) {
	cfg := createTestConfig(t)

	mockLogger := logger.NewTestLogger(t)

	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	appInstance := app.NewApp(cfg,
		app.WithLogger(mockLogger),
		app.WithMockDB(mockDB),
		app.WithMockRedis(redisClient),
	)
	require.NoError(t, appInstance.Initialize())

	testRunServer := func(_ *config.Config, log logger.Logger) error {
		serverError := make(chan error, 1)
		go func() {
			log.Info("Server started successfully")
			serverError <- appInstance.Start()
		}()

		startCtx, startCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer startCancel()
		if !appInstance.WaitForServerStart(startCtx) {
			t.Fatal("server did not start in time")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := appInstance.Shutdown(ctx); err != nil {
			return err
		}

		log.Info("Server shut down gracefully")
		return nil
	}

	err = testRunServer(cfg, mockLogger)
	assert.NoError(t, err)
}

func TestConfigLoadingMissingSecrets(t *testing.T) {
	// Without the required secrets set, Load must refuse to start.
	for _, key := range []string{"SECRET_KEY", "BSP_SYSTEM_TOKEN", "BSP_PARENT_WABA_ID", "BSP_WEBHOOK_VERIFY_TOKEN"} {
		os.Unsetenv(key)
	}

	_, err := config.Load()
	assert.Error(t, err)
}

func TestSetupMinimalConfig(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("SERVER_HOST", "localhost")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_USER", "postgres_test")
	t.Setenv("DB_PASSWORD", "postgres_test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "waypost_test")
	t.Setenv("SECRET_KEY", "test-secret-key-32-bytes-long!!!")
	t.Setenv("BSP_SYSTEM_TOKEN", "token-test")
	t.Setenv("BSP_PARENT_WABA_ID", "waba-test")
	t.Setenv("BSP_WEBHOOK_VERIFY_TOKEN", "verify-test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "postgres_test", cfg.Database.User)
	assert.Equal(t, "waba-test", cfg.BSP.ParentWABAID)
}
