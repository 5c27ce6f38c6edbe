package main_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"accountd/internal/config"
	"accountd/internal/server"
)

var srv *server.Server

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "accountd-main")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}

	cfg := config.Config{
		AppPort:      ":0",
		DatabaseURL:  "sqlite:///" + filepath.Join(dir, "main.db"),
		AutoMigrate:  true,
		JWTSecret:    "test_jwt_secret",
		JWTAlgorithm: "HS256",
		TokenTTL:     time.Hour,
		BcryptCost:   bcrypt.MinCost,
	}

	srv, err = server.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	code := m.Run()

	// Graceful Shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	cancel()
	os.RemoveAll(dir)

	os.Exit(code)
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		if err := srv.App.Listener(ln); err != nil {
			log.Printf("Test server listen error: %v", err)
		}
	}()

	baseURL := fmt.Sprintf("http://%s", ln.Addr().String())
	client := &http.Client{Timeout: 5 * time.Second}

	// --- Test Health Endpoint ---
	t.Run("HealthCheck", func(t *testing.T) {
		var resp *http.Response
		require.Eventually(t, func() bool {
			resp, err = client.Get(baseURL + "/health")
			return err == nil
		}, 2*time.Second, 20*time.Millisecond)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodyBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"ok"}`, string(bodyBytes))
	})

	// --- Test Unauthenticated Access ---
	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		resp, err := client.Get(baseURL + "/users/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Expected Unauthorized for /users/ without token")
	})
}
