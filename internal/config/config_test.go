package config

import (
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Defaults", func(t *testing.T) {
		for _, key := range []string{"DATABASE_PATH", "IMAGE_STORE", "PORT", "TELEGRAM_ALLOWED_USER_IDS", "S3_PATH_STYLE"} {
			setEnv(key, "")
		}

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/recipes.db" {
			t.Errorf("Expected DatabasePath to be 'data/recipes.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.ImageStore != "file" {
			t.Errorf("Expected ImageStore to be 'file', got '%s'", cfg.ImageStore)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
		}
	})

	t.Run("Success", func(t *testing.T) {
		setEnv("DATABASE_PATH", "/tmp/shop.db")
		setEnv("IMAGE_STORE", "s3")
		setEnv("S3_BUCKET", "recipes")
		setEnv("S3_PATH_STYLE", "true")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "42, 43")
		setEnv("ADMIN_TELEGRAM_ID", "42")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/shop.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/shop.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.S3Bucket != "recipes" || !cfg.S3PathStyle {
			t.Errorf("Expected S3 bucket 'recipes' with path style, got '%s' (%v)", cfg.S3Bucket, cfg.S3PathStyle)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 43 {
			t.Errorf("Expected allowed users [42 43], got %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 42 {
			t.Errorf("Expected AdminTelegramID to be 42, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("MissingS3Bucket", func(t *testing.T) {
		setEnv("IMAGE_STORE", "s3")
		setEnv("S3_BUCKET", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing S3_BUCKET, got nil")
		}
		expectedError := "S3_BUCKET environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownImageStore", func(t *testing.T) {
		setEnv("IMAGE_STORE", "ftp")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown IMAGE_STORE, got nil")
		}
	})

	t.Run("GhostRequiresContentKey", func(t *testing.T) {
		setEnv("IMAGE_STORE", "file")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "")
		setEnv("GHOST_API_URL", "https://blog.example.test/")
		setEnv("GHOST_CONTENT_API_KEY", "")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for missing GHOST_CONTENT_API_KEY, got nil")
		}

		setEnv("GHOST_CONTENT_API_KEY", "content")
		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GhostURL != "https://blog.example.test" {
			t.Errorf("Expected trailing slash to be trimmed, got '%s'", cfg.GhostURL)
		}
		setEnv("GHOST_API_URL", "")
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		setEnv("IMAGE_STORE", "file")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "42,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid user ID, got nil")
		}
	})
}

func TestValidateBot(t *testing.T) {
	cfg := &Config{TelegramBotToken: "token", TelegramWebhookURL: "https://example.test/webhook"}
	if err := cfg.ValidateBot(); err == nil {
		t.Error("Expected an error without allowed users, got nil")
	}

	cfg.TelegramAllowedUserIDs = []int64{42}
	if err := cfg.ValidateBot(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	cfg.TelegramBotToken = ""
	expectedError := "TELEGRAM_BOT_TOKEN environment variable not set"
	if err := cfg.ValidateBot(); err == nil || err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%v'", expectedError, err)
	}
}
