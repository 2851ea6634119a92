package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear anything the environment might carry.
	for _, key := range []string{"APP_HOST", "APP_PORT", "APP_ENV", "MONGO_URI", "MONGO_DB", "REDIS_ADDR", "JWT_SECRET", "JWT_EXPIRE", "UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
	if cfg.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("mongo uri: got %q", cfg.MongoURI)
	}
	if cfg.MongoDB != "inkpress" {
		t.Errorf("mongo db: got %q", cfg.MongoDB)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("redis addr should default empty, got %q", cfg.RedisAddr)
	}
	if cfg.JWTExpiry != 720*time.Hour {
		t.Errorf("jwt expiry: got %v", cfg.JWTExpiry)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("upload dir: got %q", cfg.UploadDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_EXPIRE", "24h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("addr: got %q", cfg.Addr())
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("jwt expiry: got %v", cfg.JWTExpiry)
	}
}

func TestLoadBadExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRE", "thirty days")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable JWT_EXPIRE")
	}
}

func TestLoadProductionGuard(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for default secret in production")
	}

	t.Setenv("JWT_SECRET", "a-real-production-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("production config reported as development")
	}
}
