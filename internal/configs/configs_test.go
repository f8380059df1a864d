package configs

import (
	"strings"
	"testing"
)

// clearEnv pins every configuration variable to empty so ambient values on the
// test machine cannot leak into a case.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "AUTH_JWT_SECRET",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
	if cfg.RequireAuth() {
		t.Error("RequireAuth() = true without AUTH_JWT_SECRET")
	}
	if cfg.StorageEnabled() {
		t.Error("StorageEnabled() = true without S3_BUCKET_NAME")
	}
	if cfg.DatabaseDSN == "" {
		t.Error("DatabaseDSN empty, want development default")
	}
}

func TestLoadConfigPortValidation(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"valid", "9000", false},
		{"not a number", "abc", true},
		{"privileged", "80", true},
		{"too large", "70000", true},
		{"lower bound", "1024", false},
		{"upper bound", "65535", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tt.port)

			_, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com , https://b.example.com ,, ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
		}
	}
}

func TestLoadConfigRequireAuth(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.RequireAuth() {
		t.Error("RequireAuth() = false with AUTH_JWT_SECRET set")
	}
}

func TestLoadConfigDatabaseRequiredOutsideDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("LoadConfig() error = %v, want DATABASE_URL requirement", err)
	}

	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/chat")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabaseDSN != "postgres://u:p@db:5432/chat" {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
}

func TestLoadConfigS3Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "bucket without endpoint",
			env:     map[string]string{"S3_BUCKET_NAME": "avatars"},
			wantErr: "S3_ENDPOINT",
		},
		{
			name: "bucket without access key",
			env: map[string]string{
				"S3_BUCKET_NAME": "avatars",
				"S3_ENDPOINT":    "https://s3.example.com",
			},
			wantErr: "S3_ACCESS_KEY_ID",
		},
		{
			name: "bucket without secret key",
			env: map[string]string{
				"S3_BUCKET_NAME":   "avatars",
				"S3_ENDPOINT":      "https://s3.example.com",
				"S3_ACCESS_KEY_ID": "AKID",
			},
			wantErr: "S3_SECRET_ACCESS_KEY",
		},
		{
			name: "complete",
			env: map[string]string{
				"S3_BUCKET_NAME":       "avatars",
				"S3_ENDPOINT":          "https://s3.example.com",
				"S3_ACCESS_KEY_ID":     "AKID",
				"S3_SECRET_ACCESS_KEY": "secret",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadConfig() error = %v, want mention of %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			if !cfg.StorageEnabled() {
				t.Error("StorageEnabled() = false with full S3 configuration")
			}
		})
	}
}
