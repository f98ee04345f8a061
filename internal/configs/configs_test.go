package configs

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS", "SESSION_SECRET",
		"ADMIN_USERNAME", "DATA_DIR", "UPLOAD_DIR",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, want admin", cfg.AdminUsername)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
	if cfg.SessionSecret == "" {
		t.Error("development must get a fallback session secret")
	}
	if cfg.S3Enabled() {
		t.Error("S3 must be disabled without its env block")
	}
}

func TestLoadConfigPortValidation(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Error("non-numeric port must fail")
	}

	t.Setenv("PORT", "80")
	if _, err := LoadConfig(); err == nil {
		t.Error("privileged port must fail")
	}
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil {
		t.Error("production without SESSION_SECRET must fail")
	}

	t.Setenv("SESSION_SECRET", "real-secret")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SessionSecret != "real-secret" {
		t.Errorf("SessionSecret = %q", cfg.SessionSecret)
	}
}

func TestLoadConfigOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 ||
		cfg.AllowedOrigins[0] != "https://a.example" ||
		cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigPartialS3Rejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET_NAME", "grunt-images")

	if _, err := LoadConfig(); err == nil {
		t.Error("partial S3 block must fail")
	}
}
