package cardframe

import "testing"

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("config from env: %v", err)
	}

	if cfg.BaseURL != "http://localhost:3000" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TokenLength != 6 {
		t.Fatalf("TokenLength = %d", cfg.TokenLength)
	}
	if cfg.TemplateRoot != "templates" {
		t.Fatalf("TemplateRoot = %q", cfg.TemplateRoot)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("CARDFRAME_BASE_URL", "https://cards.example.com")
	t.Setenv("CARDFRAME_TOKEN_LENGTH", "12")
	t.Setenv("CARDFRAME_TEMPLATE_ROOT", "/srv/templates")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("config from env: %v", err)
	}

	if cfg.BaseURL != "https://cards.example.com" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TokenLength != 12 {
		t.Fatalf("TokenLength = %d", cfg.TokenLength)
	}
	if cfg.TemplateRoot != "/srv/templates" {
		t.Fatalf("TemplateRoot = %q", cfg.TemplateRoot)
	}
}
