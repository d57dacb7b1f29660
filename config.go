package cardframe

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config carries host environment settings for the engine.
type Config struct {
	// BaseURL is the public base used to build share links.
	BaseURL string `env:"CARDFRAME_BASE_URL,default=http://localhost:3000"`

	// TokenLength is the number of digest hex characters used for instance
	// ids. The default trades key brevity against collision headroom;
	// deployments expecting very large instance counts should raise it.
	TokenLength int `env:"CARDFRAME_TOKEN_LENGTH,default=6"`

	// TemplateRoot is the directory file templates resolve against.
	TemplateRoot string `env:"CARDFRAME_TEMPLATE_ROOT,default=templates"`
}

// ConfigFromEnv reads Config from CARDFRAME_* environment variables,
// applying defaults for anything unset.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode engine config: %w", err)
	}
	return cfg, nil
}
