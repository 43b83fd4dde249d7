package config

import "fmt"

// Config represents the full application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	GitHub        GitHubConfig        `yaml:"github"`
	LLM           LLMConfig           `yaml:"llm"`
	Review        ReviewConfig        `yaml:"review"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds the HTTP ingress settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	WebhookSecret string `yaml:"webhookSecret"`

	// ReviewTimeout bounds one background review end to end.
	ReviewTimeout string `yaml:"reviewTimeout"`
}

// GitHubConfig holds the GitHub App identity and API endpoint.
type GitHubConfig struct {
	AppID int64 `yaml:"appID"`

	// PrivateKey is the PEM key inline (supports ${VAR} expansion);
	// PrivateKeyPath points at a PEM file and wins when both are set.
	PrivateKey     string `yaml:"privateKey"`
	PrivateKeyPath string `yaml:"privateKeyPath"`

	// APIBaseURL is empty for github.com, set for GitHub Enterprise.
	APIBaseURL string `yaml:"apiBaseURL"`
}

// LLMConfig configures the analysis model provider. An empty APIKey selects
// the static in-process client, which is useful for local smoke runs.
type LLMConfig struct {
	APIKey    string     `yaml:"apiKey"`
	Model     string     `yaml:"model"`
	MaxTokens int        `yaml:"maxTokens"`
	HTTP      HTTPConfig `yaml:"http"`
}

// HTTPConfig holds model-API HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// ReviewConfig configures the analysis pipeline.
type ReviewConfig struct {
	DiffTokenBudget    int `yaml:"diffTokenBudget"`
	MaxSuggestionFiles int `yaml:"maxSuggestionFiles"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the shared log sink.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// Validate checks the settings required to serve webhooks.
func (c Config) Validate() error {
	if c.Server.WebhookSecret == "" {
		return fmt.Errorf("server.webhookSecret is required")
	}
	if c.GitHub.AppID == 0 {
		return fmt.Errorf("github.appID is required")
	}
	if c.GitHub.PrivateKey == "" && c.GitHub.PrivateKeyPath == "" {
		return fmt.Errorf("github.privateKey or github.privateKeyPath is required")
	}
	return nil
}
