// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Server  ServerConfig            `mapstructure:"server"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Redis   RedisConfig             `mapstructure:"redis"`
	LLM     LLMConfig               `mapstructure:"llm"`
	Retry   RetryConfig             `mapstructure:"retry"`
	Reply   ReplyConfig             `mapstructure:"reply"`
	Sale    SaleConfig              `mapstructure:"sale"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
	Logging LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP listener settings for the API, health and metrics endpoints.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// CredentialKey is the Redis key holding the stored API credential.
	CredentialKey string `mapstructure:"credential_key"`
}

// LLMConfig configures the chat-completions endpoint used for classification and generation.
type LLMConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	// APIKey is only used as a bootstrap credential when the store is empty.
	APIKey string `mapstructure:"api_key"`
}

// RetryConfig is the shared remote-call retry policy.
type RetryConfig struct {
	MaxAttempts  int `mapstructure:"max_attempts"`
	InitialDelay int `mapstructure:"initial_delay"` // milliseconds
}

// ReplyConfig tunes the matching cascade.
type ReplyConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MinKeyTermLength    int     `mapstructure:"min_key_term_length"`
	MinCandidateLength  int     `mapstructure:"min_candidate_length"`
	ExamplesPath        string  `mapstructure:"examples_path"`
}

// SaleConfig configures daily sale planning.
type SaleConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Percentage int    `mapstructure:"percentage"`
	CreateURL  string `mapstructure:"create_url"`
	Timezone   string `mapstructure:"timezone"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
