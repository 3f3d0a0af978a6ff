// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Capability    CapabilityConfig    `mapstructure:"capability"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Curation      CurationConfig      `mapstructure:"curation"`
	Quiz          QuizConfig          `mapstructure:"quiz"`
	Planning      PlanningConfig      `mapstructure:"planning"`
	Store         StoreConfig         `mapstructure:"store"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// CapabilityConfig holds settings for the tiered profile resolver. A tier is
// considered available only when its base URL and API key are both present.
type CapabilityConfig struct {
	Conversation struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"conversation"`

	API struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"api"`

	MaxRetries int `mapstructure:"max_retries"`
}

// ScoringConfig holds the verdict band cut points, expressed as the minimum
// percentage for each band from highest to lowest tier. The bottom band is
// implicit (everything below the last cut point).
type ScoringConfig struct {
	Bands []BandConfig `mapstructure:"bands"`
}

type BandConfig struct {
	Verdict    string  `mapstructure:"verdict"`
	MinPercent float64 `mapstructure:"min_percent"`
}

// CurationConfig holds the resource trust allow-list.
type CurationConfig struct {
	TrustedOrigins []string `mapstructure:"trusted_origins"`
}

// QuizConfig holds quiz sampling and grading settings.
type QuizConfig struct {
	QuestionCount int     `mapstructure:"question_count"`
	PassPercent   float64 `mapstructure:"pass_percent"`
}

// PlanningConfig holds allocation settings for the Plan stage.
type PlanningConfig struct {
	MinimumUnits int `mapstructure:"minimum_units"`
}

// StoreConfig holds settings for the run store collaborator.
type StoreConfig struct {
	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig holds metrics/tracing settings.
type ObservabilityConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
