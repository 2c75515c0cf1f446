// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Upstream      UpstreamConfig          `mapstructure:"upstream"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	Booking       BookingConfig           `mapstructure:"booking"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Auth          AuthConfig              `mapstructure:"auth"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// CamundaConfig controls the optional Zeebe job-worker surface.
type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single URL, used when addresses is empty
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// UpstreamConfig points at the GigDial backend that owns gigs, users and messages.
type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// CatalogConfig holds the discovery pipeline settings.
type CatalogConfig struct {
	PlaceholderImage string `mapstructure:"placeholder_image"`
	UnmatchedPolicy  string `mapstructure:"unmatched_policy"` // "home" or "other"
	RulesFile        string `mapstructure:"rules_file"`
	CacheTTL         int    `mapstructure:"cache_ttl"` // milliseconds
	RefreshSchedule  string `mapstructure:"refresh_schedule"`
	GigIndex         string `mapstructure:"gig_index"`
}

// BookingConfig holds booking-intent handshake settings.
type BookingConfig struct {
	IntentTTL int    `mapstructure:"intent_ttl"` // milliseconds
	LoginPath string `mapstructure:"login_path"`
}

// WorkerConfig holds the core settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// AuthConfig holds the token introspection settings used by the session middleware.
type AuthConfig struct {
	Keycloak struct {
		URL          string `mapstructure:"url"`
		Realm        string `mapstructure:"realm"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
	} `mapstructure:"keycloak"`
	SessionCacheTTL int `mapstructure:"session_cache_ttl"` // milliseconds
}

// NotificationConfig holds settings for contact-message notifications.
type NotificationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	Events struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"events"`
}

// ObservabilityConfig holds tracing settings.
type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
