package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Source kinds
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
	SourceS3     = "s3"
	SourceSQL    = "sql"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Source    SourceConfig
	Schema    SchemaConfig
	Session   SessionConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
	RateLimit        int // requests per RateWindow per client, 0 disables
	RateWindow       time.Duration
}

// SourceConfig selects and configures the table source
type SourceConfig struct {
	Kind           string // sheets, csv, s3, sql
	OrdersTable    string
	CustomersTable string
	Timeout        time.Duration // per table read
	Sheets         SheetsConfig
	CSV            CSVConfig
	S3             S3Config
	Database       DatabaseConfig
}

// SheetsConfig holds Google Sheets settings
type SheetsConfig struct {
	SpreadsheetID   string
	APIKey          string
	CredentialsFile string
	Endpoint        string // overrides the API endpoint, used against emulators
}

// CSVConfig holds settings of the CSV directory source
type CSVConfig struct {
	Dir          string
	Delimiter    string
	StrictQuotes bool
}

// S3Config holds settings of the S3 object source
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Delimiter       string
	StrictQuotes    bool
}

// DatabaseConfig holds SQL source connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite database file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string // silent, error, warn, info
}

// SchemaConfig holds column alias overrides and the join key pair.
// Alias keys are logical field names (id, customer_ref, status, ...).
type SchemaConfig struct {
	OrderAliases      map[string][]string
	CustomerAliases   map[string][]string
	JoinOrderField    string
	JoinCustomerField string
}

// SessionConfig holds lookup session storage settings
type SessionConfig struct {
	Backend string // memory, redis
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
}

// Load loads configuration from config.toml in the default search paths
// and environment variables
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadOption adjusts the viper instance before values are read
type LoadOption func(v *viper.Viper) error

// BindFlag makes a command-line flag override the config key when the flag
// was set on the command line
func BindFlag(key string, flag *pflag.Flag) LoadOption {
	return func(v *viper.Viper) error {
		if flag == nil {
			return fmt.Errorf("no flag to bind to %s", key)
		}
		return v.BindPFlag(key, flag)
	}
}

// LoadFrom loads configuration from the given TOML file, or from the default
// search paths when path is empty.
// Priority (highest to lowest):
// 1. Command-line flags bound with BindFlag
// 2. Environment variables with RASTREO_ prefix (e.g., RASTREO_SOURCE_KIND)
// 3. config file
// 4. Built-in defaults
func LoadFrom(path string, opts ...LoadOption) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/rastreo")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("RASTREO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("error binding config overrides: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			RequestTimeout:   v.GetDuration("http.request_timeout"),
			MaxBodyBytes:     v.GetInt64("http.max_body_bytes"),
			RateLimit:        v.GetInt("http.rate_limit"),
			RateWindow:       v.GetDuration("http.rate_window"),
		},
		Source: SourceConfig{
			Kind:           strings.ToLower(v.GetString("source.kind")),
			OrdersTable:    v.GetString("source.orders_table"),
			CustomersTable: v.GetString("source.customers_table"),
			Timeout:        v.GetDuration("source.timeout"),
			Sheets: SheetsConfig{
				SpreadsheetID:   v.GetString("source.sheets.spreadsheet_id"),
				APIKey:          v.GetString("source.sheets.api_key"),
				CredentialsFile: v.GetString("source.sheets.credentials_file"),
				Endpoint:        v.GetString("source.sheets.endpoint"),
			},
			CSV: CSVConfig{
				Dir:          v.GetString("source.csv.dir"),
				Delimiter:    v.GetString("source.csv.delimiter"),
				StrictQuotes: v.GetBool("source.csv.strict_quotes"),
			},
			S3: S3Config{
				Endpoint:        v.GetString("source.s3.endpoint"),
				Region:          v.GetString("source.s3.region"),
				Bucket:          v.GetString("source.s3.bucket"),
				Prefix:          v.GetString("source.s3.prefix"),
				AccessKeyID:     v.GetString("source.s3.access_key_id"),
				SecretAccessKey: v.GetString("source.s3.secret_access_key"),
				UsePathStyle:    v.GetBool("source.s3.use_path_style"),
				Delimiter:       v.GetString("source.s3.delimiter"),
				StrictQuotes:    v.GetBool("source.s3.strict_quotes"),
			},
			Database: DatabaseConfig{
				Driver:          strings.ToLower(v.GetString("source.database.driver")),
				Host:            v.GetString("source.database.host"),
				Port:            v.GetInt("source.database.port"),
				User:            v.GetString("source.database.user"),
				Password:        v.GetString("source.database.password"),
				DBName:          v.GetString("source.database.dbname"),
				SSLMode:         v.GetString("source.database.sslmode"),
				Path:            v.GetString("source.database.path"),
				MaxOpenConns:    v.GetInt("source.database.max_open_conns"),
				MaxIdleConns:    v.GetInt("source.database.max_idle_conns"),
				ConnMaxLifetime: v.GetDuration("source.database.conn_max_lifetime"),
				LogLevel:        v.GetString("source.database.log_level"),
			},
		},
		Schema: SchemaConfig{
			OrderAliases:      v.GetStringMapStringSlice("schema.order_aliases"),
			CustomerAliases:   v.GetStringMapStringSlice("schema.customer_aliases"),
			JoinOrderField:    v.GetString("schema.join_order_field"),
			JoinCustomerField: v.GetString("schema.join_customer_field"),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(v.GetString("session.backend")),
			TTL:     v.GetDuration("session.ttl"),
			Redis: RedisConfig{
				Host:     v.GetString("session.redis.host"),
				Port:     v.GetInt("session.redis.port"),
				Password: v.GetString("session.redis.password"),
				DB:       v.GetInt("session.redis.db"),
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "rastreo-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	// CORS origins have no fallback: cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 20 * time.Second
	}
	if cfg.HTTP.MaxBodyBytes == 0 {
		cfg.HTTP.MaxBodyBytes = 16 << 10
	}
	if cfg.HTTP.RateWindow == 0 {
		cfg.HTTP.RateWindow = time.Minute
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceSheets
	}
	if cfg.Source.OrdersTable == "" {
		cfg.Source.OrdersTable = "Ticket"
	}
	if cfg.Source.CustomersTable == "" {
		cfg.Source.CustomersTable = "Cliente"
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = 10 * time.Second
	}
	if cfg.Source.CSV.Delimiter == "" {
		cfg.Source.CSV.Delimiter = ","
	}
	if cfg.Source.S3.Region == "" {
		cfg.Source.S3.Region = "us-east-1"
	}
	if cfg.Source.S3.Delimiter == "" {
		cfg.Source.S3.Delimiter = ","
	}
	db := &cfg.Source.Database
	if db.Driver == "" {
		db.Driver = "postgres"
	}
	if db.Host == "" {
		db.Host = "localhost"
	}
	if db.Port == 0 {
		db.Port = 5432
	}
	if db.User == "" {
		db.User = "postgres"
	}
	if db.DBName == "" {
		db.DBName = "rastreo"
	}
	if db.SSLMode == "" {
		db.SSLMode = "disable"
	}
	if db.MaxOpenConns == 0 {
		db.MaxOpenConns = 10
	}
	if db.MaxIdleConns == 0 {
		db.MaxIdleConns = 2
	}
	if db.ConnMaxLifetime == 0 {
		db.ConnMaxLifetime = 30 * time.Minute
	}
	if db.LogLevel == "" {
		db.LogLevel = "warn"
	}

	if cfg.Schema.JoinOrderField == "" {
		cfg.Schema.JoinOrderField = "customer_key"
	}
	if cfg.Schema.JoinCustomerField == "" {
		cfg.Schema.JoinCustomerField = "customer_id"
	}

	if cfg.Session.Backend == "" {
		cfg.Session.Backend = SessionMemory
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 30 * time.Minute
	}
	if cfg.Session.Redis.Host == "" {
		cfg.Session.Redis.Host = "localhost"
	}
	if cfg.Session.Redis.Port == 0 {
		cfg.Session.Redis.Port = 6379
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 500 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Source.Kind {
	case SourceSheets:
		if c.Source.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("source.sheets.spreadsheet_id is required for the sheets source")
		}
	case SourceCSV:
		if c.Source.CSV.Dir == "" {
			return fmt.Errorf("source.csv.dir is required for the csv source")
		}
	case SourceS3:
		if c.Source.S3.Bucket == "" {
			return fmt.Errorf("source.s3.bucket is required for the s3 source")
		}
	case SourceSQL:
		switch c.Source.Database.Driver {
		case "postgres":
		case "sqlite":
			if c.Source.Database.Path == "" {
				return fmt.Errorf("source.database.path is required for the sqlite driver")
			}
		default:
			return fmt.Errorf("source.database.driver must be postgres or sqlite, got %q", c.Source.Database.Driver)
		}
		if c.Source.Database.MaxIdleConns > c.Source.Database.MaxOpenConns {
			return fmt.Errorf("source.database.max_idle_conns (%d) cannot exceed source.database.max_open_conns (%d)",
				c.Source.Database.MaxIdleConns, c.Source.Database.MaxOpenConns)
		}
	default:
		return fmt.Errorf("source.kind must be one of sheets, csv, s3, sql, got %q", c.Source.Kind)
	}

	if c.Source.OrdersTable == c.Source.CustomersTable {
		return fmt.Errorf("source.orders_table and source.customers_table must differ")
	}

	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit cannot be negative")
	}

	if c.Session.Backend != SessionMemory && c.Session.Backend != SessionRedis {
		return fmt.Errorf("session.backend must be memory or redis, got %q", c.Session.Backend)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl cannot be negative")
	}

	if c.App.Env == "production" {
		if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
		if c.Source.Kind == SourceSQL && c.Source.Database.Driver == "postgres" && c.Source.Database.SSLMode == "disable" {
			return fmt.Errorf("source.database.sslmode cannot be 'disable' in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
