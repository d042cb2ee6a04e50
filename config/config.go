package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Booking  BookingConfig  `yaml:"booking"`
	Billing  BillingConfig  `yaml:"billing"`
	Invoice  InvoiceConfig  `yaml:"invoice"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Auth     AuthConfig     `yaml:"auth"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address"`
	SwaggerFile string   `yaml:"swagger_file"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
	LogSQL   bool   `yaml:"log_sql"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// MongoConfig configures the optional invoice delivery log. An empty URI disables it.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type BookingConfig struct {
	LockTTLSeconds          int    `yaml:"lock_ttl_seconds"`
	CarTypesCacheTTLSeconds int    `yaml:"car_types_cache_ttl_seconds"`
	ConfirmationPrefix      string `yaml:"confirmation_prefix"`
}

func (b BookingConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLSeconds) * time.Second
}

func (b BookingConfig) CarTypesCacheTTL() time.Duration {
	return time.Duration(b.CarTypesCacheTTLSeconds) * time.Second
}

type BillingConfig struct {
	Policy        string `yaml:"policy"`
	AddonStrategy string `yaml:"addon_strategy"`
}

type InvoiceConfig struct {
	Brand         string   `yaml:"brand"`
	IssuerName    string   `yaml:"issuer_name"`
	IssuerAddress []string `yaml:"issuer_address"`
	IssuerEmail   string   `yaml:"issuer_email"`
	NumberPrefix  string   `yaml:"number_prefix"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	// Seeded on startup when no user with this name exists. Empty disables seeding.
	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig reads an optional .env file, expands ${VAR} references in the
// YAML at path and fills in defaults for everything left empty.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "carrental-worker"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "invoice_deliveries"
	}
	if c.Booking.LockTTLSeconds == 0 {
		c.Booking.LockTTLSeconds = 30
	}
	if c.Booking.CarTypesCacheTTLSeconds == 0 {
		c.Booking.CarTypesCacheTTLSeconds = 300
	}
	if c.Booking.ConfirmationPrefix == "" {
		c.Booking.ConfirmationPrefix = "BOK-"
	}
	if c.Billing.Policy == "" {
		c.Billing.Policy = "inclusive"
	}
	if c.Billing.AddonStrategy == "" {
		c.Billing.AddonStrategy = "per_line"
	}
	if c.Invoice.Brand == "" {
		c.Invoice.Brand = "IndiaDrive"
	}
	if c.Invoice.IssuerName == "" {
		c.Invoice.IssuerName = "FLEEMAN"
	}
	if c.Invoice.NumberPrefix == "" {
		c.Invoice.NumberPrefix = "INV-"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "carrental"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
