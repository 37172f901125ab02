package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=0,lte=31"`
}

// RedisConfig contains settings for the shared Redis client used by the
// cache layer, the notification queue, and the live-update pub/sub bridge.
// Addr may be empty, in which case the process runs in degraded mode:
// cache misses, skipped notifications, single-instance fan-out.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"              validate:"gte=0"`
	CacheTTL int    `mapstructure:"cache_ttl"       validate:"gte=0"` // seconds
	Timeout  int    `mapstructure:"timeout"         validate:"gte=0"` // per-operation, milliseconds
	Queue    string `mapstructure:"queue"           validate:"required"`
	Channel  string `mapstructure:"updates_channel" validate:"required"`
}
