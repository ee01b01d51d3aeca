package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"     validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"omitempty,gte=4,lte=31"`
}

// SMTPConfig contains the outbound mail transport settings.
type SMTPConfig struct {
	Host      string `mapstructure:"host"       validate:"required"`
	Port      int    `mapstructure:"port"       validate:"required,gt=0,lt=65536"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email" validate:"required,email"`
	UseTLS    bool   `mapstructure:"use_tls"`
}

// ReminderConfig controls the due-task reminder job.
type ReminderConfig struct {
	// CronSpec is a standard 5-field cron expression for the daily run.
	CronSpec string `mapstructure:"cron_spec" validate:"required"`

	// HorizonDays is how far ahead of the due date a reminder fires.
	HorizonDays int `mapstructure:"horizon_days" validate:"required,gt=0"`

	// FrontendURL is embedded in reminder emails so users can jump to their tasks.
	FrontendURL string `mapstructure:"frontend_url" validate:"required,url"`
}
