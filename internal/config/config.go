package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application. It is resolved once
// at startup and passed by reference; nothing mutates it afterwards.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	SMTP         SMTPConfig
	Social       SocialConfig
	Verification VerificationConfig
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig holds session-token signing configuration.
type AuthConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirySeconds int    `mapstructure:"expiryseconds"`
}

// Expiry returns the session token lifetime.
func (a AuthConfig) Expiry() time.Duration {
	if a.ExpirySeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.ExpirySeconds) * time.Second
}

// SMTPConfig holds the outbound mail configuration.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// SocialConfig holds the identity-provider introspection endpoints.
type SocialConfig struct {
	FacebookGraphURL  string `mapstructure:"facebookgraphurl"`
	GoogleUserInfoURL string `mapstructure:"googleuserinfourl"`
}

// VerificationConfig controls one-time code issuance.
type VerificationConfig struct {
	CodeLength            int `mapstructure:"codelength"`
	TTLMinutes            int `mapstructure:"ttlminutes"`
	ResendCooldownSeconds int `mapstructure:"resendcooldownseconds"`
}

// TTL returns the lifetime of a freshly issued one-time code.
func (v VerificationConfig) TTL() time.Duration {
	if v.TTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(v.TTLMinutes) * time.Minute
}

// ResendCooldown returns the minimum gap between code reissues.
func (v VerificationConfig) ResendCooldown() time.Duration {
	if v.ResendCooldownSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(v.ResendCooldownSeconds) * time.Second
}

// Load creates a new Config object from the environment (and an optional .env).
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into the process environment for BindEnv to work with
	// file-based envs.
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ godotenv could not load .env: %v", err)
	}

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("auth.secret", "JWT_SECRET")
	_ = viper.BindEnv("auth.expiryseconds", "JWT_EXPIRY_SECONDS")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")
	_ = viper.BindEnv("social.facebookgraphurl", "FACEBOOK_GRAPH_URL")
	_ = viper.BindEnv("social.googleuserinfourl", "GOOGLE_USERINFO_URL")
	_ = viper.BindEnv("verification.codelength", "VERIFY_CODE_LENGTH")
	_ = viper.BindEnv("verification.ttlminutes", "VERIFY_TTL_MINUTES")
	_ = viper.BindEnv("verification.resendcooldownseconds", "VERIFY_RESEND_COOLDOWN_SECONDS")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("❌ Error reading config file: %s", err)
		} else {
			log.Printf("⚠️ .env file not found, relying on environment variables")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	// Defaults.
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Social.FacebookGraphURL == "" {
		cfg.Social.FacebookGraphURL = "https://graph.facebook.com/v2.11/me?fields=id,name,email"
	}
	if cfg.Social.GoogleUserInfoURL == "" {
		cfg.Social.GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"
	}
	if cfg.Verification.CodeLength <= 0 {
		cfg.Verification.CodeLength = 4
	}
	if cfg.Verification.TTLMinutes <= 0 {
		cfg.Verification.TTLMinutes = 60
	}

	log.Println("✅ Configuration loaded successfully")
	return &cfg
}
