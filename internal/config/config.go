// Package config loads application settings from the environment. The
// resulting Config is constructed once in main and passed down; nothing in
// this package is global.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr    string
	GinMode string

	MongoURI      string
	MongoDatabase string

	JWTSecret    string
	JWTExpire    time.Duration
	CookieExpire time.Duration
	CookieSecure bool

	GeocoderURL string
	GeocoderKey string

	UploadDir     string
	MaxUploadSize int64

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from APP_-prefixed environment variables with
// sane development defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("app")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":5000")
	v.SetDefault("gin_mode", "")
	v.SetDefault("mongo_uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo_database", "bootcamper")
	v.SetDefault("jwt_expire", "24h")
	v.SetDefault("cookie_expire", "720h")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("geocoder_url", "https://www.mapquestapi.com/geocoding/v1/address")
	v.SetDefault("upload_dir", "./public/uploads")
	v.SetDefault("max_upload_size", 1<<20)
	v.SetDefault("smtp_port", 587)
	v.SetDefault("email_from", "noreply@bootcamper.dev")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	cfg := Config{
		Addr:          v.GetString("addr"),
		GinMode:       v.GetString("gin_mode"),
		MongoURI:      v.GetString("mongo_uri"),
		MongoDatabase: v.GetString("mongo_database"),
		JWTSecret:     v.GetString("jwt_secret"),
		JWTExpire:     v.GetDuration("jwt_expire"),
		CookieExpire:  v.GetDuration("cookie_expire"),
		CookieSecure:  v.GetBool("cookie_secure"),
		GeocoderURL:   v.GetString("geocoder_url"),
		GeocoderKey:   v.GetString("geocoder_key"),
		UploadDir:     v.GetString("upload_dir"),
		MaxUploadSize: v.GetInt64("max_upload_size"),
		SMTPHost:      v.GetString("smtp_host"),
		SMTPPort:      v.GetInt("smtp_port"),
		SMTPUser:      v.GetString("smtp_user"),
		SMTPPass:      v.GetString("smtp_pass"),
		EmailFrom:     v.GetString("email_from"),
		LogLevel:      v.GetString("log_level"),
		LogFormat:     v.GetString("log_format"),
	}

	for _, o := range strings.Split(v.GetString("cors_origins"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("APP_JWT_SECRET is required")
	}
	if cfg.JWTExpire <= 0 {
		return Config{}, fmt.Errorf("APP_JWT_EXPIRE must be a positive duration")
	}
	return cfg, nil
}
