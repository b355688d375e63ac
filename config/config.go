// Package config loads storefront settings from defaults, an optional .env
// file and PM_-prefixed environment variables.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the storefront settings consumed by handlers and services.
type Config struct {
	AppName          string
	TaxRate          float64
	PlaceholderImage string
	CartCookie       string
	AuthCookie       string
	FeaturedLimit    int
	RelatedLimit     int
	Seed             bool
	AdminEmail       string
	MaxUploadBytes   int64
	MaxImageBytes    int64
	CartMaxSessions  int
	CartIdleTTL      time.Duration
}

// Default returns the built-in settings without reading the environment.
func Default() Config {
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("app_name", "ProjectMarket")
	v.SetDefault("tax_rate", 0.10)
	v.SetDefault("placeholder_image", "https://source.unsplash.com/random/600x400/?tech")
	v.SetDefault("cart_cookie", "pm_cart")
	v.SetDefault("auth_cookie", "pm_auth")
	v.SetDefault("featured_limit", 4)
	v.SetDefault("related_limit", 4)
	v.SetDefault("seed", true)
	v.SetDefault("admin_email", "")
	v.SetDefault("max_upload_bytes", 50<<20)
	v.SetDefault("max_image_bytes", 5<<20)
	v.SetDefault("cart_max_sessions", 10000)
	v.SetDefault("cart_idle_ttl", "30m")
	return v
}

// Load reads settings. If envFile is non-empty and exists it is loaded into
// the process environment first; a missing file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", envFile, err)
		}
	}

	v := newViper()
	v.SetEnvPrefix("PM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	if cfg.TaxRate < 0 || cfg.TaxRate > 1 {
		log.Printf("config: tax_rate %v out of range, using 0.10", cfg.TaxRate)
		cfg.TaxRate = 0.10
	}
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = 4
	}
	if cfg.RelatedLimit <= 0 {
		cfg.RelatedLimit = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 << 20
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 5 << 20
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		AppName:          v.GetString("app_name"),
		TaxRate:          v.GetFloat64("tax_rate"),
		PlaceholderImage: v.GetString("placeholder_image"),
		CartCookie:       v.GetString("cart_cookie"),
		AuthCookie:       v.GetString("auth_cookie"),
		FeaturedLimit:    v.GetInt("featured_limit"),
		RelatedLimit:     v.GetInt("related_limit"),
		Seed:             v.GetBool("seed"),
		AdminEmail:       strings.TrimSpace(v.GetString("admin_email")),
		MaxUploadBytes:   v.GetInt64("max_upload_bytes"),
		MaxImageBytes:    v.GetInt64("max_image_bytes"),
		CartMaxSessions:  v.GetInt("cart_max_sessions"),
		CartIdleTTL:      v.GetDuration("cart_idle_ttl"),
	}
}
