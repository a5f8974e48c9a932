package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultAddr         = "0.0.0.0:8080"
	defaultDBPath       = "portfolio.db"
	defaultRelay        = "log"
	defaultRelayTimeout = 15 * time.Second
	defaultSubmitWait   = 10 * time.Second
	defaultViewTTL      = 30 * time.Minute
	defaultViewCapacity = 4096
	defaultSMTPPort     = "587"
	defaultLogLevel     = "info"
)

// appConfig is the runtime configuration of the portfolio server.
type appConfig struct {
	Addr        string `mapstructure:"addr"`
	DBPath      string `mapstructure:"db-path"`
	ContentPath string `mapstructure:"content-path"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log-level"`

	Relay        string        `mapstructure:"relay"`
	RelayTimeout time.Duration `mapstructure:"relay-timeout"`
	SubmitWait   time.Duration `mapstructure:"submit-wait"`

	EmailJSServiceID  string `mapstructure:"emailjs-service-id"`
	EmailJSTemplateID string `mapstructure:"emailjs-template-id"`
	EmailJSPublicKey  string `mapstructure:"emailjs-public-key"`

	SMTPHost     string `mapstructure:"smtp-host"`
	SMTPPort     string `mapstructure:"smtp-port"`
	SMTPUsername string `mapstructure:"smtp-username"`
	SMTPPassword string `mapstructure:"smtp-password"`
	SMTPTo       string `mapstructure:"smtp-to"`

	AdminUsername string `mapstructure:"admin-username"`
	AdminPassword string `mapstructure:"admin-password"`
	SecureCookies bool   `mapstructure:"secure-cookies"`

	ViewTTL      time.Duration `mapstructure:"view-ttl"`
	ViewCapacity int           `mapstructure:"view-capacity"`

	ConfigPath string `mapstructure:"-"`
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("content-path", "")
	v.SetDefault("debug", false)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("relay", defaultRelay)
	v.SetDefault("relay-timeout", defaultRelayTimeout)
	v.SetDefault("submit-wait", defaultSubmitWait)
	v.SetDefault("emailjs-service-id", "")
	v.SetDefault("emailjs-template-id", "")
	v.SetDefault("emailjs-public-key", "")
	v.SetDefault("smtp-host", "")
	v.SetDefault("smtp-port", defaultSMTPPort)
	v.SetDefault("smtp-username", "")
	v.SetDefault("smtp-password", "")
	v.SetDefault("smtp-to", "")
	v.SetDefault("admin-username", "admin")
	v.SetDefault("admin-password", "")
	v.SetDefault("secure-cookies", false)
	v.SetDefault("view-ttl", defaultViewTTL)
	v.SetDefault("view-capacity", defaultViewCapacity)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("portfolio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	cfg.Relay = strings.ToLower(strings.TrimSpace(cfg.Relay))
	switch cfg.Relay {
	case "log":
	case "emailjs":
		if cfg.EmailJSServiceID == "" || cfg.EmailJSTemplateID == "" || cfg.EmailJSPublicKey == "" {
			return cfg, errors.New("emailjs relay needs emailjs-service-id, emailjs-template-id and emailjs-public-key")
		}
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPUsername == "" {
			return cfg, errors.New("smtp relay needs smtp-host and smtp-username")
		}
		if cfg.SMTPTo == "" {
			cfg.SMTPTo = cfg.SMTPUsername
		}
	default:
		return cfg, fmt.Errorf("invalid relay: %q", cfg.Relay)
	}
	if cfg.RelayTimeout <= 0 {
		return cfg, fmt.Errorf("invalid relay-timeout: %s", cfg.RelayTimeout)
	}
	return cfg, nil
}

func (c appConfig) serverConfig() server.Config {
	return server.Config{
		Addr:          c.Addr,
		ViewCapacity:  c.ViewCapacity,
		ViewTTL:       c.ViewTTL,
		SubmitWait:    c.SubmitWait,
		AdminUsername: c.AdminUsername,
		AdminPassword: c.AdminPassword,
		SecureCookies: c.SecureCookies,
		Debug:         c.Debug,
	}
}

// newRelay builds the configured message relay. The relay call has no
// cancellation path, so the transport timeout is its only bound.
func (c appConfig) newRelay(logger *zap.Logger) contact.Relay {
	switch c.Relay {
	case "emailjs":
		return &contact.EmailJSRelay{
			ServiceID:  c.EmailJSServiceID,
			TemplateID: c.EmailJSTemplateID,
			PublicKey:  c.EmailJSPublicKey,
			Client:     &http.Client{Timeout: c.RelayTimeout},
		}
	case "smtp":
		return &contact.SMTPRelay{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
			To:       c.SMTPTo,
		}
	default:
		return contact.LogRelay{Logger: logger.Named("relay")}
	}
}

// newLogger builds a JSON zap logger, or a console one in debug mode.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		_ = lvl.UnmarshalText([]byte(defaultLogLevel))
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.LevelKey = "severity"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = lvl
	return cfg.Build()
}
