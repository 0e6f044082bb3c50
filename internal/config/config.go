// Package config loads the site configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete site configuration. Every field has a default; the
// YAML file and then the environment override them.
type Config struct {
	Server struct {
		Port   int    `yaml:"port"`   // listen port
		Mode   string `yaml:"mode"`   // gin mode: debug, release or test
		Static string `yaml:"static"` // directory served at /static, skipped when empty
	} `yaml:"server"`
	Data struct {
		Dir      string        `yaml:"dir"`      // directory holding journey.json, portfolio.json, about.json
		Watch    bool          `yaml:"watch"`    // reload data files when they change
		Debounce time.Duration `yaml:"debounce"` // quiet period before a reload
	} `yaml:"data"`
	Database struct {
		Path string `yaml:"path"` // sqlite file for visitors and contact messages
	} `yaml:"database"`
	Highlight struct {
		FadeBuffer       float64       `yaml:"fade_buffer"`       // fade distance around obstruction zones
		NarrowBreakpoint float64       `yaml:"narrow_breakpoint"` // viewport width where cards stack
		FrameInterval    time.Duration `yaml:"frame_interval"`    // coalescing window for view sessions
		MaxViews         int           `yaml:"max_views"`         // concurrent view sessions
	} `yaml:"highlight"`
	Typewriter struct {
		Speed time.Duration `yaml:"speed"`
		Pause time.Duration `yaml:"pause"`
		Loop  bool          `yaml:"loop"`
	} `yaml:"typewriter"`
	Contact struct {
		To        string `yaml:"to"` // where messages are delivered
		MaxLength int    `yaml:"max_length"`
		SMTPHost  string `yaml:"smtp_host"`
		SMTPPort  string `yaml:"smtp_port"`
		SMTPUser  string `yaml:"smtp_user"`
		SMTPPass  string `yaml:"smtp_pass"`
	} `yaml:"contact"`
	Admin struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"` // argon2id, see `portfolio hash-password`
	} `yaml:"admin"`
	Privacy struct {
		RetentionMonths int `yaml:"retention_months"`
	} `yaml:"privacy"`
	Resume struct {
		Path string `yaml:"path"` // PDF served at /resume.pdf
	} `yaml:"resume"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var c Config
	c.Server.Port = 8080
	c.Server.Mode = "release"
	c.Server.Static = "./static"
	c.Data.Dir = "./data"
	c.Data.Watch = true
	c.Data.Debounce = 250 * time.Millisecond
	c.Database.Path = "portfolio.db"
	c.Highlight.FadeBuffer = 200
	c.Highlight.NarrowBreakpoint = 768
	c.Highlight.FrameInterval = 16 * time.Millisecond
	c.Highlight.MaxViews = 256
	c.Typewriter.Speed = 120 * time.Millisecond
	c.Typewriter.Pause = 1500 * time.Millisecond
	c.Typewriter.Loop = true
	c.Contact.MaxLength = 5000
	c.Contact.SMTPHost = "smtp.gmail.com"
	c.Contact.SMTPPort = "587"
	c.Admin.Username = "admin"
	c.Privacy.RetentionMonths = 12
	c.Resume.Path = "./static/resume.pdf"
	return c
}

// Load builds the configuration from defaults, the YAML file at path (if
// any), the given .env files and finally the process environment.
func Load(path string, envFiles ...string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if len(envFiles) > 0 {
		// Load never overrides variables already set in the environment.
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("error loading env file: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	setString(&c.Server.Mode, "GIN_MODE")
	setString(&c.Server.Static, "STATIC_DIR")
	setString(&c.Data.Dir, "DATA_DIR")
	setString(&c.Database.Path, "DATABASE_PATH")
	setString(&c.Contact.SMTPHost, "SMTP_HOST")
	setString(&c.Contact.SMTPPort, "SMTP_PORT")
	setString(&c.Contact.SMTPUser, "SMTP_USER")
	setString(&c.Contact.SMTPPass, "SMTP_PASS")
	setString(&c.Contact.To, "TO_EMAIL")
	setString(&c.Admin.Username, "ADMIN_USERNAME")
	setString(&c.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&c.Resume.Path, "RESUME_PATH")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode))
	}
	if c.Data.Dir == "" {
		errs = append(errs, errors.New("data.dir is required"))
	}
	if c.Highlight.FadeBuffer < 0 {
		errs = append(errs, fmt.Errorf("highlight.fade_buffer must not be negative: %v", c.Highlight.FadeBuffer))
	}
	if c.Highlight.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("highlight.frame_interval must be positive: %v", c.Highlight.FrameInterval))
	}
	if c.Highlight.MaxViews <= 0 {
		errs = append(errs, fmt.Errorf("highlight.max_views must be positive: %d", c.Highlight.MaxViews))
	}
	if c.Contact.MaxLength <= 0 {
		errs = append(errs, fmt.Errorf("contact.max_length must be positive: %d", c.Contact.MaxLength))
	}
	return errors.Join(errs...)
}

// SMTPConfigured reports whether messages can be relayed by mail.
func (c Config) SMTPConfigured() bool {
	return c.Contact.SMTPUser != "" && c.Contact.SMTPPass != "" && c.Contact.To != ""
}
