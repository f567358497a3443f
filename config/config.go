// Package config turns viper state into the typed settings the commands run
// with.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/scale"
	"github.com/mmuldo/scaler/watch"
	"github.com/spf13/viper"
)

const EnvPrefix = "SCALER"

type Config struct {
	Document  string
	Database  string
	Templates string
	Log       logger.Config
	Reference scale.Reference
	Watch     watch.Config
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	w := watch.DefaultConfig()

	v.SetDefault("document", "")
	v.SetDefault("database", filepath.Join("~", ".scaler", "styles.db"))
	v.SetDefault("templates", filepath.Join("~", ".scaler", "templates"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("reference.base", scale.DefaultReference.Base.Hex())
	v.SetDefault("reference.darkest", scale.DefaultReference.Darkest.Hex())
	v.SetDefault("reference.lightest", scale.DefaultReference.Lightest.Hex())
	v.SetDefault("watch.debounce", w.Debounce)
	v.SetDefault("watch.ignore", w.Ignore)
}

// Env makes every key readable from SCALER_* variables, e.g.
// SCALER_LOG_LEVEL for log.level.
func Env(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the typed config from v. Paths have ~ expanded.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	var e error

	if c.Document, e = path(v, "document"); e != nil {
		return c, e
	}
	if c.Database, e = path(v, "database"); e != nil {
		return c, e
	}
	if c.Templates, e = path(v, "templates"); e != nil {
		return c, e
	}

	c.Log = logger.DefaultConfig()
	if c.Log.Level, e = logger.ParseLevel(v.GetString("log.level")); e != nil {
		return c, fmt.Errorf("log.level: %w", e)
	}
	switch f := strings.ToLower(v.GetString("log.format")); f {
	case "text", "json":
		c.Log.Format = f
	default:
		return c, fmt.Errorf("log.format: unknown format %q", f)
	}

	if c.Reference.Base, e = color(v, "reference.base"); e != nil {
		return c, e
	}
	if c.Reference.Darkest, e = color(v, "reference.darkest"); e != nil {
		return c, e
	}
	if c.Reference.Lightest, e = color(v, "reference.lightest"); e != nil {
		return c, e
	}

	c.Watch.Debounce = v.GetDuration("watch.debounce")
	if c.Watch.Debounce <= 0 {
		return c, fmt.Errorf("watch.debounce: must be positive, got %s", c.Watch.Debounce)
	}
	c.Watch.Ignore = v.GetStringSlice("watch.ignore")

	return c, nil
}

func path(v *viper.Viper, key string) (string, error) {
	p := v.GetString(key)
	if p == "" {
		return "", nil
	}
	p, e := homedir.Expand(p)
	if e != nil {
		return "", fmt.Errorf("%s: %w", key, e)
	}
	return p, nil
}

func color(v *viper.Viper, key string) (palette.RGB, error) {
	c, e := palette.CSSToRGB(v.GetString(key))
	if e != nil {
		return palette.RGB{}, fmt.Errorf("%s: %w", key, e)
	}
	return c, nil
}
