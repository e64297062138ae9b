package config

import (
	"strings"
	"time"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Settings are the run settings read from a properties file.
type Settings struct {
	Timeout         time.Duration
	EnableDNN       bool
	ForceDNN        bool
	DatasetLanguage string
	Seed            int64
	PageToDisk      bool
	// Config is the path of a sweeping YAML configuration. Empty means the built-in one.
	Config              string
	BlockedTransformers []string
}

// DefaultSettings are the settings used when no properties file is given.
func DefaultSettings() Settings {
	return Settings{Timeout: time.Hour, DatasetLanguage: "eng", PageToDisk: true}
}

// LoadSettings reads settings from a properties file. Missing keys keep their defaults.
func LoadSettings(path string) (Settings, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Settings{}, errors.Wrapf(ErrConfiguration, "loading %s: %v", path, err)
	}
	return settingsFrom(p)
}

// ParseSettings reads settings from the text of a properties file.
func ParseSettings(s string) (Settings, error) {
	p, err := properties.LoadString(s)
	if err != nil {
		return Settings{}, errors.Wrapf(ErrConfiguration, "parsing settings: %v", err)
	}
	return settingsFrom(p)
}

func settingsFrom(p *properties.Properties) (Settings, error) {
	d := DefaultSettings()
	timeout := p.GetInt("sweep.timeout_seconds", int(d.Timeout/time.Second))
	if timeout <= 0 {
		return Settings{}, errors.Wrapf(ErrConfiguration, "sweep.timeout_seconds must be positive, got %d", timeout)
	}
	s := Settings{
		Timeout:         time.Duration(timeout) * time.Second,
		EnableDNN:       p.GetBool("sweep.enable_dnn", d.EnableDNN),
		ForceDNN:        p.GetBool("sweep.force_dnn", d.ForceDNN),
		DatasetLanguage: p.GetString("sweep.dataset_language", d.DatasetLanguage),
		Seed:            p.GetInt64("sweep.seed", d.Seed),
		PageToDisk:      p.GetBool("sweep.page_to_disk", d.PageToDisk),
		Config:          p.GetString("sweep.config", ""),
	}
	for _, b := range strings.Split(p.GetString("sweep.blocked_transformers", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			s.BlockedTransformers = append(s.BlockedTransformers, b)
		}
	}
	return s, nil
}

// Flags are the assembly flags of the settings.
func (s Settings) Flags() Flags {
	return Flags{EnableDNN: s.EnableDNN, ForceDNN: s.ForceDNN, DatasetLanguage: s.DatasetLanguage}
}
