package config

import (
	"os"
	"path/filepath"

	"github.com/3-lines-studio/easygen/internal/logger"
)

const (
	DefaultConfigPath = "easygen.yaml"
	DefaultProfile    = "default"
	DefaultFileSystem = "filesystem"
	DefaultOutputDir  = "generated"
)

// Settings is the whole settings file. Easygen is nil when the file has no
// top-level easygen section.
type Settings struct {
	BaseDir string             `env:"EASYGEN_BASE_DIR" yaml:"base_dir"`
	Logging logger.Config      `yaml:"logging"`
	Metrics MetricsConfig      `yaml:"metrics"`
	Easygen map[string]Profile `yaml:"easygen"`
}

type MetricsConfig struct {
	// Textfile is where Prometheus text-format metrics are written after a run.
	Textfile string `env:"EASYGEN_METRICS_TEXTFILE" yaml:"textfile"`
}

// Profile is one named export configuration.
type Profile struct {
	Collections       []string       `yaml:"collections"`
	FileSystem        string         `yaml:"file_system"`
	FileSystemArgs    map[string]any `yaml:"file_system_args"`
	StripLeadingSlash *bool          `yaml:"strip_leading_slash"`
	AutoIndexHTML     *bool          `yaml:"auto_index_html"`
}

func (s *Settings) SetDefaults() {
	if s.BaseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			s.BaseDir = wd
		} else {
			s.BaseDir = "."
		}
	}
	s.Logging.SetDefaults()
}

// HasExportConfig reports whether the settings define any export profiles.
func (s *Settings) HasExportConfig() bool {
	return s != nil && s.Easygen != nil
}

// Profile returns the named profile with defaults applied. A missing profile
// yields an all-defaults profile.
func (s *Settings) Profile(name string) Profile {
	p := s.Easygen[name]
	p.SetDefaults(s.BaseDir)
	return p
}

func (p *Profile) SetDefaults(baseDir string) {
	if p.FileSystem == "" {
		p.FileSystem = DefaultFileSystem
	}
	if p.FileSystemArgs == nil {
		p.FileSystemArgs = map[string]any{
			"location": filepath.Join(baseDir, DefaultOutputDir),
		}
	}
	if p.StripLeadingSlash == nil {
		p.StripLeadingSlash = boolPtr(true)
	}
	if p.AutoIndexHTML == nil {
		p.AutoIndexHTML = boolPtr(true)
	}
}

func (p Profile) StripLeadingSlashEnabled() bool {
	return p.StripLeadingSlash == nil || *p.StripLeadingSlash
}

func (p Profile) AutoIndexHTMLEnabled() bool {
	return p.AutoIndexHTML == nil || *p.AutoIndexHTML
}

func boolPtr(b bool) *bool {
	return &b
}

// LoadSettings loads the settings file at path. A missing file is not an
// error: it returns empty settings with no export configuration.
func LoadSettings(path string) (*Settings, error) {
	s, err := Load[Settings](path)
	if err != nil {
		if isNotFound(err) {
			s = &Settings{}
			applyEnvOverrides(s)
		} else {
			return nil, err
		}
	}
	s.SetDefaults()
	return s, nil
}
