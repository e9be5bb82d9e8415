package app

import "errors"

// Config holds everything an App instance needs to run one editing session.
type Config struct {
	DocPath    string // workcell document to open
	ConfigPath string // optional editor.hcl
	SavePath   string // where to write the document; empty disables saving
	ExportDir  string // output directory for URDF package export
	Format     string // "workcell" or "urdf"; empty uses the configured default

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.DocPath == "" {
		return nil, errors.New("DocPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
