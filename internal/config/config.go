// Package config loads the editor's HCL configuration file. The file is
// optional; every setting has a default so the editor runs without one.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
)

// Config is the fully resolved editor configuration.
type Config struct {
	Editor Editor
	Export Export
	Bridge Bridge
}

// Editor holds session-level settings.
type Editor struct {
	LogLevel  string   `hcl:"log_level,optional"`
	LogFormat string   `hcl:"log_format,optional"`
	AssetDirs []string `hcl:"asset_dirs,optional"`
}

// Export holds save-pipeline settings.
type Export struct {
	DefaultFormat string `hcl:"default_format,optional"`
	OutputDir     string `hcl:"output_dir,optional"`
}

// Bridge holds the monitor bridge settings.
type Bridge struct {
	Enabled   bool   `hcl:"enabled,optional"`
	URL       string `hcl:"url,optional"`
	Namespace string `hcl:"namespace,optional"`
}

// fileRoot decodes the top-level blocks of an editor.hcl file.
type fileRoot struct {
	Editor *Editor  `hcl:"editor,block"`
	Export *Export  `hcl:"export,block"`
	Bridge *Bridge  `hcl:"bridge,block"`
	Remain hcl.Body `hcl:",remain"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Editor: Editor{
			LogLevel:  "info",
			LogFormat: "text",
			AssetDirs: []string{"assets"},
		},
		Export: Export{
			DefaultFormat: "workcell",
			OutputDir:     ".",
		},
		Bridge: Bridge{
			Namespace: "/editor",
		},
	}
}

// Load reads the configuration file at path and applies it over the
// defaults. A missing file is not an error; the defaults are returned.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("No configuration file present, using defaults.", "path", path)
		return cfg, nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if root.Editor != nil {
		merge(&cfg.Editor.LogLevel, root.Editor.LogLevel)
		merge(&cfg.Editor.LogFormat, root.Editor.LogFormat)
		if len(root.Editor.AssetDirs) > 0 {
			cfg.Editor.AssetDirs = root.Editor.AssetDirs
		}
	}
	if root.Export != nil {
		merge(&cfg.Export.DefaultFormat, root.Export.DefaultFormat)
		merge(&cfg.Export.OutputDir, root.Export.OutputDir)
	}
	if root.Bridge != nil {
		cfg.Bridge.Enabled = root.Bridge.Enabled
		merge(&cfg.Bridge.URL, root.Bridge.URL)
		merge(&cfg.Bridge.Namespace, root.Bridge.Namespace)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded.", "path", path)
	return cfg, nil
}

func merge(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Editor.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", c.Editor.LogLevel)
	}
	switch strings.ToLower(c.Editor.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", c.Editor.LogFormat)
	}
	switch c.Export.DefaultFormat {
	case "workcell", "urdf":
	default:
		return fmt.Errorf("invalid default_format %q: must be 'workcell' or 'urdf'", c.Export.DefaultFormat)
	}
	if c.Bridge.Enabled && c.Bridge.URL == "" {
		return fmt.Errorf("bridge is enabled but no url is set")
	}
	return nil
}

// evalContext exposes environment variables to expressions as env.NAME.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
