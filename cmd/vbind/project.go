package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/source"
)

// projectFlags are the flags shared by render and serve. Set flags win
// over vbind.yaml.
type projectFlags struct {
	configPath string
	template   string
	data       string
	el         string
	maxDepth   int
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to vbind.yaml (default: nearest in parent directories)")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Template file or s3:// URL")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "JSON, YAML or TOML data file or s3:// URL")
	cmd.Flags().StringVar(&f.el, "el", "", "Selector of the root element (default: body)")
	cmd.Flags().IntVar(&f.maxDepth, "max-update-depth", 0, "Bound on nested update passes")
}

// project is a loaded template and data store.
type project struct {
	cfg          *config.Config
	templatePath string
	dataPath     string
	markup       string
	data         map[string]any
}

// localPaths returns the files the project was read from, skipping
// s3:// sources.
func (p *project) localPaths() []string {
	var paths []string
	for _, path := range []string{p.cfg.Path(), p.templatePath, p.dataPath} {
		if path != "" && !source.IsS3(path) {
			paths = append(paths, path)
		}
	}
	return paths
}

func (f *projectFlags) load(ctx context.Context) (*project, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	templatePath, dataPath := cfg.TemplatePath(), cfg.DataPath()
	if f.template != "" {
		templatePath = f.template
	}
	if f.data != "" {
		dataPath = f.data
	}
	if f.el != "" {
		cfg.El = f.el
	}
	if f.maxDepth > 0 {
		cfg.MaxUpdateDepth = f.maxDepth
	}
	if templatePath == "" {
		return nil, errors.New(errors.CodeSourceLoad).
			WithDetail("no template given").
			WithSuggestion("Pass --template or set template in " + config.ConfigFileName)
	}

	loader := source.NewLoader(source.Options{
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.UsePathStyle,
	})

	markup, err := loader.Load(ctx, templatePath)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if dataPath != "" {
		if data, err = loader.LoadData(ctx, dataPath); err != nil {
			return nil, err
		}
	}
	return &project{
		cfg:          cfg,
		templatePath: templatePath,
		dataPath:     dataPath,
		markup:       string(markup),
		data:         data,
	}, nil
}

// loadConfig reads the explicit config file, or the nearest vbind.yaml
// when there is one, or falls back to defaults.
func (f *projectFlags) loadConfig() (*config.Config, error) {
	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	cfg, err := config.LoadFromWorkingDir()
	if errors.HasCode(err, errors.CodeConfigNotFound) {
		return config.New(), nil
	}
	return cfg, err
}
