package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"epubdeco/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	RectsConfig struct {
		MergeTolerance float64 `yaml:"merge_tolerance" validate:"gte=0"`
		MinArea        float64 `yaml:"min_area" validate:"gte=0"`
		MergeLines     bool    `yaml:"merge_lines"`
	}

	EngineConfig struct {
		HitTolerance       float64     `yaml:"hit_tolerance" validate:"gte=0"`
		ActivableAttribute string      `yaml:"activable_attribute" validate:"required"`
		GroupIDPrefix      string      `yaml:"group_id_prefix" validate:"required"`
		Activation         bool        `yaml:"activation"`
		CompareExtras      bool        `yaml:"compare_extras"`
		Rects              RectsConfig `yaml:"rects"`
	}

	StyleConfig struct {
		Layout     common.LayoutMode  `yaml:"layout" validate:"required"`
		Width      common.WidthPolicy `yaml:"width" validate:"required"`
		Stylesheet string             `yaml:"stylesheet,omitempty"`
		Element    string             `yaml:"element,omitempty"`
	}

	Config struct {
		Version   int                    `yaml:"version" validate:"eq=1"`
		Engine    EngineConfig           `yaml:"engine"`
		Styles    map[string]StyleConfig `yaml:"styles" validate:"dive,keys,required,endkeys"`
		Logging   LoggingConfig          `yaml:"logging"`
		Reporting ReporterConfig         `yaml:"reporting"`
	}
)

// Style sheets and element templates are CSS and markup, braces there are
// not template actions.
var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField("stylesheet"),
	gencfg.WithDoNotExpandField("element"),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if !process {
		return cfg, nil
	}
	if err := gencfg.Sanitize(cfg); err != nil {
		return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
	}
	if err := gencfg.Validate(cfg); err != nil {
		return nil, fmt.Errorf("failed to validate configuration: %w", err)
	}
	for id, style := range cfg.Styles {
		if !style.Layout.IsValid() || !style.Width.IsValid() {
			return nil, fmt.Errorf("failed to validate configuration: style %q has invalid layout (%s) or width (%s)", id, style.Layout, style.Width)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
