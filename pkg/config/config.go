// Package config loads the optional YAML configuration file and carries
// the wrapper's own execution toggles next to the xcodebuild options.
package config

import (
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sergeysova/xcodebuild-action/pkg/xcargs"
)

// Config is the full input surface: the xcodebuild options plus the
// execution toggles that never reach the xcodebuild command line. The
// toggles stay raw strings so an unset input remains distinguishable
// from "false".
type Config struct {
	xcargs.Options `yaml:",inline"`

	// UseXCPretty decides whether the build output is piped through
	// xcpretty. Required.
	UseXCPretty string `yaml:"use-xcpretty,omitempty"`
	// XCPrettyColoredOutput toggles colored formatter output. Required
	// when UseXCPretty is enabled.
	XCPrettyColoredOutput string `yaml:"xcpretty-colored-output,omitempty"`
	// DryRun skips execution and only prints the composed command. Only
	// honored in debug mode.
	DryRun string `yaml:"dry-run,omitempty"`
}

// Load reads a YAML configuration file.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "Could not open file %s.", path)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, eris.Wrapf(err, "Failed to parse %s.", path)
	}

	return cfg, nil
}

// Validate checks the wrapper toggles on top of the xcodebuild options.
// All violations are raised here, before any process is spawned.
func (c *Config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return err
	}

	if c.UseXCPretty == "" {
		return eris.New("The use-xcpretty input is required")
	}

	usePretty, err := strconv.ParseBool(c.UseXCPretty)
	if err != nil {
		return eris.Wrap(err, "The use-xcpretty input must be a boolean")
	}

	if usePretty {
		if c.XCPrettyColoredOutput == "" {
			return eris.New("The xcpretty-colored-output input is required when use-xcpretty is enabled")
		}

		if _, err := strconv.ParseBool(c.XCPrettyColoredOutput); err != nil {
			return eris.Wrap(err, "The xcpretty-colored-output input must be a boolean")
		}
	}

	if c.DryRun != "" {
		if _, err := strconv.ParseBool(c.DryRun); err != nil {
			return eris.Wrap(err, "The dry-run input must be a boolean")
		}
	}

	return nil
}

// UsesFormatter reports whether the formatter process is enabled. Only
// meaningful after Validate has passed.
func (c *Config) UsesFormatter() bool {
	value, _ := strconv.ParseBool(c.UseXCPretty)
	return value
}

// ColoredFormatter reports whether the formatter should color its
// output. Only meaningful after Validate has passed.
func (c *Config) ColoredFormatter() bool {
	value, _ := strconv.ParseBool(c.XCPrettyColoredOutput)
	return value
}

// WantsDryRun reports whether a dry run was requested. Only meaningful
// after Validate has passed.
func (c *Config) WantsDryRun() bool {
	value, _ := strconv.ParseBool(c.DryRun)
	return value
}
