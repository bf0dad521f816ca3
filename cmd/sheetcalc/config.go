package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	printValues = "values"
	printTexts  = "texts"
	printBoth   = "both"
	printNone   = "none"
)

// Config holds the runner settings. every key can also be set by the flag of
// the same name, which takes precedence over the file.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	Print     string `yaml:"print"`
	Metrics   bool   `yaml:"metrics"`
	KeepGoing bool   `yaml:"keep_going"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Print:    printValues,
	}
}

// LoadConfig reads the YAML file at path over the defaults. an empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("load config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return config, nil
}

// applyFlags overrides the config with every flag set on the command line
func (c *Config) applyFlags(flags *pflag.FlagSet, opts *options) {
	if flags.Changed("log-level") {
		c.LogLevel = opts.logLevel
	}
	if flags.Changed("print") {
		c.Print = opts.print
	}
	if flags.Changed("metrics") {
		c.Metrics = opts.metrics
	}
	if flags.Changed("keep-going") {
		c.KeepGoing = opts.keepGoing
	}
}

func (c *Config) Validate() error {
	switch c.Print {
	case printValues, printTexts, printBoth, printNone:
	default:
		return fmt.Errorf("invalid print mode %q (must be values, texts, both or none)", c.Print)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (zapcore.Level, error) {
	switch c.LogLevel {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", c.LogLevel)
}

// newLogger builds a development logger for debug runs and a production
// logger otherwise. both write to stderr.
func (c *Config) newLogger() (*zap.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}
