package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig holds defaults read from --config. Flags given on the command
// line always win.
type fileConfig struct {
	Model    string `yaml:"model"`
	Out      string `yaml:"out"`
	Device   string `yaml:"device"`
	UI       *bool  `yaml:"ui"`
	LogLevel string `yaml:"log_level"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// apply copies config values onto flags of cmd that were not set explicitly.
func (c *fileConfig) apply(cmd *cobra.Command) error {
	values := map[string]string{
		"model":     c.Model,
		"out":       c.Out,
		"device":    c.Device,
		"log-level": c.LogLevel,
	}
	if c.UI != nil {
		values["ui"] = strconv.FormatBool(*c.UI)
	}
	for name, v := range values {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed || v == "" {
			continue
		}
		if err := cmd.Flags().Set(name, v); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}
	return nil
}
