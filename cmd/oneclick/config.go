package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the demo configuration file.
type config struct {
	Token     string   `yaml:"token"`
	AccessKey string   `yaml:"ak"`
	SecretKey string   `yaml:"sk"`
	Language  string   `yaml:"language,omitempty"`
	Logo      string   `yaml:"logo,omitempty"`
	Icons     []string `yaml:"icons,omitempty"`
	Operator  string   `yaml:"operator,omitempty"`
	IP        string   `yaml:"ip,omitempty"`
	Phone     string   `yaml:"phone,omitempty"` // number the demo backend reports
	AssetDir  string   `yaml:"asset_dir,omitempty"`
	Device    device   `yaml:"device"`
}

type device struct {
	NoSIM      bool `yaml:"no_sim,omitempty"`
	NoCarrier  bool `yaml:"no_carrier,omitempty"`
	Offline    bool `yaml:"offline,omitempty"`
	NoCellular bool `yaml:"no_cellular,omitempty"`
}

// readConfig reads the YAML config file.  Missing file is not an error.
func readConfig(filename string) (config, error) {
	var cfg config
	if filename == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides the credentials with ONECLICK_* environment variables.
func (c *config) applyEnv() {
	for _, v := range []struct {
		env string
		dst *string
	}{
		{"ONECLICK_TOKEN", &c.Token},
		{"ONECLICK_AK", &c.AccessKey},
		{"ONECLICK_SK", &c.SecretKey},
		{"ONECLICK_LANGUAGE", &c.Language},
	} {
		if val := os.Getenv(v.env); val != "" {
			*v.dst = val
		}
	}
}
