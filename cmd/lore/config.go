package main

import (
	"github.com/spf13/viper"

	"github.com/lore-dev/lore/internal/loreconfig"
	"github.com/lore-dev/lore/internal/lorepath"
)

var cfgFile string

// loadConfig resolves lore.toml the way the teacher's internal/config
// resolves config.yaml: environment overrides the file, which overrides
// built-in defaults. The file itself is read by loreconfig.Load
// (BurntSushi/toml); viper only arbitrates the LORE_* environment
// overlay, matching doctor/config_values.go's viper.New()-per-load style
// rather than a single global viper instance.
func loadConfig() (loreconfig.Config, error) {
	path := cfgFile
	if path == "" {
		root := dataRoot
		if root == "" {
			root = defaultDataRoot()
		}
		path = lorepath.New(root).ConfigFile()
	}

	cfg, err := loreconfig.Load(path)
	if err != nil {
		return loreconfig.Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("LORE")
	v.AutomaticEnv()
	_ = v.BindEnv("project", "LORE_PROJECT")
	_ = v.BindEnv("embedding_endpoint", "LORE_EMBEDDING_ENDPOINT")
	_ = v.BindEnv("embedding_api_key", "LORE_EMBEDDING_API_KEY")

	if p := v.GetString("project"); p != "" {
		cfg.Project = p
	}
	if endpoint := v.GetString("embedding_endpoint"); endpoint != "" {
		cfg.Embedding.Endpoint = endpoint
	}
	if key := v.GetString("embedding_api_key"); key != "" {
		cfg.Embedding.APIKey = key
	}
	return cfg, nil
}
