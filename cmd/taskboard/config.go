package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Gentleman-Programming/taskboard/internal/store"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyDataDir = "data_dir"
	cfgKeyPort    = "port"
	cfgKeyHost    = "host"
	cfgKeyServer  = "server"

	defaultPort   = 7438
	defaultHost   = "127.0.0.1"
	defaultServer = "http://127.0.0.1:7438"
)

type config struct {
	DataDir string
	Port    int
	Host    string
	Server  string
}

func (c config) storeConfig() store.Config {
	sc := store.DefaultConfig()
	sc.DataDir = c.DataDir
	return sc
}

// loadConfig resolves settings with the precedence
// flag > TASKBOARD_* env > <data dir>/config.yaml > default.
// A missing config.yaml is not an error.
func loadConfig(cmd *cobra.Command) (config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDataDir, store.DefaultConfig().DataDir)
	v.SetDefault(cfgKeyPort, defaultPort)
	v.SetDefault(cfgKeyHost, defaultHost)
	v.SetDefault(cfgKeyServer, defaultServer)

	v.SetEnvPrefix("TASKBOARD")
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		cfgKeyDataDir: "data-dir",
		cfgKeyPort:    "port",
		cfgKeyHost:    "host",
		cfgKeyServer:  "server",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	var configPath string
	if f := cmd.Flag("config"); f != nil {
		configPath = f.Value.String()
	}
	if configPath == "" {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(v.GetString(cfgKeyDataDir))
	} else {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	port, err := strconv.Atoi(v.GetString(cfgKeyPort))
	if err != nil {
		return config{}, fmt.Errorf("invalid port %q", v.GetString(cfgKeyPort))
	}

	cfg := config{
		DataDir: v.GetString(cfgKeyDataDir),
		Port:    port,
		Host:    v.GetString(cfgKeyHost),
		Server:  v.GetString(cfgKeyServer),
	}
	if cfg.DataDir == "" {
		return config{}, errors.New("data dir is empty")
	}
	cfg.DataDir = filepath.Clean(cfg.DataDir)
	if cfg.Port < 0 || cfg.Port > 65535 {
		return config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}
