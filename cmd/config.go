package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configDirName  = "sgxtool"
	envPrefix      = "SGXTOOL"

	cfgKeyArch    = "arch"
	cfgKeyFormat  = "format"
	cfgKeyVerbose = "verbose"

	defaultArch = "x86_64"
)

// configPath is set by --config.
var configPath string

// loadConfig returns settings from, in increasing priority, the config
// file, SGXTOOL_* environment variables and flags bound later by the
// caller. A missing default config file is not an error; a missing
// explicit one is.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyArch, defaultArch)
	v.SetDefault(cfgKeyFormat, "textproto")
	v.SetDefault(cfgKeyVerbose, false)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return v, nil
		}
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(filepath.Join(dir, configDirName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}
