package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory for the config file, relative to home.
	GlobalConfigDir = ".config/gitinit"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides (GITINIT_ACCESS_TOKEN, ...).
	EnvPrefix = "GITINIT"
	// PathEnv overrides the config file location.
	PathEnv = "GITINIT_CONFIG"
)

// DefaultPath returns the config file location: $GITINIT_CONFIG if set,
// otherwise ~/.config/gitinit/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return ExpandTilde(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't find your home directory",
			"Set "+PathEnv+" to choose where the config lives")
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

// Resolve picks the explicit path (from --config) when given, otherwise
// DefaultPath.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return ExpandTilde(explicit), nil
	}
	return DefaultPath()
}

// Load reads config from path. A missing file is not an error: the first
// run has nothing stored yet, so defaults and environment overrides apply.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !isNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check "+path+" is valid YAML, or delete it to start over")
		}
	}

	return parseConfig(v, path)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal
// even when the file does not mention them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("access_token", "")
	v.SetDefault("client_id", d.ClientID)
	v.SetDefault("client_secret", "")
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("auth_url", d.AuthURL)
	v.SetDefault("token_url", d.TokenURL)
	v.SetDefault("callback_port", d.CallbackPort)
	v.SetDefault("default_branch_push", d.PushRef)
	v.SetDefault("protocol", d.Protocol)
}

func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}
	cfg.Protocol = strings.ToLower(strings.TrimSpace(cfg.Protocol))
	return cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.Is(err, fs.ErrNotExist) || stderrors.As(err, &notFound)
}
