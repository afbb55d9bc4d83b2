package config

import (
	"fmt"
	"net/url"

	"github.com/elliotbe/gitinit/internal/errors"
)

// Validate checks the loaded config and returns a structured error for the
// first problem found.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from a newer gitinit (version %d, this build knows %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade gitinit, or delete the config file to start over")
	}

	switch cfg.Protocol {
	case ProtocolSSH, ProtocolHTTPS:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown protocol %q", cfg.Protocol),
			"Set protocol to 'ssh' or 'https'")
	}

	if cfg.CallbackPort < 1 || cfg.CallbackPort > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("callback_port %d is out of range", cfg.CallbackPort),
			"Pick a port between 1 and 65535")
	}

	if cfg.ClientID == "" {
		return errors.New(errors.ErrConfig,
			"client_id is empty",
			"Remove the key to use the built-in OAuth app")
	}

	if cfg.PushRef == "" {
		return errors.New(errors.ErrConfig,
			"default_branch_push is empty",
			"Use HEAD to push the current branch")
	}

	for _, field := range []struct{ key, value string }{
		{"api_url", cfg.APIURL},
		{"auth_url", cfg.AuthURL},
		{"token_url", cfg.TokenURL},
	} {
		if err := validateURL(field.key, field.value); err != nil {
			return err
		}
	}

	return nil
}

func validateURL(key, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s %q isn't an http(s) URL", key, value),
			"Remove the key to use the GitHub default")
	}
	return nil
}
