package config

// CurrentConfigVersion is the schema version for the config file.
const CurrentConfigVersion = 1

// Protocols accepted for the pushed remote.
const (
	ProtocolSSH   = "ssh"
	ProtocolHTTPS = "https"
)

// GitHub defaults. The client ID belongs to the gitinit OAuth app.
const (
	DefaultClientID     = "aa50f82a79aac4c097c0"
	DefaultAPIURL       = "https://api.github.com"
	DefaultAuthURL      = "https://github.com/login/oauth/authorize"
	DefaultTokenURL     = "https://github.com/login/oauth/access_token"
	DefaultCallbackPort = 5000
	DefaultPushRef      = "HEAD"
)

// Config is the contents of ~/.config/gitinit/config.yaml. Every key can
// also be set from the environment as GITINIT_<KEY>.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// AccessToken is the OAuth token stored after the first login.
	AccessToken string `yaml:"access_token,omitempty" mapstructure:"access_token"`

	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret,omitempty" mapstructure:"client_secret"`

	APIURL   string `yaml:"api_url" mapstructure:"api_url"`
	AuthURL  string `yaml:"auth_url" mapstructure:"auth_url"`
	TokenURL string `yaml:"token_url" mapstructure:"token_url"`

	// CallbackPort is where the local OAuth redirect server listens.
	CallbackPort int `yaml:"callback_port" mapstructure:"callback_port"`

	// PushRef is the ref pushed to the new remote.
	PushRef string `yaml:"default_branch_push" mapstructure:"default_branch_push"`

	// Protocol picks the remote URL: "ssh" when a GitHub key is available,
	// or "https".
	Protocol string `yaml:"protocol" mapstructure:"protocol"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		ClientID:     DefaultClientID,
		APIURL:       DefaultAPIURL,
		AuthURL:      DefaultAuthURL,
		TokenURL:     DefaultTokenURL,
		CallbackPort: DefaultCallbackPort,
		PushRef:      DefaultPushRef,
		Protocol:     ProtocolSSH,
	}
}

// HasToken reports whether a token is stored.
func (c *Config) HasToken() bool {
	return c.AccessToken != ""
}
