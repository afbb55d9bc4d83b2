package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotbe/gitinit/internal/config"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
)

// GitHubHost is the host looked up in ~/.ssh/config.
const GitHubHost = "github.com"

// KeyInfo contains information about an SSH key.
type KeyInfo struct {
	Path       string // private key
	Type       string // ed25519, rsa, ecdsa or unknown
	PublicPath string
	HasPublic  bool
}

// SSHDir returns ~/.ssh, or "" when the home directory is unknown.
func SSHDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh")
}

// DefaultKeyPaths returns the standard key locations inside dir.
func DefaultKeyPaths(dir string) []string {
	if dir == "" {
		return nil
	}
	return []string{
		filepath.Join(dir, "id_ed25519"),
		filepath.Join(dir, "id_rsa"),
		filepath.Join(dir, "id_ecdsa"),
	}
}

// FindLocalKeys returns the default keys present in dir.
func FindLocalKeys(dir string) []KeyInfo {
	var keys []KeyInfo
	for _, path := range DefaultKeyPaths(dir) {
		if key, ok := keyAt(path); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func keyAt(path string) (KeyInfo, bool) {
	if _, err := os.Stat(path); err != nil {
		return KeyInfo{}, false
	}
	pubPath := path + ".pub"
	_, pubErr := os.Stat(pubPath)
	return KeyInfo{
		Path:       path,
		Type:       inferKeyType(path),
		PublicPath: pubPath,
		HasPublic:  pubErr == nil,
	}, true
}

// PreferredKey picks ed25519, then ecdsa, then any key with a public half,
// then the first key. It returns nil for an empty list.
func PreferredKey(keys []KeyInfo) *KeyInfo {
	if len(keys) == 0 {
		return nil
	}
	for _, want := range []string{"ed25519", "ecdsa", ""} {
		for i := range keys {
			if keys[i].HasPublic && (want == "" || keys[i].Type == want) {
				return &keys[i]
			}
		}
	}
	return &keys[0]
}

// IdentityForHost returns the IdentityFile configured for host in the ssh
// config at configPath, with ~ expanded. A missing config file yields "".
func IdentityForHost(configPath, host string) (string, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't read "+configPath, "Check the file permissions")
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't parse "+configPath, "Fix the syntax error or move the file aside")
	}

	identity, err := cfg.Get(host, "IdentityFile")
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't read IdentityFile for %s", host), "")
	}
	return config.ExpandTilde(identity), nil
}

// GitHubKey finds the key ssh would use for github.com: the configured
// IdentityFile when it exists, otherwise the preferred default key.
func GitHubKey(sshDir string) (*KeyInfo, error) {
	identity, err := IdentityForHost(filepath.Join(sshDir, "config"), GitHubHost)
	if err != nil {
		return nil, err
	}
	if identity != "" {
		if key, ok := keyAt(identity); ok {
			return &key, nil
		}
	}
	return PreferredKey(FindLocalKeys(sshDir)), nil
}

// HasGitHubKey reports whether pushing over ssh is likely to work.
func HasGitHubKey(sshDir string) bool {
	key, err := GitHubKey(sshDir)
	return err == nil && key != nil && key.HasPublic
}

// Fingerprint returns the SHA256 fingerprint of the public key file, in the
// form ssh-keygen -l prints it.
func Fingerprint(pubPath string) (string, error) {
	data, err := ReadPublicKey(pubPath)
	if err != nil {
		return "", err
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(data))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Not a valid public key: "+pubPath,
			"Regenerate it with ssh-keygen -y -f <private key>")
	}
	return ssh.FingerprintSHA256(key), nil
}

// ReadPublicKey reads the contents of a public key file.
func ReadPublicKey(pubPath string) (string, error) {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to read public key: "+pubPath,
			"Check that the file exists and is readable")
	}
	return strings.TrimSpace(string(data)), nil
}

func inferKeyType(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "ed25519"):
		return "ed25519"
	case strings.Contains(base, "ecdsa"):
		return "ecdsa"
	case strings.Contains(base, "rsa"):
		return "rsa"
	default:
		return "unknown"
	}
}
