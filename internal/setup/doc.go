// Package setup inspects the local SSH setup to decide how the new GitHub
// remote should be addressed.
//
// GitHubKey resolves the key ssh would offer to github.com: the IdentityFile
// from ~/.ssh/config when one is configured, otherwise the best default key
// (ed25519 over ECDSA over RSA). When no usable key exists the CLI falls
// back to the HTTPS clone URL.
//
// Fingerprint prints a key the way ssh-keygen -l does, so users can match it
// against the keys listed in their GitHub settings.
package setup
