// Package cli implements the gitinit command-line interface.
//
// The root command does all the work:
//
//	gitinit [name] [description]
//
// It refuses to run inside an existing repository or an empty directory,
// signs the user in to GitHub through the OAuth web flow when no token is
// stored, asks for the repository details and then publishes the directory:
//
//  1. Append the chosen entries to .gitignore
//  2. git init, git add ., git commit
//  3. Create the GitHub repository
//  4. git remote add origin, git push
//
// Any failure in those steps rolls the local repository back and deletes
// the remote one if it was already created.
//
// # Flags
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. --https forces an HTTPS remote even when an SSH key for
// github.com exists, and --logout forgets the stored token before running.
//
// # Testing
//
// Workflow takes its collaborators through Dependencies so tests can drive
// the whole run with scripted answers, a recording git runner and an
// httptest GitHub API.
package cli
