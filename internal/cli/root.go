package cli

import (
	"context"
	"os"

	"github.com/elliotbe/gitinit/internal/config"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/logger"
	"github.com/elliotbe/gitinit/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile    string
	verbose    bool
	noColor    bool
	forceHTTPS bool
	logout     bool
)

var rootCmd = &cobra.Command{
	Use:   "gitinit [name] [description]",
	Short: "Create a git repository and publish it to GitHub",
	Long: `gitinit turns the current directory into a git repository, creates the
matching repository on GitHub and pushes the first commit.

The first run opens your browser to authorize gitinit on GitHub; the token is
stored in ~/.config/gitinit/config.yaml.

Examples:
  gitinit
  gitinit my-project
  gitinit my-project "A short description"
  gitinit --https`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.ConfigureColors(noColor)
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd.Context(), cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/gitinit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "print the commands being run")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&forceHTTPS, "https", false, "push over HTTPS even when an SSH key is set up")
	rootCmd.Flags().BoolVar(&logout, "logout", false, "forget the stored GitHub token before running")

	rootCmd.Version = formatVersion(version)
	rootCmd.SetVersionTemplate(versionTemplate())
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

func runInit(ctx context.Context, cmd *cobra.Command, args []string) error {
	opts := InitOptions{ForceHTTPS: forceHTTPS, Logout: logout}
	if len(args) > 0 {
		opts.Name = args[0]
	}
	if len(args) > 1 {
		opts.Description = args[1]
	}

	var err error
	if opts.ConfigPath, err = config.Resolve(Config()); err != nil {
		return err
	}
	if opts.Dir, err = os.Getwd(); err != nil {
		return errors.WrapWithCode(err, errors.ErrWorkspace,
			"Failed to get working directory",
			"Check directory permissions")
	}

	out := cmd.OutOrStdout()
	ui.PrintHeader(out, ui.HeaderInfo{Version: formatVersion(version), WorkDir: opts.Dir})

	log := logger.NewEnvLogger("gitinit")
	deps := DefaultDependencies(cmd.InOrStdin(), out, log)
	if c, ok := deps.Prompter.(interface{ Close() error }); ok {
		defer c.Close()
	}

	_, err = NewWorkflow(opts, deps).Run(ctx)
	return err
}

// Execute runs the root command and exits with a non-zero status on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}
		ui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
