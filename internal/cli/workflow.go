package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/elliotbe/gitinit/internal/config"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/exec"
	"github.com/elliotbe/gitinit/internal/git"
	"github.com/elliotbe/gitinit/internal/github"
	"github.com/elliotbe/gitinit/internal/logger"
	"github.com/elliotbe/gitinit/internal/prompt"
	"github.com/elliotbe/gitinit/internal/setup"
	"github.com/elliotbe/gitinit/internal/ui"
	"github.com/elliotbe/gitinit/internal/util"
)

// RemoteName is the name of the remote pointing at the new repository.
const RemoteName = "origin"

// PublishMessage is shown by the spinner while the repository is published.
const PublishMessage = "Initializing your repository and pushing it to GitHub…"

// Asker asks a batch of questions. *prompt.Prompter implements it.
type Asker interface {
	Ask(ctx context.Context, questions ...prompt.Question) (*prompt.Answers, error)
}

// TokenSource signs the user in and returns an access token.
// *github.Authenticator implements it.
type TokenSource interface {
	Authenticate(ctx context.Context, username string) (string, error)
}

// RepoService is the part of the GitHub API the workflow uses.
// *github.Client implements it.
type RepoService interface {
	CurrentUser(ctx context.Context) (*github.User, error)
	CreateRepo(ctx context.Context, req github.RepoRequest) (*github.Repository, error)
	DeleteRepo(ctx context.Context, owner, name string) error
}

// Spinner is started around the publish steps.
type Spinner interface {
	Start()
	Stop()
}

// InitOptions are the command-line inputs of a run.
type InitOptions struct {
	Dir         string // Directory to publish
	Name        string // Prefill for the repository name
	Description string // Prefill for the description
	ConfigPath  string // Resolved config file path
	ForceHTTPS  bool   // Use the HTTPS remote even with an SSH key
	Logout      bool   // Forget the stored token first
}

// Dependencies are the collaborators of a Workflow.
type Dependencies struct {
	Out         io.Writer
	Interactive bool
	Prompter    Asker
	Runner      exec.Runner
	Auth        func(cfg *config.Config) TokenSource
	NewClient   func(cfg *config.Config, token string) RepoService
	HasSSHKey   func() bool
	Spinner     Spinner
	Log         logger.Logger
}

// DefaultDependencies wires the real terminal, git binary and GitHub API.
func DefaultDependencies(in io.Reader, out io.Writer, log logger.Logger) Dependencies {
	spinner := ui.NewSpinner(PublishMessage)
	spinner.SetOutput(func(s string) { _, _ = io.WriteString(out, s) })

	return Dependencies{
		Out:         out,
		Interactive: prompt.IsInteractive(in),
		Prompter:    prompt.New(in, out, prompt.WithLogger(log)),
		Runner:      exec.NewLocal(log),
		Auth: func(cfg *config.Config) TokenSource {
			return github.NewAuthenticator(github.OAuthConfig{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				AuthURL:      cfg.AuthURL,
				TokenURL:     cfg.TokenURL,
				Port:         cfg.CallbackPort,
			}, out, log)
		},
		NewClient: func(cfg *config.Config, token string) RepoService {
			return github.NewClient(cfg.APIURL, token, github.WithClientLogger(log))
		},
		HasSSHKey: func() bool { return setup.HasGitHubKey(setup.SSHDir()) },
		Spinner:   spinner,
		Log:       log,
	}
}

// Workflow turns a directory into a GitHub repository.
type Workflow struct {
	opts InitOptions
	deps Dependencies
}

// NewWorkflow returns a workflow for opts.
func NewWorkflow(opts InitOptions, deps Dependencies) *Workflow {
	if deps.Log == nil {
		deps.Log = logger.Noop()
	}
	return &Workflow{opts: opts, deps: deps}
}

// Run checks the directory, signs in, asks for the repository details and
// publishes. On a publish failure the local repository is rolled back and
// the remote one deleted.
func (w *Workflow) Run(ctx context.Context) (*github.Repository, error) {
	if !w.deps.Interactive {
		return nil, errors.New(errors.ErrPrompt,
			"gitinit needs an interactive terminal",
			"Run it from a terminal, not through a pipe or a script")
	}

	listing, err := w.checkWorkspace()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(w.opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if w.opts.Logout {
		if err := w.logout(cfg); err != nil {
			return nil, err
		}
	}

	client, user, err := w.connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	w.deps.Log.Debug("signed in as %s", user.Login)

	answers, err := w.deps.Prompter.Ask(ctx, repoQuestions(w.opts.Dir, w.opts.Name, w.opts.Description, listing)...)
	if err != nil {
		return nil, err
	}
	repoInfo := parseRepoAnswers(answers)

	repo, err := w.publish(ctx, cfg, client, repoInfo)
	if err != nil {
		return nil, err
	}

	w.printSuccess(repo, repoInfo.Ignore)
	return repo, nil
}

func (w *Workflow) checkWorkspace() ([]string, error) {
	if git.IsRepository(w.opts.Dir) {
		return nil, errors.New(errors.ErrWorkspace,
			"Already a git repository! Aborting…",
			"Run gitinit in a directory that isn't under version control yet")
	}
	listing, err := git.ListDir(w.opts.Dir)
	if err != nil {
		return nil, err
	}
	if len(listing) == 0 {
		return nil, errors.New(errors.ErrWorkspace,
			"You can't commit an empty repository! Aborting…",
			"Add at least one file first")
	}
	return listing, nil
}

func (w *Workflow) logout(cfg *config.Config) error {
	if err := config.RemoveKey(w.opts.ConfigPath, "access_token"); err != nil {
		return err
	}
	cfg.AccessToken = ""
	fmt.Fprintln(w.deps.Out, ansi.Yellow("Signed out of GitHub."))
	return nil
}

// connect returns a client for a working token. A stored token GitHub no
// longer accepts is dropped and the user signs in again.
func (w *Workflow) connect(ctx context.Context, cfg *config.Config) (RepoService, *github.User, error) {
	if cfg.HasToken() {
		client := w.deps.NewClient(cfg, cfg.AccessToken)
		user, err := client.CurrentUser(ctx)
		if err == nil {
			return client, user, nil
		}
		if !errors.IsCode(err, errors.ErrAuth) {
			return nil, nil, err
		}
		w.deps.Log.Warn("stored token rejected, signing in again")
		fmt.Fprintln(w.deps.Out, ansi.Yellow("Your GitHub authorization expired, let's sign in again."))
		if err := config.RemoveKey(w.opts.ConfigPath, "access_token"); err != nil {
			return nil, nil, err
		}
	}

	token, err := w.login(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client := w.deps.NewClient(cfg, token)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, user, nil
}

func (w *Workflow) login(ctx context.Context, cfg *config.Config) (string, error) {
	answers, err := w.deps.Prompter.Ask(ctx, usernameQuestion())
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w.deps.Out)

	token, err := w.deps.Auth(cfg).Authenticate(ctx, answers.String(qUsername))
	if err != nil {
		return "", err
	}
	if err := config.SetValue(w.opts.ConfigPath, "access_token", token); err != nil {
		return "", err
	}
	cfg.AccessToken = token
	w.deps.Log.Debug("token saved to %s", w.opts.ConfigPath)
	return token, nil
}

func (w *Workflow) publish(ctx context.Context, cfg *config.Config, client RepoService, info repoAnswers) (repo *github.Repository, err error) {
	local := git.NewRepo(w.opts.Dir, w.deps.Runner)

	w.deps.Spinner.Start()
	defer func() {
		w.deps.Spinner.Stop()
		if err != nil {
			w.undo(local, client, repo)
			repo = nil
		}
	}()

	if err = local.WriteGitignore(info.Ignore); err != nil {
		return nil, err
	}
	if err = local.Init(ctx); err != nil {
		return nil, err
	}
	if err = local.AddAll(ctx); err != nil {
		return nil, err
	}
	if err = local.Commit(ctx, git.InitialCommitMessage); err != nil {
		return nil, err
	}

	repo, err = client.CreateRepo(ctx, github.RepoRequest{
		Name:        info.Name,
		Description: info.Description,
		Private:     info.Private,
	})
	if err != nil {
		return nil, err
	}
	w.deps.Log.Debug("created %s", repo.FullName)

	if err = local.AddRemote(ctx, RemoteName, w.remoteURL(cfg, repo)); err != nil {
		return repo, err
	}
	if err = local.Push(ctx, RemoteName, cfg.PushRef); err != nil {
		return repo, err
	}
	return repo, nil
}

// undo rolls back whatever publish managed to do. Failures are logged: the
// original error is the one reported.
func (w *Workflow) undo(local *git.Repo, client RepoService, repo *github.Repository) {
	if err := local.Rollback(); err != nil {
		w.deps.Log.Error("rollback failed: %v", err)
	}
	if repo == nil {
		return
	}
	// The run context may be the reason publish failed.
	if err := client.DeleteRepo(context.Background(), repo.Owner.Login, repo.Name); err != nil {
		w.deps.Log.Error("couldn't delete %s: %v", repo.FullName, err)
		fmt.Fprintln(w.deps.Out, ansi.Yellow("The GitHub repository "+repo.FullName+" was left behind, delete it by hand."))
	}
}

// remoteURL prefers the SSH URL when a key for github.com is available.
func (w *Workflow) remoteURL(cfg *config.Config, repo *github.Repository) string {
	useSSH := repo.SSHURL != "" &&
		!w.opts.ForceHTTPS &&
		cfg.Protocol != config.ProtocolHTTPS &&
		w.deps.HasSSHKey()
	if useSSH || repo.CloneURL == "" {
		return repo.SSHURL
	}
	return repo.CloneURL
}

func (w *Workflow) printSuccess(repo *github.Repository, ignored []string) {
	out := w.deps.Out
	if len(ignored) > 0 {
		fmt.Fprintf(out, "%s %s\n",
			ansi.DarkWhite(fmt.Sprintf("Ignored %d %s:", len(ignored), util.Pluralize(len(ignored), "entry", "entries"))),
			ansi.DarkWhite(util.JoinOrNone(ignored)))
	}
	link := repo.HTMLURL
	if link == "" {
		link = "https://github.com/" + repo.FullName
	}
	fmt.Fprintln(out, ansi.Green("Success! You can go see your repo at:"), link)
	fmt.Fprintln(out, ansi.Green("Thanks for using gitinit!"))
}
