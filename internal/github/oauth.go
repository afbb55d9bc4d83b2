// Package github signs the user in through the OAuth web flow and creates
// repositories through the REST API.
package github

import (
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cli/browser"
	"github.com/elliotbe/gitinit/internal/ansi"
	"github.com/elliotbe/gitinit/internal/errors"
	"github.com/elliotbe/gitinit/internal/logger"
	"github.com/elliotbe/gitinit/internal/ui"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

// Scope requested for the token: full control of private repositories.
const Scope = "repo"

//go:embed callback.html
var callbackPage []byte

// OAuthConfig is what the Authenticator needs from the user config.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	// Port of the local redirect server. 0 picks a free port.
	Port int
}

// Spinner is shown while the code is exchanged for a token.
type Spinner interface {
	Start()
	Stop()
}

// Authenticator runs the OAuth web flow against a local redirect server.
type Authenticator struct {
	conf OAuthConfig
	out  io.Writer
	log  logger.Logger

	// OpenURL opens the authorize page. Failures are logged and the user
	// copies the printed URL instead.
	OpenURL func(url string) error

	// Spinner defaults to a ui.Spinner writing to out.
	Spinner Spinner

	// HTTPClient is used for the token exchange.
	HTTPClient *http.Client

	shutdownTimeout time.Duration
}

// NewAuthenticator prints instructions to out.
func NewAuthenticator(conf OAuthConfig, out io.Writer, log logger.Logger) *Authenticator {
	if log == nil {
		log = logger.Noop()
	}
	spinner := ui.NewSpinner(ui.DefaultSpinnerMessage)
	spinner.SetOutput(func(s string) { _, _ = io.WriteString(out, s) })

	return &Authenticator{
		conf:            conf,
		out:             out,
		log:             log,
		OpenURL:         browser.OpenURL,
		Spinner:         spinner,
		HTTPClient:      http.DefaultClient,
		shutdownTimeout: 2 * time.Second,
	}
}

func (a *Authenticator) endpoint() oauth2.Endpoint {
	ep := githuboauth.Endpoint
	if a.conf.AuthURL != "" {
		ep.AuthURL = a.conf.AuthURL
	}
	if a.conf.TokenURL != "" {
		ep.TokenURL = a.conf.TokenURL
	}
	ep.AuthStyle = oauth2.AuthStyleInParams
	return ep
}

type callbackResult struct {
	code string
	err  error
}

// Authenticate sends the user to GitHub to approve gitinit and returns the
// access token. username pre-fills the GitHub login form.
func (a *Authenticator) Authenticate(ctx context.Context, username string) (string, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", strconv.Itoa(a.conf.Port)))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrAuth,
			fmt.Sprintf("Couldn't start the login callback server on port %d", a.conf.Port),
			"Free the port or set callback_port in the config")
	}
	port := listener.Addr().(*net.TCPAddr).Port
	a.log.Debug("callback server listening on port %d", port)

	state := uuid.NewString()
	oauthConf := &oauth2.Config{
		ClientID:     a.conf.ClientID,
		ClientSecret: a.conf.ClientSecret,
		Endpoint:     a.endpoint(),
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
		Scopes:       []string{Scope},
	}

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           a.callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer a.shutdown(srv)

	authURL := oauthConf.AuthCodeURL(state, oauth2.SetAuthURLParam("login", username))
	a.announce(authURL)

	var code string
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-serveErr:
		return "", errors.WrapWithCode(err, errors.ErrAuth, "The login callback server stopped", "")
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		code = res.code
	}

	a.Spinner.Start()
	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, a.HTTPClient)
	token, err := oauthConf.Exchange(exchangeCtx, code)
	a.Spinner.Stop()
	_, _ = io.WriteString(a.out, "\n")

	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrAuth,
			"GitHub refused to hand out a token",
			"Check GITINIT_CLIENT_SECRET is set for the OAuth app")
	}
	if token.AccessToken == "" {
		return "", errors.New(errors.ErrAuth, "GitHub returned an empty token", "Try signing in again")
	}
	a.log.Debug("received token of type %s", token.TokenType)
	return token.AccessToken, nil
}

func (a *Authenticator) announce(authURL string) {
	if err := a.OpenURL(authURL); err != nil {
		a.log.Debug("couldn't open a browser: %v", err)
		fmt.Fprintf(a.out, "%s\n%s\n",
			ansi.Yellow("Copy/paste this url in your browser to authorize gitinit on GitHub:"),
			ansi.DarkWhite(authURL))
		return
	}
	fmt.Fprintf(a.out, "%s\n%s\n",
		ansi.Yellow("Opening browser… Copy/paste the url otherwise to authorize gitinit on GitHub:"),
		ansi.DarkWhite(authURL))
}

func (a *Authenticator) callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			a.log.Warn("callback state mismatch")
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliver(results, callbackResult{err: errors.New(errors.ErrAuth,
				"The login response doesn't match the request that was sent",
				"Start over; another program may be using the callback port")})
			return
		}
		if reason := q.Get("error"); reason != "" {
			http.Error(w, "authorization failed: "+reason, http.StatusForbidden)
			deliver(results, callbackResult{err: errors.New(errors.ErrAuth,
				"GitHub authorization failed: "+reason,
				q.Get("error_description"))})
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			deliver(results, callbackResult{err: errors.New(errors.ErrAuth,
				"GitHub didn't send an authorization code", "Try signing in again")})
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(callbackPage)
		deliver(results, callbackResult{code: code})
	})

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 Not Found", http.StatusNotFound)
	})

	return mux
}

// deliver keeps the first result; later callbacks are ignored.
func deliver(results chan<- callbackResult, res callbackResult) {
	select {
	case results <- res:
	default:
	}
}

func (a *Authenticator) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.log.Debug("callback server shutdown: %v", err)
		return
	}
	a.log.Debug("callback server closed")
}
