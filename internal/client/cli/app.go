// Package cli implements the taskctl commands on top of the REST client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/client/api"
	"github.com/dmitrijs2005/taskflow/internal/client/config"
	"github.com/dmitrijs2005/taskflow/internal/client/session"
	"github.com/spf13/pflag"
)

// ErrUsage is returned for unknown commands and bad arguments; the usage
// text has already been printed.
var ErrUsage = errors.New("usage error")

type App struct {
	config *config.Config
	api    *api.Client
	tokens *session.TokenStore
	upload *http.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.Timeout),
		tokens: session.NewTokenStore(c.TokenFile),
		upload: &http.Client{},
		reader: bufio.NewReader(in),
		out:    out,
	}
}

type command struct {
	name    string
	args    string
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{"register", "[--name N] [--email E]", "create an account and log in", (*App).register},
	{"login", "[--email E]", "log in and cache the token", (*App).login},
	{"logout", "", "forget the cached token", (*App).logout},
	{"whoami", "", "show the logged-in user", (*App).whoami},
	{"tasks", "[--project ID]", "list own and assigned tasks", (*App).listTasks},
	{"add", "[flags] TITLE...", "create a task", (*App).addTask},
	{"done", "TASK_ID", "mark a task done", (*App).doneTask},
	{"status", "TASK_ID STATUS", "set a task status", (*App).setStatus},
	{"rm", "TASK_ID", "delete a task", (*App).removeTask},
	{"attach", "TASK_ID FILE", "upload a file to a task", (*App).attach},
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return ErrUsage
	}

	name, rest := args[0], args[1:]
	if name == "help" || name == "-h" || name == "--help" {
		a.usage()
		return nil
	}

	for _, c := range commands {
		if c.name == name {
			return c.run(a, ctx, rest)
		}
	}

	fmt.Fprintf(a.out, "Unknown command: %s\n", name)
	a.usage()
	return ErrUsage
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: taskctl [-a URL] [--token-file PATH] [--timeout D] COMMAND [ARGS]")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(a.out, "  %-9s %-26s %s\n", c.name, c.args, c.summary)
	}
}

func (a *App) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// authorize loads the cached token into the API client.
func (a *App) authorize() error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("not logged in, run 'taskctl login'")
	}
	a.api.SetToken(token)
	return nil
}

// explain adds a hint to errors the user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w; run 'taskctl login'", err)
	case errors.Is(err, api.ErrUnavailable):
		return fmt.Errorf("%w; is the server running?", err)
	default:
		return err
	}
}
