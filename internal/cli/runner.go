package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/cards/internal/catalog"
	"github.com/idilsaglam/cards/internal/config"
	"github.com/idilsaglam/cards/internal/mockapi"
	"github.com/idilsaglam/cards/internal/model"
	"github.com/idilsaglam/cards/internal/notify"
	"github.com/idilsaglam/cards/internal/remote"
	"github.com/idilsaglam/cards/internal/tui"
	"github.com/idilsaglam/cards/internal/ui"
)

const screenTitle = "Cats from the collection"

// Env carries what a command needs besides its arguments.
type Env struct {
	Config config.Config
	Logger zerolog.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, env Env) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doInteractive(ctx, env)

	case "cat":
		return doPrint(ctx, env)

	case "add":
		return doAdd(ctx, env)

	case "update":
		id, code := idArg("update", a)
		if code != 0 {
			return code
		}
		return doUpdate(ctx, env, id)

	case "rm":
		id, code := idArg("rm", a)
		if code != 0 {
			return code
		}
		return doRemove(ctx, env, id)

	case "mock":
		return doMock(ctx, env, a)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`cards - cat cards backed by a REST collection

Usage:
  cards [flags] <subcommand> [args]

Subcommands:
  ls                 Interactive card list (a add, u update, d delete, r reload)
  cat                Load and print the cards
  add                Create the three sample cats in one request
  update <id>        Apply the sample update to record <id>
  rm <id>            Delete record <id>
  mock [-addr :8089] Serve an in-memory collection at http://<addr>/api

Flags:
  -base-url, -per-page, -timeout, -api-key, -theme, -color, -no-color,
  -log-file, -debug (see cards -h)

Examples:
  cards ls
  cards -base-url http://localhost:8089/api cat
  cards update 2
  cards rm 3
`)
}

func idArg(cmd string, a []string) (int, int) {
	if len(a) != 1 {
		ui.Fail(fmt.Sprintf("usage: cards %s <id>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- subcommand impls ----------------

func newController(env Env, n notify.Notifier) *catalog.Controller {
	c := env.Config
	client := remote.New(c.BaseURL,
		remote.WithTimeout(c.Timeout),
		remote.WithAPIKey(c.APIKey),
		remote.WithLogger(env.Logger.With().Str("component", "remote").Logger()),
	)
	return catalog.New(client, n,
		catalog.WithPageSize(c.PerPage),
		catalog.WithLogger(env.Logger.With().Str("component", "catalog").Logger()),
	)
}

func doInteractive(ctx context.Context, env Env) int {
	notices := tui.NewNotifier()
	ctrl := newController(env, notices)
	if err := tui.Run(ctx, ctrl, notices, screenTitle); err != nil && !errors.Is(err, context.Canceled) {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

// loaded builds a controller that reports to the terminal and loads it.
func loaded(ctx context.Context, env Env) (*catalog.Controller, int) {
	ctrl := newController(env, ui.Printer{})
	if err := ctrl.Load(ctx); err != nil {
		return nil, 1
	}
	return ctrl, 0
}

func show(ctrl *catalog.Controller) {
	records := ctrl.Records()
	lines := []string{ui.Header(screenTitle, len(records)), ""}
	lines = append(lines, ui.CardLines(records)...)
	ui.Panel(lines)
}

func doPrint(ctx context.Context, env Env) int {
	ctrl, code := loaded(ctx, env)
	if code != 0 {
		return code
	}
	show(ctrl)
	return 0
}

func doAdd(ctx context.Context, env Env) int {
	ctrl, code := loaded(ctx, env)
	if code != 0 {
		return code
	}
	if err := ctrl.CreateBatch(ctx, model.DefaultBatch()); err != nil {
		return 1
	}
	show(ctrl)
	return 0
}

func doUpdate(ctx context.Context, env Env, id int) int {
	ctrl, code := loaded(ctx, env)
	if code != 0 {
		return code
	}
	if err := ctrl.Update(ctx, id, model.DefaultUpdate()); err != nil {
		return 1
	}
	show(ctrl)
	return 0
}

func doRemove(ctx context.Context, env Env, id int) int {
	ctrl, code := loaded(ctx, env)
	if code != 0 {
		return code
	}
	if err := ctrl.Delete(ctx, id); err != nil {
		return 1
	}
	show(ctrl)
	return 0
}

func doMock(ctx context.Context, env Env, a []string) int {
	fs := flag.NewFlagSet("mock", flag.ContinueOnError)
	addr := fs.String("addr", ":8089", "listen address")
	if err := fs.Parse(a); err != nil {
		return 2
	}

	logger := env.Logger.With().Str("component", "mock").Logger()
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.NewRouter("/api", mockapi.NewStore(mockapi.DefaultSeed()...), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		ui.Fail("mock: " + err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	ui.OK(fmt.Sprintf("mock collection on http://%s/api", ln.Addr()))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			ui.Fail("mock: " + err.Error())
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			ui.Fail("mock shutdown: " + err.Error())
			return 1
		}
		ui.OK("mock stopped")
	}
	return 0
}
