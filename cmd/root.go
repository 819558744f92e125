package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/unsafe9/claude-tmux-hop/internal/config"
	"github.com/unsafe9/claude-tmux-hop/internal/hop"
	"github.com/unsafe9/claude-tmux-hop/internal/logging"
	"github.com/unsafe9/claude-tmux-hop/internal/mux"
	"github.com/unsafe9/claude-tmux-hop/internal/notify"
	telem "github.com/unsafe9/claude-tmux-hop/internal/otel"
	"github.com/unsafe9/claude-tmux-hop/internal/store"
	"github.com/unsafe9/claude-tmux-hop/internal/terminal"
)

// Global flags.
var flagMux string

// cfg and tel are set once in Execute, before any command runs.
var (
	cfg *config.Config
	tel *telem.Telemetry
)

// errSilent marks failures whose message already reached the user, or
// that must stay quiet because the command feeds a pipeline or key
// binding. Execute exits 1 without printing anything for them.
var errSilent = errors.New("silent failure")

// errNotInTmux is the shared failure for commands that need a live tmux
// client. Hook-driven commands (register, clear, status) are exempt:
// they exit 0 outside tmux so the Claude hooks can be installed on
// machines that do not always run tmux.
var errNotInTmux = errors.New("not running inside tmux")

var rootCmd = &cobra.Command{
	Use:   "claude-tmux-hop",
	Short: "Hop between Claude Code sessions in tmux panes",
	Long: `claude-tmux-hop tracks which tmux panes run Claude Code and what each
one needs, then brings you to the pane that wants attention with one key.

Claude Code lifecycle hooks call 'register' and 'clear' to keep a state
label (waiting, idle, active) on every pane. The label lives in tmux
pane options, so there is no daemon and no database and the state dies
with the pane. Key bindings from hop.tmux call 'cycle', 'back' and the
picker to move between panes in urgency order: waiting first (oldest
first), then idle and active (newest first).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.ForComponent(logging.CompCmd).Debug("command", "name", cmd.Name(), "args", args)
	},
}

// Execute runs the root command under the exit policy the tmux and
// Claude hook integrations depend on.
func Execute() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	var err error
	cfg, err = config.Load()
	if err != nil {
		// A broken config file must not take the key bindings down;
		// run on defaults and say so once.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		cfg = config.Defaults()
		cfg.CommandTimeoutDuration = mux.DefaultTimeout
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Format: cfg.LogFormat,
	})
	defer logging.Shutdown()

	telem.Version = Version
	tel, err = telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		logging.Logger().Warn("otel init failed", "error", err)
	}
	if tel != nil {
		defer tel.Shutdown(ctx)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("CLAUDE_TMUX_HOP_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
}

// newRunner returns the exec runner with the configured subprocess
// timeout.
func newRunner() *mux.ExecRunner {
	r := mux.NewRunner()
	if cfg != nil {
		r.Timeout = cfg.CommandTimeoutDuration
	}
	return r
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer() (mux.Multiplexer, error) {
	if flagMux != "" {
		return mux.FromName(flagMux, newRunner())
	}
	return mux.Detect(newRunner())
}

func newStore(m mux.Multiplexer) *store.Store {
	return store.New(m, newRunner(), logging.ForComponent(logging.CompStore))
}

func newHopper(m mux.Multiplexer, st *store.Store) *hop.Hopper {
	return hop.New(m, st, logging.ForComponent(logging.CompHop), metrics())
}

// metrics returns the telemetry instruments. May be nil; every
// instrument method treats a nil receiver as a no-op.
func metrics() *telem.Metrics {
	if tel == nil {
		return nil
	}
	return tel.Metrics
}

// newDispatcher builds the notification dispatcher for this OS with
// the trigger sets read from tmux options.
func newDispatcher(opts *config.Options) *notify.Dispatcher {
	return notify.NewDispatcher(notify.DispatcherConfig{
		App:       terminal.Detect(runtime.GOOS, opts.TerminalApp),
		FocusSet:  opts.FocusSet,
		NotifySet: opts.NotifySet,
		Platform:  notify.PlatformFor(runtime.GOOS, newRunner()),
		Log:       logging.ForComponent(logging.CompNotify),
		Metrics:   metrics(),
	})
}

// currentPaneID resolves the pane a hook command acts on. Hooks run
// inside the pane, so $TMUX_PANE names it directly; asking the server
// would return the client's active pane instead, which is wrong
// whenever the user is looking at a different pane.
func currentPaneID(ctx context.Context, m mux.Multiplexer) (string, error) {
	if id := mux.EnvPane(); id != "" {
		return id, nil
	}
	return m.CurrentPane(ctx)
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
