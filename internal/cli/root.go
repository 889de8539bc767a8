package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/plandoc/plandoc-sync/internal/cli/middleware"
	"github.com/plandoc/plandoc-sync/internal/commands"
	"github.com/plandoc/plandoc-sync/internal/config"
	"github.com/plandoc/plandoc-sync/internal/contracts"
	"github.com/plandoc/plandoc-sync/internal/lock"
	"github.com/plandoc/plandoc-sync/internal/output"
)

type AppContext struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Now     func() time.Time
	WorkDir string
}

type globalFlags struct {
	json         bool
	strategy     string
	rulesPath    string
	historyPath  string
	contextLines int
	color        bool
}

type executionState struct {
	global      globalFlags
	commandName string
}

func (state *executionState) outputMode() contracts.OutputMode {
	if state.global.json {
		return contracts.OutputModeJSON
	}
	return contracts.OutputModeHuman
}

func (state *executionState) resolvedCommandName() string {
	if state.commandName != "" {
		return state.commandName
	}
	return "root"
}

// Run executes the CLI using shared output and exit-code plumbing.
func Run(args []string, stdout io.Writer, stderr io.Writer) int {
	app := normalizeAppContext(AppContext{
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	})

	root, state := newRootCommand(app)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return int(contracts.ExitCodeSuccess)
	}

	var exitErr *codedExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}

	report := output.Report{CommandName: state.resolvedCommandName()}
	if renderErr := output.Write(state.outputMode(), app.Stdout, app.Stderr, report, 0, err); renderErr != nil {
		_, _ = fmt.Fprintln(app.Stderr, output.FormatDiagnostic(renderErr))
	}

	return int(contracts.ExitCodeFatal)
}

// NewRootCommand constructs the Cobra command tree for the CLI.
func NewRootCommand(app AppContext) *cobra.Command {
	root, _ := newRootCommand(app)
	return root
}

func newRootCommand(app AppContext) (*cobra.Command, *executionState) {
	app = normalizeAppContext(app)
	state := &executionState{}
	lockPath := filepath.Join(app.WorkDir, contracts.DefaultLockFilePath)
	locker := lock.NewFileLock(lockPath, lock.Options{})

	root := &cobra.Command{
		Use:           "plandoc-sync",
		Short:         "Merge and resolve concurrent edits to Markdown plan documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&state.global.json, "json", false, "emit machine-readable JSON envelope output")
	flags.StringVar(&state.global.strategy, "strategy", "", "resolution strategy (newest|local|remote|rules-based|manual)")
	flags.StringVar(&state.global.rulesPath, "rules", "", "path to the YAML rules file for rules-based resolution")
	flags.StringVar(&state.global.historyPath, "history", "", "path to the resolution history log")
	flags.IntVar(&state.global.contextLines, "context", 0, "unchanged lines captured around each conflict")
	flags.BoolVar(&state.global.color, "color", false, "enable ANSI-styled diff output")

	root.AddCommand(
		newMergeCommand(app, state, locker),
		newResolveCommand(app, state, locker),
		newHistoryCommand(app, state, locker),
		newUndoCommand(app, state, locker),
		newReplayCommand(app, state, locker),
		newDiffCommand(app, state, locker),
	)

	return root, state
}

// run wraps one command execution with lock acquisition, output rendering,
// and exit-code mapping. Content written by the command lands on stdout
// before the summary in human mode; JSON mode keeps stdout envelope-only, so
// commands that produce content there rely on --out.
func run(app AppContext, state *executionState, locker lock.Locker, name contracts.CommandName, cmd *cobra.Command, fn func(ctx context.Context) (output.Report, error)) error {
	state.commandName = string(name)

	runner := middleware.WithCommandLock(name, locker, func(ctx context.Context) error {
		start := app.Now()
		report, err := fn(ctx)
		duration := app.Now().Sub(start)

		if writeErr := output.Write(state.outputMode(), app.Stdout, app.Stderr, report, duration, err); writeErr != nil {
			return writeErr
		}

		if code := output.ResolveExitCode(report, err); code != contracts.ExitCodeSuccess {
			return &codedExitError{Code: code}
		}
		return nil
	})
	return runner(cmd.Context())
}

func (state *executionState) runtimeFlags(cmd *cobra.Command) config.RuntimeFlags {
	return config.RuntimeFlags{
		ContextLines: state.global.contextLines,
		HistoryPath:  state.global.historyPath,
		Strategy:     state.global.strategy,
		RulesPath:    state.global.rulesPath,
		Color:        state.global.color,
		ColorSet:     cmd.Flags().Changed("color"),
	}
}

// contentWriter returns where command content (merged documents, diffs) goes
// when no --out path is given.
func (state *executionState) contentWriter(app AppContext) io.Writer {
	if state.global.json {
		return nil
	}
	return app.Stdout
}

func newMergeCommand(app AppContext, state *executionState, locker lock.Locker) *cobra.Command {
	var localPath, remotePath, basePath, outPath string

	cmd := &cobra.Command{
		Use:   string(contracts.CommandMerge),
		Short: "Three-way merge local and remote documents against a base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, state, locker, contracts.CommandMerge, cmd, func(context.Context) (output.Report, error) {
				return commands.RunMerge(app.WorkDir, commands.MergeOptions{
					LocalPath:  localPath,
					RemotePath: remotePath,
					BasePath:   basePath,
					OutPath:    outPath,
					ContentOut: state.contentWriter(app),
					Flags:      state.runtimeFlags(cmd),
				})
			})
		},
	}

	cmd.Flags().StringVar(&localPath, "local", "", "path to the local document")
	cmd.Flags().StringVar(&remotePath, "remote", "", "path to the remote document")
	cmd.Flags().StringVar(&basePath, "base", "", "path to the common ancestor document")
	cmd.Flags().StringVar(&outPath, "out", "", "write the merged document to this path instead of stdout")
	_ = cmd.MarkFlagRequired("local")
	_ = cmd.MarkFlagRequired("remote")
	return cmd
}

func newResolveCommand(app AppContext, state *executionState, locker lock.Locker) *cobra.Command {
	var localPath, remotePath, basePath, outPath string

	cmd := &cobra.Command{
		Use:   string(contracts.CommandResolve),
		Short: "Merge and resolve conflicts under the configured strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, state, locker, contracts.CommandResolve, cmd, func(context.Context) (output.Report, error) {
				return commands.RunResolve(app.WorkDir, commands.ResolveOptions{
					LocalPath:  localPath,
					RemotePath: remotePath,
					BasePath:   basePath,
					OutPath:    outPath,
					ContentOut: state.contentWriter(app),
					Flags:      state.runtimeFlags(cmd),
				})
			})
		},
	}

	cmd.Flags().StringVar(&localPath, "local", "", "path to the local document")
	cmd.Flags().StringVar(&remotePath, "remote", "", "path to the remote document")
	cmd.Flags().StringVar(&basePath, "base", "", "path to the common ancestor document")
	cmd.Flags().StringVar(&outPath, "out", "", "write the resolved document to this path instead of stdout")
	_ = cmd.MarkFlagRequired("local")
	_ = cmd.MarkFlagRequired("remote")
	return cmd
}

func newHistoryCommand(app AppContext, state *executionState, locker lock.Locker) *cobra.Command {
	var filePath string
	var limit int

	cmd := &cobra.Command{
		Use:   string(contracts.CommandHistory),
		Short: "List resolution records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, state, locker, contracts.CommandHistory, cmd, func(context.Context) (output.Report, error) {
				return commands.RunHistory(app.WorkDir, commands.HistoryOptions{
					FilePath: filePath,
					Strategy: state.global.strategy,
					Limit:    limit,
					Flags:    state.runtimeFlags(cmd),
				})
			})
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "only show records for this file path")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many records (0 = all)")
	return cmd
}

func newUndoCommand(app AppContext, state *executionState, locker lock.Locker) *cobra.Command {
	return &cobra.Command{
		Use:   string(contracts.CommandUndo) + " <id>",
		Short: "Revert a logged resolution by record id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, state, locker, contracts.CommandUndo, cmd, func(context.Context) (output.Report, error) {
				return commands.RunUndo(app.WorkDir, commands.UndoOptions{
					ID:    args[0],
					Flags: state.runtimeFlags(cmd),
				})
			})
		},
	}
}

func newReplayCommand(app AppContext, state *executionState, locker lock.Locker) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   string(contracts.CommandReplay) + " <id>",
		Short: "Re-resolve a past conflict snapshot under the effective strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, state, locker, contracts.CommandReplay, cmd, func(context.Context) (output.Report, error) {
				return commands.RunReplay(app.WorkDir, commands.ReplayOptions{
					ID:         args[0],
					OutPath:    outPath,
					ContentOut: state.contentWriter(app),
					Flags:      state.runtimeFlags(cmd),
				})
			})
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the replayed content to this path instead of stdout")
	return cmd
}

func newDiffCommand(app AppContext, state *executionState, locker lock.Locker) *cobra.Command {
	var localPath, remotePath, outPath string
	var width int

	cmd := &cobra.Command{
		Use:   string(contracts.CommandDiff),
		Short: "Render a side-by-side view of local and remote documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(app, state, locker, contracts.CommandDiff, cmd, func(context.Context) (output.Report, error) {
				return commands.RunDiff(app.WorkDir, commands.DiffOptions{
					LocalPath:  localPath,
					RemotePath: remotePath,
					Width:      width,
					OutPath:    outPath,
					ContentOut: state.contentWriter(app),
					Flags:      state.runtimeFlags(cmd),
				})
			})
		},
	}

	cmd.Flags().StringVar(&localPath, "local", "", "path to the local document")
	cmd.Flags().StringVar(&remotePath, "remote", "", "path to the remote document")
	cmd.Flags().IntVar(&width, "width", 0, "per-column width for side-by-side output")
	cmd.Flags().StringVar(&outPath, "out", "", "write the rendered diff to this path instead of stdout")
	_ = cmd.MarkFlagRequired("local")
	_ = cmd.MarkFlagRequired("remote")
	return cmd
}

func normalizeAppContext(app AppContext) AppContext {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			app.WorkDir = wd
		} else {
			app.WorkDir = "."
		}
	}
	return app
}

type codedExitError struct {
	Code contracts.ExitCode
}

func (err codedExitError) Error() string {
	return fmt.Sprintf("exit with code %d", err.Code)
}
