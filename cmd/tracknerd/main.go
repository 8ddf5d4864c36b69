// Command tracknerd runs the tracker recovery pipeline from the command
// line: feed it a raw model response and it prints what was recovered,
// renders the outbound previous-state prompt, and manages the lock tree.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tracknerd/internal/config"
	"tracknerd/internal/pipeline"
	"tracknerd/internal/store"
	"tracknerd/internal/track"
)

var (
	logger *zap.Logger

	flagVerbose  bool
	flagConfig   string
	flagSettings string
)

func main() {
	root := &cobra.Command{
		Use:   "tracknerd",
		Short: "Recover structured tracker state from raw model output",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if flagVerbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagConfig, "config", "tracknerd.yaml", "tracker configuration file")
	root.PersistentFlags().StringVar(&flagSettings, "settings", "settings.json", "settings store file")

	root.AddCommand(parseCmd(), outboundCmd(), locksCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// open loads config and the settings store for one invocation.
func open() (*pipeline.Pipeline, *store.File, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	st := store.NewFile(flagSettings)
	if err := st.Load(); err != nil {
		return nil, nil, err
	}
	return pipeline.New(cfg, st, logger), st, nil
}

func parseCmd() *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Process one raw model response and store recovered trackers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := inputText(args, fromFile)
			if err != nil {
				return err
			}
			p, st, err := open()
			if err != nil {
				return err
			}
			res := p.ProcessTurn(raw)
			if res.ParsingFailed {
				fmt.Println("parsing failed: no tracker segment recognized")
				return nil
			}
			if err := st.Save(); err != nil {
				return err
			}
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "read the response from a file instead of arguments or stdin")
	return cmd
}

func inputText(args []string, fromFile string) (string, error) {
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("read input %s: %w", fromFile, err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func outboundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outbound",
		Short: "Render the lock-annotated previous tracker state for the next prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := open()
			if err != nil {
				return err
			}
			fmt.Print(p.Outbound())
			return nil
		},
	}
}

func locksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Inspect and edit the locked-paths tree",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every locked path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := open()
			if err != nil {
				return err
			}
			for _, kind := range track.Kinds {
				for _, path := range st.Locks().Paths(kind) {
					fmt.Printf("%s %s\n", kind, path)
				}
			}
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <tracker> <path>",
		Short: "Report whether a path is locked",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := track.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown tracker %q", args[0])
			}
			_, st, err := open()
			if err != nil {
				return err
			}
			fmt.Println(st.Locks().IsLocked(kind, args[1]))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <tracker> <path> <true|false>",
		Short: "Lock or unlock a path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := track.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("unknown tracker %q", args[0])
			}
			locked, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("parse %q: %w", args[2], err)
			}
			_, st, err := open()
			if err != nil {
				return err
			}
			st.Locks().SetLocked(kind, args[1], locked)
			return st.Save()
		},
	}

	cmd.AddCommand(list, get, set)
	return cmd
}
