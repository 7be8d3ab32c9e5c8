package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/tkxue/helix/app"
	"github.com/tkxue/helix/config"
	"github.com/tkxue/helix/editor"
	"github.com/tkxue/helix/highlight"
	"github.com/tkxue/helix/job"
	"github.com/tkxue/helix/terminal"
)

var (
	flagConfig  string
	flagTheme   string
	flagLogFile string
)

var rootCmd = &cobra.Command{
	Use:   "hx [file]",
	Short: "hx is a minimal modal terminal editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return run(path)
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagTheme, "theme", "t", "", "theme file (TOML)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write structured logs to this file")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	store := config.NewStore(cfg)

	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	if closeLog != nil {
		defer closeLog.Close()
	}

	theme := highlight.DefaultTheme()
	if cfg.Theme != "" {
		theme, err = highlight.LoadTheme(cfg.Theme)
		if err != nil {
			return err
		}
	}

	var ed *editor.Editor
	if path != "" {
		ed, err = editor.Open(path)
		if err != nil {
			return err
		}
	} else {
		ed = editor.New()
	}

	tty := terminal.NewTty()
	if err := tty.Raw(); err != nil {
		return err
	}
	defer tty.Release()

	backend := terminal.NewBackend(tty.Output())
	if err := backend.Claim(); err != nil {
		return err
	}

	w, h := tty.Size()
	backend.Resize(w, h)
	ed.Resize(w, h)

	// Resize delivery keeps only the latest pending size.
	resizeCh := make(chan terminal.Event, 1)
	tty.WatchResize(func(w, h int) {
		ev := terminal.ResizeEvent(w, h)
		select {
		case resizeCh <- ev:
		default:
			select {
			case <-resizeCh:
			default:
			}
			select {
			case resizeCh <- ev:
			default:
			}
		}
	})

	jobs := job.NewQueue()
	save := func() {
		target := ed.Path()
		if target == "" {
			ed.SetStatus("no file name")
			return
		}
		data := ed.Contents()
		logger.Debug("saving", "path", target, "bytes", len(data))
		jobs.SpawnWait(func() job.Callback {
			err := os.WriteFile(target, data, 0o644)
			return func(ed *editor.Editor) {
				if err != nil {
					ed.SetStatus(fmt.Sprintf("save failed: %v", err))
					return
				}
				ed.MarkSaved(fmt.Sprintf("wrote %s", filepath.Base(target)))
			}
		})
	}

	loop := &app.Loop{
		Backend:   backend,
		Input:     tty.ReadChunks(),
		Resize:    resizeCh,
		Jobs:      jobs,
		Editor:    ed,
		Dispatch:  editor.DefaultKeymap(ed, save),
		Projector: highlight.NewProjector(theme),
		Config:    store,
		Log:       logger,
	}
	return loop.Run()
}

// openLogger opens the structured log sink. The tty is for frames only, so
// without a log file everything is discarded.
func openLogger(path string) (pslog.Logger, io.Closer, error) {
	if path == "" {
		return pslog.LoggerFromEnv(pslog.WithEnvWriter(io.Discard)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return pslog.LoggerFromEnv(pslog.WithEnvWriter(file)), file, nil
}
