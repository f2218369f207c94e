package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	askcmder "github.com/SubhamSharma-IITM/dost-chat/cmd/dost/ask"
	historycmder "github.com/SubhamSharma-IITM/dost-chat/cmd/dost/history"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/history"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/config"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/logger"
	"github.com/SubhamSharma-IITM/dost-chat/tui"
	"github.com/SubhamSharma-IITM/dost-chat/voice"
)

const rootLongDesc string = `Interactive DOST chat client.

Runs a conversational terminal client against the DOST query service:
type a question, stage an image with /image, or record a voice query
with ctrl+r. Credentials and endpoint come from the config file.

Examples:
  dost
  dost --config ~/.config/dost/dost.toml
  dost ask "Explain projectile motion"
  dost history`

func main() {
	var cfgPath string
	var debug bool

	root := &cobra.Command{
		Use:   "dost",
		Short: "Conversational DOST client",
		Long:  rootLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), cfgPath, debug)
		},
	}
	root.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultPath(), "Path to config file")
	root.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(askcmder.NewAskCmd(), historycmder.NewHistoryCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(ctx context.Context, cfgPath string, debug bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Debug || debug, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("set up logger: %w", err)
	}
	defer log.Sync()

	// Live credential store: edits to the config file take effect on the
	// next request without restarting the client.
	store := config.NewStore(cfgPath, cfg, log)
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := store.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("config watcher stopped", zap.Error(err))
		}
	}()

	session := chat.NewSessionID()
	client := dost.NewClient(cfg.Endpoint, store, log)
	ctrl := chat.NewController(client, session, log)

	var hist history.Store
	if cfg.HistoryPath != "" {
		hist, err = history.NewSQLiteStore(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("open conversation history: %w", err)
		}
	} else {
		hist = history.NewMemoryStore()
	}
	defer hist.Close()
	ctrl.Log().SetObserver(history.NewArchiver(hist, session, log))

	command, args := cfg.Audio.Command, cfg.Audio.Args
	if command == "" {
		command, args = voice.DefaultCaptureCommand()
	}
	rec := voice.NewRecorder(voice.NewExecSource(command, args, log), log)

	log.Info("dost chat starting",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("session", string(session)),
	)

	program := tea.NewProgram(
		tui.New(ctrl, rec, cfg.Presets, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run chat ui: %w", err)
	}
	return nil
}
