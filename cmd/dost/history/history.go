package historycmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SubhamSharma-IITM/dost-chat/history"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/config"
)

const historyLongDesc string = `Inspect persisted conversations.

Without arguments, lists recorded session identifiers (oldest first).
With a session identifier, prints that conversation's transcript.

Examples:
  dost history
  dost history 2f1f6d3a-...-9c2e`

const historyShortDesc string = "Inspect persisted conversations"

type historyCommander struct {
	configPath string
}

// NewHistoryCmd builds the history subcommand.
func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history [session]",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := ""
			if len(args) == 1 {
				session = args[0]
			}
			return cmder.run(cmd.Context(), cmd, session)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", config.DefaultPath(), "Path to config file")

	return cmd
}

func (c *historyCommander) run(ctx context.Context, cmd *cobra.Command, session string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cfg.HistoryPath == "" {
		return fmt.Errorf("no history database configured (set history_path in %s)", c.configPath)
	}

	store, err := history.NewSQLiteStore(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("could not open history database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if session == "" {
		sessions, err := store.Sessions(ctx)
		if err != nil {
			return fmt.Errorf("could not list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No recorded conversations.")
			return nil
		}
		for _, s := range sessions {
			fmt.Fprintln(out, s)
		}
		return nil
	}

	records, err := store.Messages(ctx, session)
	if err != nil {
		return fmt.Errorf("could not load session %s: %w", session, err)
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "No messages recorded for session %s.\n", session)
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(out, "[%s] %s\n", r.Role, renderRecordText(r))
	}
	return nil
}

func renderRecordText(r history.Record) string {
	var parts []string
	if r.Text != "" {
		parts = append(parts, r.Text)
	}
	if len(r.Script) > 0 {
		parts = append(parts, strings.Join(r.Script, " "))
	}
	for _, res := range r.Results {
		if title, ok := res["title"].(string); ok && title != "" {
			parts = append(parts, "- "+title)
		}
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, "\n")
}
