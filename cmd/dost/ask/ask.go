package askcmder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/config"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

const askLongDesc string = `Send a single query and print the answer.

Submits one request to the query service using the credentials from the
config file and prints the normalized answer: narrative first, then
structured results with their links.

Examples:
  dost ask "Explain projectile motion"
  dost ask --image notes.png "What does this diagram show?"`

const askShortDesc string = "Send a one-shot query"

type askCommander struct {
	configPath string
	imagePath  string
}

// NewAskCmd builds the ask subcommand.
func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <query...>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", config.DefaultPath(), "Path to config file")
	cmd.Flags().StringVarP(&cmder.imagePath, "image", "i", "", "Image to submit with the query as context")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, query string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	in := chat.Input{Text: query}
	if c.imagePath != "" {
		data, err := os.ReadFile(c.imagePath)
		if err != nil {
			return fmt.Errorf("could not read image %s: %w", c.imagePath, err)
		}
		in.Image = &chat.Attachment{Name: filepath.Base(c.imagePath), Data: data}
	}

	payload, err := chat.BuildPayload(in)
	if err != nil {
		return fmt.Errorf("could not build query: %w", err)
	}

	client := dost.NewClient(cfg.Endpoint, dost.StaticCredentials(cfg.Credentials()), zap.NewNop())
	resp, err := client.ProcessQuery(ctx, string(chat.NewSessionID()), payload)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	answer := dost.Normalize(resp)
	out := cmd.OutOrStdout()

	for _, segment := range answer.Script {
		fmt.Fprintln(out, segment)
	}
	if len(answer.Script) > 0 && len(answer.Results) > 0 {
		fmt.Fprintln(out)
	}
	for _, r := range answer.Results {
		if link := r.LinkValue(); link != "" {
			fmt.Fprintf(out, "- %s (%s)\n", recordTitle(r), link)
		} else {
			fmt.Fprintf(out, "- %s\n", recordTitle(r))
		}
	}
	return nil
}

func recordTitle(r dost.ResultRecord) string {
	for _, key := range []string{"title", "name", "heading", "topic"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}
	return "result"
}
