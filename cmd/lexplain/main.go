package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/lexplain/internal/config"
	"github.com/dgallion1/lexplain/internal/gateway"
	"github.com/dgallion1/lexplain/internal/session"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lexplain",
	Short: "Plain-language review of legal documents",
	Long: `Lexplain uploads a legal document to the analysis backend and presents a
summary, the individual clauses with their risk levels, translations of the
explanations, a checklist export and question answering.

Examples:
  lexplain serve
  lexplain review lease.pdf --lang hi --checklist checklist.txt
  lexplain review terms.docx --ask "Can I cancel early?"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, reviewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger, gateway client and
// orchestrator shared by every command.
func setup(logOut io.Writer) (config.Config, *slog.Logger, *gateway.Client, *session.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))

	client := gateway.NewClient(cfg.APIURL, cfg.APIKey, cfg.GatewayTimeout)
	orch, err := session.NewOrchestrator(client, session.Options{
		OriginalLanguage: cfg.OriginalLanguage,
		PreviewChars:     cfg.PreviewChars,
	}, log)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	return cfg, log, client, orch, nil
}
