package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	langFlag      string
	checklistFlag string
	askFlags      []string
)

var reviewCmd = &cobra.Command{
	Use:   "review FILE",
	Short: "Upload, analyze and print a review of one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&langFlag, "lang", "l", "", "Translate the explanations into this language code")
	reviewCmd.Flags().StringVar(&checklistFlag, "checklist", "", "Write the exported checklist to this path")
	reviewCmd.Flags().StringArrayVarP(&askFlags, "ask", "q", nil, "Ask a question about the document (repeatable)")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, log, client, orch, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	defer client.Close()
	defer orch.Stop()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	snap, err := orch.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := orch.BeginAnalysis(ctx, snap.DocumentRef, snap.MimeType); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if langFlag != "" {
		if err := orch.SetLanguage(ctx, langFlag); err != nil {
			// The original-language analysis is still printed.
			log.Warn("translation failed", "lang", langFlag, "error", err)
		}
	}

	out := cmd.OutOrStdout()
	stats, _ := orch.Stats()
	writeReport(out, orch.Snapshot(), stats)

	for _, q := range askFlags {
		ans, err := orch.Ask(ctx, q)
		if err != nil {
			fmt.Fprintf(out, "\nQ: %s\n   (no answer: %v)\n", q, err)
			continue
		}
		writeAnswer(out, q, ans)
	}

	if checklistFlag != "" {
		body, err := orch.ExportChecklist(ctx)
		if err != nil {
			return fmt.Errorf("export checklist: %w", err)
		}
		if err := os.WriteFile(checklistFlag, body, 0o644); err != nil {
			return fmt.Errorf("write checklist: %w", err)
		}
		fmt.Fprintf(out, "\nChecklist written to %s\n", checklistFlag)
	}
	return nil
}
