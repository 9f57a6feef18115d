package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/hireform-api/internal/evaluation"
)

var structureCmd = &cobra.Command{
	Use:   "structure <resume.pdf>",
	Short: "Extract and structure a résumé without scoring it",
	Args:  cobra.ExactArgs(1),
	RunE:  runStructure,
}

func init() {
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) error {
	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()
	model, err := newModel(ctx, logger)
	if err != nil {
		return err
	}

	text, err := evaluation.NewPDFExtractor().Extract(ctx, document)
	if err != nil {
		return err
	}

	resume, err := evaluation.NewStructurer(model, logger).Structure(ctx, text)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(resume)
}
