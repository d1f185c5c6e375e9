package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/extraction"
	"github.com/jonathan/resume-builder/internal/observability"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recover basic resume fields from a PDF, DOCX, HTML or text file",
	Long: `Reads the text of a resume file and matches name, email, phone and summary
with simple heuristics. The result is printed as JSON or written to --out.`,
	RunE: runExtract,
}

var (
	extractInput   string
	extractOutput  string
	extractVerbose bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to the resume file (required)")
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Path to output JSON file (default stdout)")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a summary of the extracted fields")

	if err := extractCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	result, source, err := extractFile(cmd, extractInput)
	if err != nil {
		return err
	}
	if extractVerbose {
		observability.NewPrinter(os.Stderr).PrintExtraction(source, &result)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if extractOutput == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	if dir := filepath.Dir(extractOutput); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(extractOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func extractFile(cmd *cobra.Command, path string) (extraction.Result, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return extraction.Result{}, "", fmt.Errorf("input file not found: %s", path)
		}
		return extraction.Result{}, "", fmt.Errorf("failed to read input file: %w", err)
	}
	source, err := extraction.SourceFor(path, "")
	if err != nil {
		return extraction.Result{}, "", err
	}
	result, err := extraction.Extract(commandContext(cmd), source, data)
	if err != nil {
		return extraction.Result{}, source.Name(), err
	}
	return result, source.Name(), nil
}
