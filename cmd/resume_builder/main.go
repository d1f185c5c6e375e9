// Package main provides the entry point for the resume builder CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Resume Builder CLI and HTTP API Server",
	Long: `Resume Builder keeps an editable resume, renders it to deterministic paginated
PDF, HTML or LaTeX, and recovers basic fields from uploaded PDF, DOCX, HTML or text files.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
