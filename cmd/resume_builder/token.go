package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for the server's mutating routes",
	Long:  "Signs a bearer token with JWT_SECRET. The server requires one on mutating routes when JWT_SECRET is set.",
	RunE:  runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "resume-builder-cli", "Token subject")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, expiresAt, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, token)
	_, _ = fmt.Fprintf(os.Stderr, "Expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
