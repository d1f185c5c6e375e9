package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume or state JSON file against its schema",
	RunE:  runValidate,
}

var (
	validateInput string
	validateKind  string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to JSON file (required)")
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", string(schemas.KindResume), "Document kind: resume or state")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	kind, err := schemas.ParseKind(validateKind)
	if err != nil {
		return err
	}
	return validateFile(observability.NewPrinter(os.Stdout), kind, validateInput)
}

// validateFile prints the outcome and returns an error unless the file is valid.
func validateFile(p *observability.Printer, kind schemas.Kind, path string) error {
	err := schemas.ValidateFile(kind, path)
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		p.PrintValidation(path, nil)
		return nil
	case errors.As(err, &verr):
		p.PrintValidation(path, verr.Errors)
		return fmt.Errorf("%s is not a valid %s document", path, kind)
	default:
		return err
	}
}
