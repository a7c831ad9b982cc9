package cmd

import (
	"fmt"
	"os"

	"bank-matching-engine/pkg/errors"
)

// HandleError prints a user-facing message for err and returns the process
// exit code. Structured engine errors carry a category-specific code and an
// actionable suggestion; anything else exits 1.
func HandleError(err error) int {
	if err == nil {
		return 0
	}

	if engineErr, ok := errors.AsEngineError(err); ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", engineErr.Message)
		if engineErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", engineErr.Suggestion)
		}
		if verbose && len(engineErr.Context) > 0 {
			fmt.Fprintf(os.Stderr, "Context:\n")
			for key, value := range engineErr.Context {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
			}
		}
		return engineErr.GetExitCode()
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
