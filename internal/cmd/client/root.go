package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// TapePathFunc resolves the tape file followed by `tail` when --file is unset.
type TapePathFunc func() string

// Commands returns every client command, for registration on a root command.
func Commands(baseURL BaseURLFunc, tapePath TapePathFunc) []*cobra.Command {
	return []*cobra.Command{
		newEmitCommand(baseURL),
		newPageCommand(baseURL),
		newCatCommand(baseURL),
		newTailCommand(tapePath),
		newExportCommand(baseURL),
		newClearCommand(baseURL),
	}
}

// NewRoot constructs a root Cobra command for the Loggy client.
func NewRoot(baseURL BaseURLFunc, tapePath TapePathFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "loggy",
		Short: "Loggy client commands",
	}
	root.AddCommand(Commands(baseURL, tapePath)...)
	return root
}
