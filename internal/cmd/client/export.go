package client

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newExportCommand constructs the `export` command.
func newExportCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download filtered entries as a zip archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			resp, err := call(http.MethodPost, withQuery(baseURL(), "/v1/export", filterQuery(cmd)), nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			n, err := io.Copy(f, resp.Body)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			entries := resp.Header.Get("X-Loggy-Entries")
			if entries == "" {
				entries = "?"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %s entries)\n", out, n, entries)
			return nil
		},
	}
	cmd.Flags().String("out", "logs.zip", "Output file")
	filterFlags(cmd)
	return cmd
}
