package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newEmitCommand constructs the `emit` command.
func newEmitCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [message...]",
		Short: "Record one entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, _ := cmd.Flags().GetString("priority")
			thread, _ := cmd.Flags().GetString("thread")
			label, _ := cmd.Flags().GetString("label")
			body := map[string]string{
				"priority": priority,
				"thread":   thread,
				"message":  strings.Join(args, " "),
			}
			if label != "" {
				body["label"] = label
			}
			resp, err := call(http.MethodPost, baseURL()+"/v1/logs", body)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			var out struct {
				ID string `json:"id"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&out)
			fmt.Fprintf(cmd.OutOrStdout(), "accepted id=%s\n", out.ID)
			return nil
		},
	}
	cmd.Flags().String("priority", "I", "Priority tag or name: I|D|W|E|L|A")
	cmd.Flags().String("thread", "", "Thread label (default main)")
	cmd.Flags().String("label", "", "With --priority E, the error label")
	return cmd
}

// newPageCommand constructs the `page` command.
func newPageCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Print one page of filtered entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, _ := cmd.Flags().GetInt("page")
			size, _ := cmd.Flags().GetInt("size")
			asJSON, _ := cmd.Flags().GetBool("json")
			noColor, _ := cmd.Flags().GetBool("no-color")

			q := filterQuery(cmd)
			q.Set("page", strconv.Itoa(page))
			if size > 0 {
				q.Set("size", strconv.Itoa(size))
			}
			resp, err := call(http.MethodGet, withQuery(baseURL(), "/v1/logs", q), nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			out := cmd.OutOrStdout()
			if asJSON {
				_, err := io.Copy(out, resp.Body)
				return err
			}
			var pr pageResp
			if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
				return fmt.Errorf("decode page: %w", err)
			}
			r := renderer{color: !noColor}
			for _, e := range pr.Entries {
				fmt.Fprintln(out, r.entry(e))
			}
			fmt.Fprintln(out, r.muted(fmt.Sprintf("-- page %d: %d entries (%s)", pr.Page, len(pr.Entries), pr.Status)))
			return nil
		},
	}
	cmd.Flags().Int("page", 0, "Zero-based page index")
	cmd.Flags().Int("size", 0, "Page size (default from server config)")
	cmd.Flags().Bool("json", false, "Print the raw JSON response")
	cmd.Flags().Bool("no-color", false, "Disable colours")
	filterFlags(cmd)
	return cmd
}

// newCatCommand constructs the `cat` command: the whole tape, coloured.
func newCatCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat",
		Short: "Print every stored record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			resp, err := call(http.MethodGet, baseURL()+"/v1/tape", nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			text, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			s := &lineStyler{r: renderer{color: !noColor}}
			out := cmd.OutOrStdout()
			for _, l := range strings.Split(strings.TrimRight(string(text), "\n"), "\n") {
				if l == "" {
					fmt.Fprintln(out)
					continue
				}
				fmt.Fprintln(out, s.line(l))
			}
			return nil
		},
	}
	cmd.Flags().Bool("no-color", false, "Disable colours")
	return cmd
}

// newClearCommand constructs the `clear` command.
func newClearCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored entry (requires --confirm)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			confirm, _ := cmd.Flags().GetBool("confirm")
			if !confirm {
				return fmt.Errorf("refusing to clear without --confirm")
			}
			resp, err := call(http.MethodPost, baseURL()+"/v1/logs/clear", nil)
			if err != nil {
				return err
			}
			resp.Body.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
	cmd.Flags().Bool("confirm", false, "Confirm removal")
	return cmd
}
