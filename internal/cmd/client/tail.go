package client

import (
	"fmt"
	"io"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
)

// newTailCommand constructs the `tail` command. It reads the tape file
// directly, so it works while the server is down.
func newTailCommand(tapePath TapePathFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the tape file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			follow, _ := cmd.Flags().GetBool("follow")
			fromStart, _ := cmd.Flags().GetBool("from-start")
			noColor, _ := cmd.Flags().GetBool("no-color")
			if file == "" && tapePath != nil {
				file = tapePath()
			}
			if file == "" {
				return fmt.Errorf("no tape file; pass --file")
			}

			cfg := tail.Config{
				Follow:    follow,
				ReOpen:    follow,
				MustExist: !follow,
				Poll:      true,
				Logger:    tail.DiscardingLogger,
			}
			if !fromStart && follow {
				cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
			}
			t, err := tail.TailFile(file, cfg)
			if err != nil {
				return fmt.Errorf("tail %s: %w", file, err)
			}
			defer t.Cleanup()

			s := &lineStyler{r: renderer{color: !noColor}}
			out := cmd.OutOrStdout()
			done := cmd.Context().Done()
			for {
				select {
				case <-done:
					_ = t.Stop()
					return nil
				case line, ok := <-t.Lines:
					if !ok {
						return nil
					}
					if line.Err != nil {
						return line.Err
					}
					if line.Text == "" {
						fmt.Fprintln(out)
						continue
					}
					fmt.Fprintln(out, s.line(line.Text))
				}
			}
		},
	}
	cmd.Flags().String("file", "", "Tape file (default from config)")
	cmd.Flags().Bool("follow", true, "Keep waiting for new records")
	cmd.Flags().Bool("from-start", false, "When following, start at the beginning of the file")
	cmd.Flags().Bool("no-color", false, "Disable colours")
	return cmd
}
