package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dvdstream/internal/stream"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "titles [locator]",
		Short: "List the titles a disc offers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()

			var locator string
			if len(args) > 0 {
				locator = args[0]
			}
			loc, err := resolveLocator(locator, cfg)
			if err != nil {
				return err
			}

			volumeID, titles, err := stream.ListTitles(loc.path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d titles\n", volumeID, len(titles))
			if len(titles) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(titles))
			for _, title := range titles {
				rows = append(rows, []string{
					strconv.Itoa(title.Number),
					strconv.Itoa(title.TitleSet),
					strconv.Itoa(title.Chapters),
					strconv.FormatInt(title.Blocks, 10),
					formatBytes(title.Bytes),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Title Set", "Chapters", "Blocks", "Size"},
				rows,
				1, 2, 3, 4, 5,
			))
			return nil
		},
	}
}
