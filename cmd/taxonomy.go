package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func taxonomyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "Print every configured leaf with its item cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadConfig(opts)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tMESS TYPE\tSUBCATEGORY\tMAX ITEMS")
			for _, leaf := range table.Leaves() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", leaf.Category, leaf.MessType, leaf.Subcategory, leaf.MaxItems)
			}
			return w.Flush()
		},
	}
}
