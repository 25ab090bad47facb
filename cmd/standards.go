package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photoid/internal/standard"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "List the supported document photo standards",
	Args:  cobra.NoArgs,
	RunE:  runStandards,
}

func init() {
	standardsCmd.Flags().String("search", "", "Filter by id, name or country")
	standardsCmd.Flags().Bool("json", false, "Print the standards as JSON")
	rootCmd.AddCommand(standardsCmd)
}

// standardRow is a catalog entry together with its derived pixel spec.
type standardRow struct {
	standard.PhotoStandard
	Pixels standard.SpecPx `json:"pixels"`
}

func runStandards(cmd *cobra.Command, args []string) error {
	query := mustGetString(cmd, "search")

	var standards []standard.PhotoStandard
	if query != "" {
		standards = standard.Search(query)
	} else {
		standards = standard.All()
	}

	if len(standards) == 0 {
		fmt.Printf("No standards match %q.\n", query)
		return nil
	}

	if mustGetBool(cmd, "json") {
		rows := make([]standardRow, 0, len(standards))
		for _, std := range standards {
			rows = append(rows, standardRow{PhotoStandard: std, Pixels: standard.Pixels(std)})
		}
		return printJSON(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIZE\tPIXELS\tHEAD\tCOUNTRY\tNAME")
	fmt.Fprintln(w, "--\t----\t------\t----\t-------\t----")

	for _, std := range standards {
		spec := standard.Pixels(std)
		fmt.Fprintf(w, "%s\t%gx%g %s\t%dx%d\t%g-%g %s\t%s\t%s\n",
			std.ID,
			std.Width, std.Height, std.Unit,
			spec.W, spec.H,
			std.HeadMin, std.HeadMax, std.Unit,
			std.Country,
			std.Name,
		)
	}

	w.Flush()
	return nil
}
