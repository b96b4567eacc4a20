package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"verse-embed/cmd/vembed/cmd/cmdutil"
	"verse-embed/internal/app/export"
	"verse-embed/internal/app/storage/snapshot"
)

var outputFilePath string

func init() {
	Cmd.Flags().StringP("dir", "d", "", "dataset directory")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the verse index of a dataset to excel",
	Long: `Export the verse index of a dataset to excel

- One row per embedded verse, in matrix order
- A second sheet holds the run summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		cmdutil.StringFlag(cmd, "dir", &cfg.OutputDir)

		ds, err := snapshot.Load(cfg.OutputDir)
		if err != nil {
			return err
		}

		if err := export.ToExcel(ds, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, exported file path: %v\n", outputFilePath)
		return nil
	},
}
