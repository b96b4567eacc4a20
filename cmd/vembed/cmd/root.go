package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"verse-embed/cmd/vembed/cmd/cmdutil"
	"verse-embed/cmd/vembed/cmd/export"
	"verse-embed/cmd/vembed/cmd/generate"
	"verse-embed/cmd/vembed/cmd/search"
	"verse-embed/cmd/vembed/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vembed",
	Short: "Batch embedding of the Rig Veda corpus into a static semantic search dataset",
	Long: `Batch embedding of the Rig Veda corpus into a static semantic search dataset.
- Flatten mandalas, hymns and verses into ordered records
- Embed each verse with the configured provider, with retry and throttling
- Write the vectors, the verse index and the search helpers for the web front end`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generate.Cmd)
	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&cmdutil.ConfigPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&cmdutil.Verbose, "verbose", "V", false, "development logging")
}
