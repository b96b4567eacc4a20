package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"verse-embed/cmd/vembed/cmd/cmdutil"
	"verse-embed/internal/app"
	"verse-embed/internal/app/embedding/similarity"
	"verse-embed/internal/app/storage/snapshot"
)

var topK int

func init() {
	Cmd.Flags().StringP("dir", "d", "", "dataset directory")
	Cmd.Flags().StringP("provider", "p", "", "embedding provider used for the query")
	Cmd.Flags().IntVarP(&topK, "top", "k", 5, "number of results")
}

// Cmd represents the search command
var Cmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the dataset for verses similar to a query",
	Long: `Search the dataset for verses similar to a query

- The query is embedded with the model recorded in the dataset
- Verses are ranked by cosine similarity
- When the query cannot be embedded a substring search is used instead`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		cmdutil.StringFlag(cmd, "dir", &cfg.OutputDir)
		cmdutil.StringFlag(cmd, "provider", &cfg.Provider)

		ds, err := snapshot.Load(cfg.OutputDir)
		if err != nil {
			return err
		}
		if ds.Summary.EmbeddingModel != "" {
			cfg.Model = ds.Summary.EmbeddingModel
		}
		cfg.Dimensions = ds.Dimension()

		if err := cmdutil.Finalize(cfg); err != nil {
			return err
		}

		query := strings.Join(args, " ")
		ctx := cmd.Context()

		var outcome similarity.Outcome
		client, cleanup, err := app.InitializeClient(ctx, cfg)
		if err != nil {
			outcome = similarity.Outcome{Query: query, Results: similarity.TextSearch(query, ds.Index, topK), Err: err}
		} else {
			defer cleanup()
			outcome = similarity.Search(ctx, client, query, ds, topK)
		}

		out := cmd.OutOrStdout()
		if outcome.Semantic {
			fmt.Fprintf(out, "Semantic results for %q (%s)\n", query, cfg.Model)
		} else {
			fmt.Fprintf(out, "Text results for %q (semantic search unavailable: %v)\n", query, outcome.Err)
		}
		for i, r := range outcome.Results {
			fmt.Fprintf(out, "%2d. %s  %.4f  %s\n    %s\n", i+1, r.ID, r.Similarity, r.Title, r.Translation)
		}
		if len(outcome.Results) == 0 {
			fmt.Fprintln(out, "No matching verses")
		}
		return nil
	},
}
