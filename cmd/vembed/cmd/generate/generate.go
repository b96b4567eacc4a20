package generate

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"verse-embed/cmd/vembed/cmd/cmdutil"
	"verse-embed/internal/app"
	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/app/model"
)

func init() {
	Cmd.Flags().String("corpus", "", "corpus JSON file")
	Cmd.Flags().StringP("out", "o", "", "output directory of the dataset")
	Cmd.Flags().StringP("provider", "p", "", "embedding provider: openai, gemini or mock")
	Cmd.Flags().StringP("model", "m", "", "embedding model")
	Cmd.Flags().Int("dimensions", 0, "requested vector dimension")
	Cmd.Flags().Int("interval", 0, "records between intermediate checkpoints")
	Cmd.Flags().Duration("delay", 0, "minimum delay between remote calls")
	Cmd.Flags().Bool("resume", false, "reuse vectors of an earlier run of the same model")
	Cmd.Flags().Bool("no-js", false, "skip the JS data modules")
	Cmd.Flags().Bool("no-helpers", false, "skip the search helper code")
	Cmd.Flags().Bool("progress", false, "force the progress bar")
}

// Cmd represents the generate command
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Embed every verse of the corpus and write the dataset",
	Long: `Embed every verse of the corpus and write the dataset

- Verses are embedded one at a time in corpus order
- A checkpoint is written every --interval verses and once at the end
- Ctrl-C stops the run after the current verse and still writes the final checkpoint`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		cmdutil.StringFlag(cmd, "corpus", &cfg.CorpusPath)
		cmdutil.StringFlag(cmd, "out", &cfg.OutputDir)
		cmdutil.StringFlag(cmd, "provider", &cfg.Provider)
		cmdutil.StringFlag(cmd, "model", &cfg.Model)
		cmdutil.IntFlag(cmd, "dimensions", &cfg.Dimensions)
		cmdutil.IntFlag(cmd, "interval", &cfg.CheckpointInterval)
		if flags.Changed("delay") {
			cfg.RequestDelay, _ = flags.GetDuration("delay")
		}
		if flags.Changed("resume") {
			cfg.Resume, _ = flags.GetBool("resume")
		}
		if noJS, _ := flags.GetBool("no-js"); noJS {
			cfg.EmitJS = false
		}
		if noHelpers, _ := flags.GetBool("no-helpers"); noHelpers {
			cfg.EmitHelpers = false
		}
		if forced, _ := flags.GetBool("progress"); forced {
			cfg.ShowProgress = true
		}

		if err := cmdutil.Finalize(cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pipeline, cleanup, err := app.InitializePipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		state, err := pipeline.Run(ctx)
		return report(cmd.OutOrStdout(), cfg.OutputDir, state, err)
	},
}

// report prints the run outcome. Only fatal errors are returned; an
// interrupted run already wrote its final checkpoint and can be resumed.
func report(out io.Writer, dir string, state *model.RunState, err error) error {
	if state != nil {
		fmt.Fprintf(out, "%s\nDataset written to %s\n", app.Summary(state), dir)
	}
	if err == nil {
		return nil
	}
	if apperrors.IsFatal(err) {
		return err
	}
	fmt.Fprintf(out, "Run interrupted: %v\nRerun with --resume to continue\n", err)
	return nil
}
