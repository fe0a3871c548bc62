package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ieee0824/pitchtrack-go/hmm"
)

func newStreamCmd(a *app) *cobra.Command {
	var modelPath, obsPath string
	var lookback, window int
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Feed observations one frame at a time and print the trailing path after each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := hmm.LoadModelFile(modelPath)
			if err != nil {
				return err
			}
			obs, err := hmm.LoadObservationsFile(obsPath)
			if err != nil {
				return err
			}
			d, err := hmm.NewStreamDecoder(m, lookback, hmm.WithLogger(a.logger), hmm.WithMetrics(a.metrics))
			if err != nil {
				return err
			}
			if window <= 0 {
				window = lookback
			}
			out := cmd.OutOrStdout()
			for t, o := range obs {
				if err := d.Feed(o); err != nil {
					return err
				}
				path, err := d.Decode(window)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d: %s\n", t, joinInts(path))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to YAML model")
	cmd.Flags().StringVar(&obsPath, "obs", "", "path to YAML observations")
	cmd.Flags().IntVar(&lookback, "lookback", 128, "frames of backpointers to retain")
	cmd.Flags().IntVar(&window, "window", 0, "trailing frames to print after each feed (0 = lookback)")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("obs")
	return cmd
}
