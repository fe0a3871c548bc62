package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/hmm"
)

func newDecodeCmd(a *app) *cobra.Command {
	var modelPath, obsPath string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Batch-decode a full observation sequence",
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
			path, err := hmm.Decode(m, obs, hmm.WithLogger(a.logger), hmm.WithMetrics(a.metrics))
			if err != nil {
				return err
			}
			a.logger.Debug("decoded",
				zap.Int("frames", len(obs)),
				zap.Int("states", m.NumStates()),
				zap.Int("transitions", m.NumTransitions()),
			)
			fmt.Fprintln(cmd.OutOrStdout(), joinInts(path))
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "path to YAML model")
	cmd.Flags().StringVar(&obsPath, "obs", "", "path to YAML observations")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("obs")
	return cmd
}
