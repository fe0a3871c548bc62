package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/hmm"
	"github.com/ieee0824/pitchtrack-go/pitch"
)

func newPitchModelCmd(a *app) *cobra.Command {
	var paramsPath, outPath string
	cmd := &cobra.Command{
		Use:   "pitchmodel",
		Short: "Build the voiced/unvoiced pitch HMM and write it as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pitch.LoadParamsFile(paramsPath)
			if err != nil {
				return err
			}
			m, err := pitch.NewModel(p)
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				return hmm.SaveModel(cmd.OutOrStdout(), m)
			}
			if err := hmm.SaveModelFile(outPath, m); err != nil {
				return err
			}
			a.logger.Info("wrote pitch model",
				zap.String("path", outPath),
				zap.Int("states", m.NumStates()),
				zap.Int("transitions", m.NumTransitions()),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&paramsPath, "params", "", "path to YAML tracker parameters")
	cmd.Flags().StringVar(&outPath, "out", "-", "output model path (- for stdout)")
	_ = cmd.MarkFlagRequired("params")
	return cmd
}
