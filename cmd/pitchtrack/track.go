package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	pitchtrack "github.com/ieee0824/pitchtrack-go"
	"github.com/ieee0824/pitchtrack-go/pitch"
)

// trackInput is the signal and the candidate estimator output for it.
type trackInput struct {
	Samples    []float64           `yaml:"samples"`
	Candidates [][]pitch.Candidate `yaml:"candidates"`
}

func loadTrackInput(path string) (in trackInput, err error) {
	f, err := os.Open(path)
	if err != nil {
		return trackInput{}, fmt.Errorf("open input: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	if err := yaml.NewDecoder(f).Decode(&in); err != nil {
		return trackInput{}, fmt.Errorf("decode input: %w", err)
	}
	return in, nil
}

func newTrackCmd(a *app) *cobra.Command {
	var paramsPath, inputPath string
	var lookback int
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run the real-time pitch tracker over a signal and its pitch candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []pitchtrack.Option{
				pitchtrack.WithLogger(a.logger),
				pitchtrack.WithMetrics(a.metrics),
			}
			if lookback > 0 {
				opts = append(opts, pitchtrack.WithMaxObsLength(lookback))
			}
			r, err := pitchtrack.NewRecognizer(paramsPath, opts...)
			if err != nil {
				return err
			}
			in, err := loadTrackInput(inputPath)
			if err != nil {
				return err
			}
			f0, err := r.TrackSamples(in.Samples, in.Candidates)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), joinFloats(f0))
			return nil
		},
	}
	cmd.Flags().StringVar(&paramsPath, "params", "", "path to YAML tracker parameters")
	cmd.Flags().StringVar(&inputPath, "input", "", "path to YAML {samples, candidates}")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "override max_obs_length (0 = keep)")
	_ = cmd.MarkFlagRequired("params")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
