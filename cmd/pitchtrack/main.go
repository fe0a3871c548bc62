package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ieee0824/pitchtrack-go/metrics"
)

// app carries what every subcommand shares.
type app struct {
	verbose     bool
	dumpMetrics bool

	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Decoder
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "pitchtrack",
		Short:        "Sparse HMM Viterbi decoding and real-time pitch tracking",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose (development) logging")
	root.PersistentFlags().BoolVar(&a.dumpMetrics, "metrics", false, "print decoder metrics to stderr on exit")

	root.AddCommand(
		newDecodeCmd(a),
		newStreamCmd(a),
		newPitchModelCmd(a),
		newTrackCmd(a),
	)
	return root
}

func (a *app) setup() error {
	var err error
	if a.verbose {
		a.logger, err = zap.NewDevelopment()
	} else {
		a.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewDecoder(a.registry, "pitchtrack")
	return nil
}

func (a *app) teardown(w io.Writer) error {
	_ = a.logger.Sync()
	if !a.dumpMetrics {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 2, 64)
	}
	return strings.Join(parts, " ")
}
