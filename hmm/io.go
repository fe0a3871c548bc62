package hmm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type edgeFile struct {
	From int     `yaml:"from"`
	To   int     `yaml:"to"`
	Prob float64 `yaml:"prob"`
}

type modelFile struct {
	Init  []float64  `yaml:"init"`
	Edges []edgeFile `yaml:"edges"`
}

// LoadModel reads a YAML model:
//
//	init: [0.5, 0.5]
//	edges:
//	  - {from: 0, to: 0, prob: 0.9}
func LoadModel(r io.Reader) (*SparseHMM, error) {
	var f modelFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	edges := make([]Edge, len(f.Edges))
	for i, e := range f.Edges {
		edges[i] = Edge(e)
	}
	return newModel(f.Init, edges)
}

// SaveModel writes m in the format read by LoadModel.
func SaveModel(w io.Writer, m *SparseHMM) error {
	f := modelFile{
		Init:  m.init,
		Edges: make([]edgeFile, len(m.edges)),
	}
	for i, e := range m.edges {
		f.Edges[i] = edgeFile(e)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return enc.Close()
}

// LoadObservations reads a YAML sequence of observation rows.
func LoadObservations(r io.Reader) ([][]float64, error) {
	var obs [][]float64
	if err := yaml.NewDecoder(r).Decode(&obs); err != nil {
		if errors.Is(err, io.EOF) {
			return [][]float64{}, nil
		}
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	return obs, nil
}

// LoadModelFile reads a YAML model from path.
func LoadModelFile(path string) (m *SparseHMM, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return LoadModel(f)
}

// SaveModelFile writes m to path, replacing any existing file.
func SaveModelFile(path string, m *SparseHMM) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return SaveModel(f, m)
}

// LoadObservationsFile reads YAML observations from path.
func LoadObservationsFile(path string) (obs [][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return LoadObservations(f)
}
