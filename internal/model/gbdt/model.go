package gbdt

import (
	"encoding/json"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gbdtbot/internal/dataset"
	"go.uber.org/zap"
)

// Model trained ensemble. The prediction is Bias plus LearningRate times
// the sum of tree outputs.
type Model struct {
	Params Params  `json:"params"`
	Width  int     `json:"width"`
	Bias   float64 `json:"bias"`
	Trees  []Tree  `json:"trees"`
}

// Trainer fits models with fixed parameters.
type Trainer struct {
	params Params
	l      *zap.Logger
}

// NewTrainer validates params and returns a trainer.
func NewTrainer(params Params, l *zap.Logger) (*Trainer, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid gbdt params")
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Trainer{params: params, l: l}, nil
}

// Train fits a model to set.
func (t *Trainer) Train(set dataset.Set) (*Model, error) {
	if len(set) == 0 {
		return nil, errors.New("empty training set")
	}

	width := set.Width()
	x := make([][]float64, len(set))
	y := make([]float64, len(set))
	var sum float64
	for i, e := range set {
		x[i] = e.Features
		y[i] = e.Label
		sum += e.Label
	}

	m := &Model{
		Params: t.params,
		Width:  width,
		Bias:   sum / float64(len(set)),
		Trees:  make([]Tree, 0, t.params.TreeNumber),
	}

	score := make([]float64, len(set))
	for i := range score {
		score[i] = m.Bias
	}

	rng := rand.New(rand.NewSource(t.params.Seed))
	sampleSize := int(float64(len(set))*t.params.SampleRate + 0.5)
	sampleSize = max(1, min(sampleSize, len(set)))

	b := &treeBuilder{
		x:        x,
		residual: make([]float64, len(set)),
		width:    width,
		p:        t.params,
	}

	for n := 0; n < t.params.TreeNumber; n++ {
		for i := range y {
			b.residual[i] = y[i] - score[i]
		}

		rows := rng.Perm(len(set))[:sampleSize]
		tree := b.grow(rows)
		m.Trees = append(m.Trees, tree)

		for i := range score {
			score[i] += t.params.LearningRate * tree.predict(x[i])
		}

		if t.params.Verbose > 0 && ((n+1)%100 == 0 || n+1 == t.params.TreeNumber) {
			t.l.Info("gbdt training progress",
				zap.Int("trees", n+1),
				zap.Float64("train_mse", meanSquaredError(score, y)),
			)
		}
	}

	return m, nil
}

// Predict returns the raw score for x. Missing trailing features are zero.
func (m *Model) Predict(x []float64) float64 {
	out := m.Bias
	for i := range m.Trees {
		out += m.Params.LearningRate * m.Trees[i].predict(x)
	}
	return out
}

// NumFeatures returns the feature vector width the model was trained on.
func (m *Model) NumFeatures() int {
	return m.Width
}

// Save writes the model as JSON.
func (m *Model) Save(w io.Writer) error {
	return errors.Wrap(json.NewEncoder(w).Encode(m), "encode gbdt model")
}

// SaveFile writes the model to path, creating parent directories.
func (m *Model) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// Load reads a model written by Save.
func Load(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decode gbdt model")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads a model from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return Load(f)
}

func (m *Model) validate() error {
	if m.Width < 1 {
		return errors.Errorf("gbdt model has invalid width %d", m.Width)
	}
	if len(m.Trees) == 0 {
		return errors.New("gbdt model has no trees")
	}
	for ti, t := range m.Trees {
		if len(t.Nodes) == 0 {
			return errors.Errorf("tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 {
				return errors.Errorf("tree %d node %d has negative feature index %d", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return errors.Errorf("tree %d node %d has invalid children", ti, ni)
			}
		}
	}
	return nil
}

// MeanSquaredError of the model over set.
func (m *Model) MeanSquaredError(set dataset.Set) float64 {
	pred := make([]float64, len(set))
	for i, e := range set {
		pred[i] = m.Predict(e.Features)
	}
	return meanSquaredError(pred, set.Labels())
}

func meanSquaredError(pred, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for i := range y {
		d := pred[i] - y[i]
		sum += d * d
	}
	return sum / float64(len(y))
}
