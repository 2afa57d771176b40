package gbdt

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/gbdtbot/internal/dataset"
	"go.uber.org/zap"
)

func separableSet(n int, seed int64) dataset.Set {
	rng := rand.New(rand.NewSource(seed))
	set := make(dataset.Set, n)
	for i := range set {
		a := rng.Float64()*2 - 1
		b := rng.Float64()
		label := -1.0
		if a > 0 {
			label = 1
		}
		set[i] = dataset.Example{Label: label, Features: []float64{a, b}}
	}
	return set
}

func smallParams() Params {
	p := DefaultParams()
	p.Verbose = 0
	p.TreeNumber = 50
	p.MinValuesInLeaf = 5
	return p
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	mutate := []func(*Params){
		func(p *Params) { p.MaxLevel = 0 },
		func(p *Params) { p.MaxLeafNumber = 1 },
		func(p *Params) { p.MinValuesInLeaf = 0 },
		func(p *Params) { p.TreeNumber = 0 },
		func(p *Params) { p.LearningRate = 0 },
		func(p *Params) { p.SampleRate = 1.5 },
		func(p *Params) { p.Loss = "lad" },
	}
	for i, m := range mutate {
		p := DefaultParams()
		m(&p)
		assert.Error(t, p.Validate(), "case %d", i)
	}
}

func TestTrainer_FitsSeparableSet(t *testing.T) {
	tr, err := NewTrainer(smallParams(), zap.NewNop())
	require.NoError(t, err)

	set := separableSet(400, 1)
	m, err := tr.Train(set)
	require.NoError(t, err)
	require.Len(t, m.Trees, 50)

	assert.Greater(t, m.Predict([]float64{0.8, 0.5}), 0.5)
	assert.Less(t, m.Predict([]float64{-0.8, 0.5}), -0.5)
	assert.Less(t, m.MeanSquaredError(set), 0.2)
}

func TestTrainer_RespectsTreeLimits(t *testing.T) {
	p := smallParams()
	p.MaxLeafNumber = 4
	p.MaxLevel = 2
	p.TreeNumber = 5

	tr, err := NewTrainer(p, zap.NewNop())
	require.NoError(t, err)

	m, err := tr.Train(separableSet(200, 2))
	require.NoError(t, err)

	for _, tree := range m.Trees {
		assert.LessOrEqual(t, tree.Leaves(), 4)
	}
}

func TestTrainer_MinValuesInLeafBlocksSplit(t *testing.T) {
	p := smallParams()
	p.MinValuesInLeaf = 100
	p.SampleRate = 1

	tr, err := NewTrainer(p, zap.NewNop())
	require.NoError(t, err)

	m, err := tr.Train(separableSet(150, 3))
	require.NoError(t, err)

	for _, tree := range m.Trees {
		assert.Equal(t, 1, tree.Leaves())
	}
}

func TestTrainer_Deterministic(t *testing.T) {
	tr, err := NewTrainer(smallParams(), zap.NewNop())
	require.NoError(t, err)

	set := separableSet(200, 4)
	a, err := tr.Train(set)
	require.NoError(t, err)
	b, err := tr.Train(set)
	require.NoError(t, err)

	assert.Equal(t, a.Predict([]float64{0.1, 0.2}), b.Predict([]float64{0.1, 0.2}))
}

func TestTrainer_Errors(t *testing.T) {
	_, err := NewTrainer(Params{}, zap.NewNop())
	assert.Error(t, err)

	tr, err := NewTrainer(smallParams(), nil)
	require.NoError(t, err)
	_, err = tr.Train(nil)
	assert.Error(t, err)
}

func TestModel_SaveLoad(t *testing.T) {
	tr, err := NewTrainer(smallParams(), zap.NewNop())
	require.NoError(t, err)

	m, err := tr.Train(separableSet(300, 5))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "models", "model.dat")
	require.NoError(t, m.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	for _, x := range [][]float64{{0.3, 0.1}, {-0.4, 0.9}, {0, 0}, {0.05}} {
		assert.Equal(t, m.Predict(x), loaded.Predict(x))
	}
	assert.Equal(t, m.Params, loaded.Params)
	assert.Equal(t, 2, loaded.NumFeatures())
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(strings.NewReader("not json"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"trees":[]}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"trees":[{"nodes":[{"f":0,"t":1,"l":5,"r":6}]}]}`))
	assert.Error(t, err)

	var buf bytes.Buffer
	m := &Model{Params: DefaultParams(), Width: 1, Trees: []Tree{{Nodes: []node{{Leaf: true, Value: 2}}}}}
	require.NoError(t, m.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, loaded.Predict(nil), 1e-12)
	assert.Equal(t, 1, loaded.NumFeatures())
}

func TestLoad_RejectsBadNodes(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "negative feature",
			json: `{"width":2,"trees":[{"nodes":[{"f":-1,"t":0,"l":1,"r":2},{"leaf":true},{"leaf":true}]}]}`,
		},
		{
			name: "missing width",
			json: `{"trees":[{"nodes":[{"leaf":true,"v":1}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.json))
			assert.Error(t, err)
		})
	}
}
