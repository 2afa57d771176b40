package gbdt

import (
	"sort"
)

// node of a regression tree. Leaves have Leaf set and carry Value;
// inner nodes send x[Feature] <= Threshold to Left.
type node struct {
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"v,omitempty"`
	Feature   int     `json:"f,omitempty"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
}

// Tree regression tree stored as a flat node list, root at 0.
type Tree struct {
	Nodes []node `json:"nodes"`
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if feature(x, n.Feature) <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Leaves returns the number of leaves.
func (t *Tree) Leaves() int {
	n := 0
	for _, nd := range t.Nodes {
		if nd.Leaf {
			n++
		}
	}
	return n
}

// feature returns x[i], zero when x is shorter (sparse input).
func feature(x []float64, i int) float64 {
	if i < len(x) {
		return x[i]
	}
	return 0
}

type split struct {
	ok        bool
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

type leafCandidate struct {
	node  int
	depth int
	rows  []int
	split split
}

type treeBuilder struct {
	x        [][]float64
	residual []float64
	width    int
	p        Params
}

// grow fits a tree to the residuals of rows. Leaves are split best gain
// first until MaxLeafNumber is reached or no split is allowed.
func (b *treeBuilder) grow(rows []int) Tree {
	t := Tree{Nodes: []node{{Leaf: true, Value: b.mean(rows)}}}

	var open []*leafCandidate
	root := &leafCandidate{node: 0, depth: 0, rows: rows}
	root.split = b.bestSplit(rows, 0)
	if root.split.ok {
		open = append(open, root)
	}

	leaves := 1
	for leaves < b.p.MaxLeafNumber && len(open) > 0 {
		best := 0
		for i := range open {
			if open[i].split.gain > open[best].split.gain {
				best = i
			}
		}
		c := open[best]
		open = append(open[:best], open[best+1:]...)

		left := len(t.Nodes)
		right := left + 1
		t.Nodes = append(t.Nodes,
			node{Leaf: true, Value: b.mean(c.split.left)},
			node{Leaf: true, Value: b.mean(c.split.right)},
		)
		t.Nodes[c.node] = node{
			Feature:   c.split.feature,
			Threshold: c.split.threshold,
			Left:      left,
			Right:     right,
		}
		leaves++

		for _, child := range []*leafCandidate{
			{node: left, depth: c.depth + 1, rows: c.split.left},
			{node: right, depth: c.depth + 1, rows: c.split.right},
		} {
			child.split = b.bestSplit(child.rows, child.depth)
			if child.split.ok {
				open = append(open, child)
			}
		}
	}

	return t
}

func (b *treeBuilder) mean(rows []int) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += b.residual[r]
	}
	return sum / float64(len(rows))
}

// bestSplit finds the split of rows with the largest reduction of squared
// error that leaves at least MinValuesInLeaf rows on each side.
func (b *treeBuilder) bestSplit(rows []int, depth int) split {
	minLeaf := b.p.MinValuesInLeaf
	if depth >= b.p.MaxLevel || len(rows) < 2*minLeaf {
		return split{}
	}

	var total float64
	for _, r := range rows {
		total += b.residual[r]
	}
	n := float64(len(rows))
	base := total * total / n

	best := split{}
	sorted := make([]int, len(rows))
	for f := 0; f < b.width; f++ {
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return feature(b.x[sorted[i]], f) < feature(b.x[sorted[j]], f)
		})

		var leftSum float64
		for i := 0; i < len(sorted)-1; i++ {
			leftSum += b.residual[sorted[i]]
			nl := i + 1
			nr := len(sorted) - nl
			if nl < minLeaf {
				continue
			}
			if nr < minLeaf {
				break
			}

			cur := feature(b.x[sorted[i]], f)
			next := feature(b.x[sorted[i+1]], f)
			if cur == next {
				continue
			}

			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(nl) + rightSum*rightSum/float64(nr) - base
			if !best.ok || gain > best.gain {
				best = split{
					ok:        true,
					feature:   f,
					threshold: cur,
					gain:      gain,
				}
			}
		}
	}

	if !best.ok || best.gain <= 0 {
		return split{}
	}

	for _, r := range rows {
		if feature(b.x[r], best.feature) <= best.threshold {
			best.left = append(best.left, r)
		} else {
			best.right = append(best.right, r)
		}
	}

	return best
}
