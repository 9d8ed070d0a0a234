package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// Node is a single decision-tree node. Leaves carry the positive-class
// fraction of the training rows that reached them.
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
	Leaf      bool    `json:"leaf"`
	Prob      float64 `json:"prob"` // P(label == 1) at a leaf
}

type treeBuilder struct {
	x           [][]float64
	y           []int
	maxDepth    int
	minLeaf     int
	maxFeatures int
	rng         *rand.Rand
}

func buildTree(x [][]float64, y []int, maxDepth, minLeaf, maxFeatures int, rng *rand.Rand) *Node {
	b := &treeBuilder{x: x, y: y, maxDepth: maxDepth, minLeaf: minLeaf, maxFeatures: maxFeatures, rng: rng}
	idx := make([]int, len(y))
	for i := range idx {
		idx[i] = i
	}
	return b.grow(idx, 0)
}

func (b *treeBuilder) grow(idx []int, depth int) *Node {
	pos := 0
	for _, i := range idx {
		pos += b.y[i]
	}
	prob := float64(pos) / float64(len(idx))

	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf || pos == 0 || pos == len(idx) {
		return &Node{Leaf: true, Prob: prob}
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return &Node{Leaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return &Node{Leaf: true, Prob: prob}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.grow(left, depth+1),
		Right:     b.grow(right, depth+1),
	}
}

// bestSplit searches a random feature subset for the threshold minimizing
// weighted gini impurity.
func (b *treeBuilder) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	nFeatures := len(b.x[0])
	candidates := b.rng.Perm(nFeatures)
	if b.maxFeatures < len(candidates) {
		candidates = candidates[:b.maxFeatures]
	}

	bestImpurity := math.Inf(1)
	values := make([]float64, 0, len(idx))
	for _, f := range candidates {
		values = values[:0]
		for _, i := range idx {
			values = append(values, b.x[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			thr := (values[v] + values[v-1]) / 2
			imp := b.splitImpurity(idx, f, thr)
			if imp < bestImpurity {
				bestImpurity = imp
				feature = f
				threshold = thr
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func (b *treeBuilder) splitImpurity(idx []int, feature int, threshold float64) float64 {
	var lN, lPos, rN, rPos int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			lN++
			lPos += b.y[i]
		} else {
			rN++
			rPos += b.y[i]
		}
	}
	total := float64(lN + rN)
	return float64(lN)/total*gini(lPos, lN) + float64(rN)/total*gini(rPos, rN)
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// predict walks the tree for one feature row.
func (n *Node) predict(row []float64) float64 {
	for !n.Leaf {
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Prob
}
