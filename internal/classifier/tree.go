package classifier

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// treeNode is a split when Leaf is false, otherwise Dist holds the class
// distribution of the training rows that reached it.
type treeNode struct {
	Leaf      bool      `json:"leaf,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Dist      []float64 `json:"dist,omitempty"`
}

// DecisionTree is a CART classifier using gini impurity.
type DecisionTree struct {
	MaxDepth    int        `json:"max_depth"`
	MinSplit    int        `json:"min_split"`
	MaxFeatures int        `json:"max_features"`
	NClasses    int        `json:"n_classes"`
	Nodes       []treeNode `json:"nodes"`

	rng *rand.Rand
}

// NewDecisionTree returns a fully grown tree considering every feature per split.
func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MinSplit: 2}
}

func (t *DecisionTree) Fit(x [][]float64, y []int, nClasses int) error {
	if err := checkFit(x, y, nClasses); err != nil {
		return err
	}
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	t.fitIndices(x, y, nClasses, idx)
	return nil
}

func (t *DecisionTree) fitIndices(x [][]float64, y []int, nClasses int, idx []int) {
	t.NClasses = nClasses
	t.Nodes = t.Nodes[:0]
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(0))
	}
	t.grow(x, y, idx, 0)
}

// grow appends the subtree for idx and returns its node index.
func (t *DecisionTree) grow(x [][]float64, y []int, idx []int, depth int) int {
	counts := make([]float64, t.NClasses)
	for _, i := range idx {
		counts[y[i]]++
	}

	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{})

	pure := false
	for _, c := range counts {
		if c == float64(len(idx)) {
			pure = true
			break
		}
	}
	if pure || len(idx) < t.MinSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		t.Nodes[self] = leaf(counts, len(idx))
		return self
	}

	feature, threshold, ok := t.bestSplit(x, y, idx)
	if !ok {
		t.Nodes[self] = leaf(counts, len(idx))
		return self
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := t.grow(x, y, left, depth+1)
	r := t.grow(x, y, right, depth+1)
	t.Nodes[self] = treeNode{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return self
}

// bestSplit searches features in random order. At least MaxFeatures features are
// examined, and the search continues past that until a valid split is found.
func (t *DecisionTree) bestSplit(x [][]float64, y []int, idx []int) (int, float64, bool) {
	m := len(x[idx[0]])
	maxFeatures := t.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > m {
		maxFeatures = m
	}
	order := t.rng.Perm(m)

	bestScore := 0.0
	bestFeature, bestThreshold := -1, 0.0
	sorted := append([]int(nil), idx...)
	left := make([]float64, t.NClasses)
	right := make([]float64, t.NClasses)
	n := float64(len(idx))

	for visited, f := range order {
		if visited >= maxFeatures && bestFeature >= 0 {
			break
		}
		sort.SliceStable(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })
		if x[sorted[0]][f] == x[sorted[len(sorted)-1]][f] {
			continue
		}

		for c := range left {
			left[c] = 0
			right[c] = 0
		}
		for _, i := range sorted {
			right[y[i]]++
		}
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			left[y[i]]++
			right[y[i]]--
			v, next := x[i][f], x[sorted[k+1]][f]
			if v == next {
				continue
			}
			nl := float64(k + 1)
			score := nl/n*gini(left, nl) + (n-nl)/n*gini(right, n-nl)
			if bestFeature < 0 || score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = (v + next) / 2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(counts []float64, total float64) float64 {
	g := 1.0
	for _, c := range counts {
		p := c / total
		g -= p * p
	}
	return g
}

func leaf(counts []float64, total int) treeNode {
	dist := append([]float64(nil), counts...)
	floats.Scale(1/float64(total), dist)
	return treeNode{Leaf: true, Dist: dist}
}

func (t *DecisionTree) PredictProba(x []float64) []float64 {
	node := t.Nodes[0]
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = t.Nodes[node.Left]
		} else {
			node = t.Nodes[node.Right]
		}
	}
	return append([]float64(nil), node.Dist...)
}
