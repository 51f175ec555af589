package classifier

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

const defaultNeighbors = 5

// KNN is a k-nearest-neighbours classifier with Euclidean distance and uniform
// votes. Equidistant neighbours are taken in training order.
type KNN struct {
	K        int         `json:"k"`
	NClasses int         `json:"n_classes"`
	X        [][]float64 `json:"x"`
	Y        []int       `json:"y"`
}

func NewKNN() *KNN { return &KNN{K: defaultNeighbors} }

func (k *KNN) Fit(x [][]float64, y []int, nClasses int) error {
	if err := checkFit(x, y, nClasses); err != nil {
		return err
	}
	k.NClasses = nClasses
	k.X = make([][]float64, len(x))
	for i, row := range x {
		k.X[i] = append([]float64(nil), row...)
	}
	k.Y = append([]int(nil), y...)
	return nil
}

func (k *KNN) PredictProba(x []float64) []float64 {
	type neighbour struct {
		dist  float64
		label int
	}
	ns := make([]neighbour, len(k.X))
	for i, row := range k.X {
		ns[i] = neighbour{dist: floats.Distance(row, x, 2), label: k.Y[i]}
	}
	sort.SliceStable(ns, func(a, b int) bool { return ns[a].dist < ns[b].dist })

	kk := k.K
	if kk > len(ns) {
		kk = len(ns)
	}
	probs := make([]float64, k.NClasses)
	for _, n := range ns[:kk] {
		probs[n.label] += 1 / float64(kk)
	}
	return probs
}
