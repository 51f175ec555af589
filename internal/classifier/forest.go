package classifier

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// RandomForest averages bootstrap-trained CART trees that each consider
// sqrt(features) candidates per split.
type RandomForest struct {
	Trees    int             `json:"trees"`
	Seed     int64           `json:"seed"`
	NClasses int             `json:"n_classes"`
	Forest   []*DecisionTree `json:"forest"`
}

func NewRandomForest() *RandomForest {
	return &RandomForest{Trees: 50, Seed: 42}
}

func (rf *RandomForest) Fit(x [][]float64, y []int, nClasses int) error {
	if err := checkFit(x, y, nClasses); err != nil {
		return err
	}
	n, m := len(x), len(x[0])
	maxFeatures := int(math.Sqrt(float64(m)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(rf.Seed))
	rf.NClasses = nClasses
	rf.Forest = make([]*DecisionTree, rf.Trees)
	for t := range rf.Forest {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		tree := &DecisionTree{
			MinSplit:    2,
			MaxFeatures: maxFeatures,
			rng:         rand.New(rand.NewSource(rng.Int63())),
		}
		tree.fitIndices(x, y, nClasses, sample)
		rf.Forest[t] = tree
	}
	return nil
}

func (rf *RandomForest) PredictProba(x []float64) []float64 {
	probs := make([]float64, rf.NClasses)
	for _, tree := range rf.Forest {
		floats.Add(probs, tree.PredictProba(x))
	}
	floats.Scale(1/float64(len(rf.Forest)), probs)
	return probs
}
