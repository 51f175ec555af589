package training

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/Skufu/symptomdx/internal/classifier"
)

// StratifiedFolds splits row indices into k test folds. Classes are visited in
// ascending code order and each class's rows in dataset order, dealt
// round-robin with a single running counter so fold sizes differ by at most one.
func StratifiedFolds(y []int, nClasses, k int) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if len(y) < k {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", len(y), k)
	}

	byClass := make([][]int, nClasses)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	largest := 0
	for _, rows := range byClass {
		if len(rows) > largest {
			largest = len(rows)
		}
	}
	if largest < k {
		return nil, fmt.Errorf("%d folds cannot be greater than the number of rows in every class (largest class has %d)", k, largest)
	}

	folds := make([][]int, k)
	next := 0
	for _, rows := range byClass {
		for _, i := range rows {
			folds[next%k] = append(folds[next%k], i)
			next++
		}
	}
	return folds, nil
}

// CrossValidate returns the mean accuracy of family over the given folds.
func CrossValidate(family classifier.Family, x [][]float64, y []int, nClasses int, folds [][]int) (float64, error) {
	scores := make([]float64, 0, len(folds))
	for f, test := range folds {
		held := make(map[int]struct{}, len(test))
		for _, i := range test {
			held[i] = struct{}{}
		}
		trainX := make([][]float64, 0, len(x)-len(test))
		trainY := make([]int, 0, len(x)-len(test))
		for i := range x {
			if _, ok := held[i]; ok {
				continue
			}
			trainX = append(trainX, x[i])
			trainY = append(trainY, y[i])
		}

		c := family.New()
		if err := c.Fit(trainX, trainY, nClasses); err != nil {
			return 0, fmt.Errorf("%s fold %d: %w", family.Name, f, err)
		}

		correct := 0
		for _, i := range test {
			if argmax(c.PredictProba(x[i])) == y[i] {
				correct++
			}
		}
		scores = append(scores, float64(correct)/float64(len(test)))
	}
	return stat.Mean(scores, nil), nil
}

// argmax returns the first index of the largest value.
func argmax(v []float64) int {
	best := 0
	for i, p := range v {
		if p > v[best] {
			best = i
		}
	}
	return best
}
