package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func binaryMatrix(rows, cols int) *FeatureMatrix {
	m := &FeatureMatrix{Columns: make([]string, cols), Rows: make([][]float64, rows)}
	for j := range m.Columns {
		m.Columns[j] = string(rune('a' + j%26))
	}
	for i := range m.Rows {
		m.Rows[i] = make([]float64, cols)
		for j := range m.Rows[i] {
			m.Rows[i][j] = float64((i + j) % 2)
		}
	}
	return m
}

func TestInjectNoiseDeterministic(t *testing.T) {
	m := binaryMatrix(40, 10)
	m.Rows[3][4] = 3.5

	a := InjectNoise(m, 0.1, 42)
	b := InjectNoise(m, 0.1, 42)
	if diff := cmp.Diff(a.Rows, b.Rows); diff != "" {
		t.Fatalf("same seed produced different matrices:\n%s", diff)
	}

	c := InjectNoise(m, 0.1, 7)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestInjectNoiseLeavesInputUntouched(t *testing.T) {
	m := binaryMatrix(20, 5)
	before := m.Clone()

	out := InjectNoise(m, 0.5, DefaultNoiseSeed)
	assert.Equal(t, before.Rows, m.Rows)
	assert.Equal(t, m.Columns, out.Columns)
	assert.Len(t, out.Rows, 20)
	assert.NoError(t, out.Validate())
}

func TestInjectNoiseChangesBoundedCells(t *testing.T) {
	m := binaryMatrix(50, 20)
	out := InjectNoise(m, DefaultNoiseFraction, DefaultNoiseSeed)

	changed := 0
	for i := range m.Rows {
		for j := range m.Rows[i] {
			if m.Rows[i][j] != out.Rows[i][j] {
				changed++
				assert.Equal(t, 1-m.Rows[i][j], out.Rows[i][j])
			}
		}
	}
	// floor(0.03*50*20) = 30 draws; duplicates may cancel out.
	assert.LessOrEqual(t, changed, 30)
	assert.Greater(t, changed, 0)
}

func TestInjectNoiseGaussianOnNonBinary(t *testing.T) {
	m := &FeatureMatrix{Columns: []string{"temp"}, Rows: [][]float64{{37.5}, {38.2}, {39.0}, {36.6}}}
	out := InjectNoise(m, 0.99, 1)
	moved := false
	for i := range m.Rows {
		if out.Rows[i][0] != m.Rows[i][0] {
			moved = true
			assert.InDelta(t, m.Rows[i][0], out.Rows[i][0], 2.0)
		}
	}
	assert.True(t, moved)
}

func TestInjectNoiseZeroFraction(t *testing.T) {
	m := binaryMatrix(5, 5)
	assert.Equal(t, m.Rows, InjectNoise(m, 0, 1).Rows)
}
