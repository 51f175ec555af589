package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/symptomdx/internal/apperr"
	"github.com/Skufu/symptomdx/internal/classifier"
	"github.com/Skufu/symptomdx/internal/dataset"
)

func testBundle(t *testing.T, version string) *Bundle {
	t.Helper()
	knn := &classifier.KNN{K: 1}
	require.NoError(t, knn.Fit([][]float64{{1, 0}, {0, 1}}, []int{0, 1}, 2))
	return &Bundle{
		Version:   version,
		TrainedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Model:     classifier.Model{Family: classifier.FamilyKNN, Classifier: knn},
		Columns:   []string{"fever", "cough"},
		Labels:    dataset.FitLabels([]string{"Flu", "Cold"}),
		Scores: ScoreReport{
			BestModel:    classifier.FamilyKNN,
			BestAccuracy: 0.9,
			Accuracies:   map[string]float64{classifier.FamilyKNN: 0.9, classifier.FamilySVM: 0.8},
		},
	}
}

func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx)
	assert.True(t, apperr.Is(err, apperr.KindArtifactMissing), "got %v", err)
	_, err = Scores(ctx, s)
	assert.True(t, apperr.Is(err, apperr.KindArtifactMissing))
	_, err = Columns(ctx, s)
	assert.True(t, apperr.Is(err, apperr.KindArtifactMissing))

	require.NoError(t, s.Put(ctx, testBundle(t, "v1")))

	b, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", b.Version)
	assert.Equal(t, []string{"fever", "cough"}, b.Columns)
	assert.Equal(t, []string{"Cold", "Flu"}, b.Labels.Classes())
	assert.Equal(t, classifier.FamilyKNN, b.Model.Family)
	assert.Equal(t, []float64{1, 0}, b.Model.Classifier.PredictProba([]float64{1, 0}))

	scores, err := Scores(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 0.9, scores.BestAccuracy)
	assert.Len(t, scores.Accuracies, 2)

	assert.NoError(t, b.Ready())

	// An incomplete bundle is rejected and the published one survives.
	broken := testBundle(t, "v2")
	broken.Columns = nil
	assert.Error(t, s.Put(ctx, broken))
	b, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1", b.Version)

	require.NoError(t, s.Put(ctx, testBundle(t, "v3")))
	b, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v3", b.Version)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)
	storeContract(t, s)

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not linger")
	assert.Equal(t, bundleFile, entries[0].Name())
}

func TestFileStoreCorruptBundle(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, bundleFile), []byte("{"), 0o644))

	_, err = s.Get(context.Background())
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	storeContract(t, NewRedisStore(client, "symptomdx:test"))
	assert.True(t, mr.Exists("symptomdx:test"))
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := DialRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestBundleReadyNamesMissingPart(t *testing.T) {
	tests := []struct {
		name  string
		strip func(b *Bundle)
		want  string
	}{
		{"model", func(b *Bundle) { b.Model = classifier.Model{} }, "model"},
		{"columns", func(b *Bundle) { b.Columns = nil }, "column order"},
		{"labels", func(b *Bundle) { b.Labels = nil }, "label encoder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBundle(t, "v1")
			tt.strip(b)
			err := b.Ready()
			require.True(t, apperr.Is(err, apperr.KindArtifactMissing), "got %v", err)
			assert.Contains(t, apperr.MessageOf(err), tt.want)
		})
	}
}
