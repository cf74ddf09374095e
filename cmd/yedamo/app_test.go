package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yedamo-ai/yedamo/pkg/analysis"
	"github.com/yedamo-ai/yedamo/pkg/cache"
	"github.com/yedamo-ai/yedamo/pkg/consult"
	"github.com/yedamo-ai/yedamo/pkg/models"
	"github.com/yedamo-ai/yedamo/pkg/saju"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yedamo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewAppSurvivesMissingDependencies(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
log: {level: error}
cache:
  backend: sqlite
  sqlite_path: `+filepath.Join(dir, "cache.db")+`
calculator:
  command: yedamo-missing-calculator
  timeout: 1s
consultation:
  provider: gemini
  api_key: ""
`)
	ctx := context.Background()

	a, err := newApp(ctx, path, appOptions{calculator: true, generator: true})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.svc.CacheAvailable(ctx))

	_, err = a.svc.Compute(ctx, saju.ComputeRequest{BirthDate: "1997-05-19", BirthTime: "11:30"})
	assert.True(t, errors.Is(err, models.ErrComputation), "got %v", err)

	counts := models.NewElementCounts()
	counts[models.Fire] = 4
	cache.NewManager(a.sqlite, nil).Store(ctx, "k1", models.Record{
		Name:     "김다롬",
		Result:   models.ComputationResult{ElementalCounts: counts},
		Strength: analysis.Analyze(counts),
	})

	looked, err := a.svc.Lookup(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "김다롬", looked.Record.Name)

	res, err := a.svc.Consult(ctx, "k1", "올해 운세가 궁금해요")
	require.NoError(t, err)
	assert.Equal(t, consult.SourceFallback, res.Answer.Source)
	assert.Contains(t, res.Answer.Text, "화의 기운")
}

func TestNewAppReadOnlyCommandsSkipCalculator(t *testing.T) {
	path := writeConfig(t, "log: {level: error}\ncache: {backend: none}\nconsultation: {provider: none}\n")

	a, err := newApp(context.Background(), path, appOptions{})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.svc.Compute(context.Background(), saju.ComputeRequest{BirthDate: "1997-05-19", BirthTime: "11:30"})
	assert.ErrorIs(t, err, errCalculatorDisabled)
	assert.ErrorIs(t, err, models.ErrComputation)
	assert.Nil(t, a.statter())
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "cache: {backend: memcached}\n")
	_, err := newApp(context.Background(), path, appOptions{})
	assert.Error(t, err)
}
