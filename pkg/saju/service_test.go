package saju

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yedamo-ai/yedamo/pkg/cache"
	"github.com/yedamo-ai/yedamo/pkg/consult"
	"github.com/yedamo-ai/yedamo/pkg/models"
)

const samplePayload = `{
  "四柱": {"年柱": "丁丑", "月柱": "乙巳", "日柱": "丙午", "時柱": "甲午"},
  "五行": {"木": 2, "火": 4, "土": 1, "金": 0, "水": 1},
  "生肖": "牛",
  "星座": "金牛",
  "日主": "丙"
}`

type fakeCalculator struct {
	calls   atomic.Int32
	payload string
	err     error
	last    models.CalculatorInput
}

func (f *fakeCalculator) Calculate(_ context.Context, in models.CalculatorInput) ([]byte, error) {
	f.calls.Add(1)
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.payload), nil
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	s.data[key] = value
	return nil
}

// plant writes an entry created age ago.
func (s *memStore) plant(t *testing.T, key string, age time.Duration, rec models.Record) {
	t.Helper()
	data, err := json.Marshal(models.CacheEntry{
		Key:        key,
		CreatedAt:  time.Now().Add(-age).Unix(),
		TTLSeconds: 1800,
		Payload:    rec,
	})
	require.NoError(t, err)
	s.data[key] = data
}

type stubResponder struct {
	got models.Record
}

func (r *stubResponder) Respond(_ context.Context, rec models.Record, question string) consult.Answer {
	r.got = rec
	return consult.Answer{Text: "answer to " + question, Source: consult.SourceFallback}
}

func newTestService(calc Calculator, store cache.Store) (*Service, *stubResponder) {
	resp := &stubResponder{}
	return NewService(calc, cache.NewManager(store, nil), resp, "", nil), resp
}

func validRequest() ComputeRequest {
	return ComputeRequest{
		Name:      "김다롬",
		BirthDate: "1997-05-19",
		BirthTime: "11:30",
		CacheKey:  "fixed-key",
	}
}

func TestComputeTwiceHitsCalculatorOnce(t *testing.T) {
	calc := &fakeCalculator{payload: samplePayload}
	svc, _ := newTestService(calc, newMemStore())
	ctx := context.Background()

	first, err := svc.Compute(ctx, validRequest())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.False(t, first.NeedsRefresh)
	assert.True(t, first.CacheAvailable)

	second, err := svc.Compute(ctx, validRequest())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.False(t, second.NeedsRefresh)

	assert.Equal(t, int32(1), calc.calls.Load())
	if diff := cmp.Diff(first.Record, second.Record); diff != "" {
		t.Errorf("cached record differs (-first +second):\n%s", diff)
	}
}

func TestComputeAppliesDefaults(t *testing.T) {
	calc := &fakeCalculator{payload: samplePayload}
	svc, _ := newTestService(calc, newMemStore())

	res, err := svc.Compute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, models.CalculatorInput{
		Year: 1997, Month: 5, Day: 19, Hour: 11, Gender: "male", Timezone: "Asia/Seoul",
	}, calc.last)
	assert.Equal(t, 30, res.Record.Birth.Minute)
	assert.Equal(t, "정화축(소)", res.Record.Result.Pillars.Year.Label)
	require.Len(t, res.Record.Strength, 5)
	assert.Equal(t, models.StrengthStrong, res.Record.Strength[1].Strength)
}

func TestComputeRequestTimezoneWins(t *testing.T) {
	calc := &fakeCalculator{payload: samplePayload}
	svc, _ := newTestService(calc, newMemStore())

	req := validRequest()
	req.Timezone = "America/New_York"
	req.Gender = "female"
	_, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", calc.last.Timezone)
	assert.Equal(t, "female", calc.last.Gender)
}

func TestComputeStaleRecomputes(t *testing.T) {
	calc := &fakeCalculator{payload: samplePayload}
	store := newMemStore()
	store.plant(t, "fixed-key", 1600*time.Second, models.Record{Name: "old"})
	svc, _ := newTestService(calc, store)

	res, err := svc.Compute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.True(t, res.NeedsRefresh)
	assert.Equal(t, "김다롬", res.Record.Name, "fresh result, never the stale one")
	assert.Equal(t, int32(1), calc.calls.Load())
	assert.Equal(t, 1, store.sets)
}

func TestComputeExpiredIsAbsent(t *testing.T) {
	calc := &fakeCalculator{payload: samplePayload}
	store := newMemStore()
	store.plant(t, "fixed-key", 1800*time.Second, models.Record{Name: "old"})
	svc, _ := newTestService(calc, store)

	res, err := svc.Compute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.False(t, res.NeedsRefresh)
}

func TestComputeDerivesKey(t *testing.T) {
	svc, _ := newTestService(&fakeCalculator{payload: samplePayload}, newMemStore())

	req := validRequest()
	req.CacheKey = ""
	req.Name = ""
	res, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, `^\d+_anonymous$`, res.CacheKey)
}

func TestComputeValidationBeforeAnyInteraction(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ComputeRequest)
	}{
		{"missing date", func(r *ComputeRequest) { r.BirthDate = "" }},
		{"missing time", func(r *ComputeRequest) { r.BirthTime = "" }},
		{"garbled date", func(r *ComputeRequest) { r.BirthDate = "19970519" }},
		{"garbled time", func(r *ComputeRequest) { r.BirthTime = "noon" }},
		{"year too early", func(r *ComputeRequest) { r.BirthDate = "1899-12-31" }},
		{"year too late", func(r *ComputeRequest) { r.BirthDate = "2101-01-01" }},
		{"month", func(r *ComputeRequest) { r.BirthDate = "1997-13-01" }},
		{"day", func(r *ComputeRequest) { r.BirthDate = "1997-05-32" }},
		{"hour", func(r *ComputeRequest) { r.BirthTime = "24:00" }},
		{"minute", func(r *ComputeRequest) { r.BirthTime = "10:60" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := &fakeCalculator{payload: samplePayload}
			store := newMemStore()
			svc, _ := newTestService(calc, store)

			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Compute(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Zero(t, calc.calls.Load())
			assert.Zero(t, store.sets)
		})
	}
}

func TestComputeBoundaryDatesAccepted(t *testing.T) {
	svc, _ := newTestService(&fakeCalculator{payload: samplePayload}, newMemStore())
	for _, date := range []string{"1900-01-01", "2100-12-31"} {
		req := validRequest()
		req.BirthDate = date
		req.BirthTime = "00:00"
		req.CacheKey = date
		_, err := svc.Compute(context.Background(), req)
		assert.NoError(t, err, date)
	}
}

func TestComputeCalculatorFailureWritesNothing(t *testing.T) {
	calc := &fakeCalculator{err: errors.New("tool crashed")}
	store := newMemStore()
	svc, _ := newTestService(calc, store)

	_, err := svc.Compute(context.Background(), validRequest())
	assert.ErrorIs(t, err, models.ErrComputation)
	assert.Zero(t, store.sets)
}

func TestComputeTranslationFailureWritesNothing(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestService(&fakeCalculator{payload: "not json"}, store)

	_, err := svc.Compute(context.Background(), validRequest())
	assert.ErrorIs(t, err, models.ErrTranslation)
	assert.Zero(t, store.sets)
}

func TestComputeWithoutCache(t *testing.T) {
	calc := &fakeCalculator{payload: samplePayload}
	svc, _ := newTestService(calc, nil)

	res, err := svc.Compute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, res.CacheAvailable)
	_, _ = svc.Compute(context.Background(), validRequest())
	assert.Equal(t, int32(2), calc.calls.Load())
}

func TestLookup(t *testing.T) {
	store := newMemStore()
	store.plant(t, "fresh", time.Minute, models.Record{Name: "a"})
	store.plant(t, "stale", 1500*time.Second, models.Record{Name: "b"})
	svc, _ := newTestService(&fakeCalculator{}, store)
	ctx := context.Background()

	res, err := svc.Lookup(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, res.NeedsRefresh)
	assert.Equal(t, "a", res.Record.Name)

	res, err = svc.Lookup(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, res.NeedsRefresh)

	_, err = svc.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConsult(t *testing.T) {
	store := newMemStore()
	store.plant(t, "k", time.Minute, models.Record{Name: "김다롬"})
	svc, resp := newTestService(&fakeCalculator{}, store)
	ctx := context.Background()

	res, err := svc.Consult(ctx, "k", "올해 운세는?")
	require.NoError(t, err)
	assert.Equal(t, "answer to 올해 운세는?", res.Answer.Text)
	assert.Equal(t, "김다롬", resp.got.Name)

	_, err = svc.Consult(ctx, "missing", "질문")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Consult(ctx, "k", "  ")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Consult(ctx, "", "질문")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRegionTimezone(t *testing.T) {
	tz, ok := RegionTimezone("USA_West")
	assert.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", tz)

	_, ok = RegionTimezone("mars")
	assert.False(t, ok)
}
