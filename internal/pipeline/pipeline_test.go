package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rupture-distance-service/internal/domain"
	"github.com/couchcryptid/rupture-distance-service/internal/observability"
)

type mockExtractor struct {
	mu      sync.Mutex
	batches [][]domain.RawJob
	err     error
	calls   int
}

func (m *mockExtractor) ExtractBatch(_ context.Context, _ int) ([]domain.RawJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.batches) == 0 {
		return nil, nil
	}
	batch := m.batches[0]
	m.batches = m.batches[1:]
	return batch, nil
}

type mockComputer struct {
	mu     sync.Mutex
	err    error
	failOn string
	seen   []string
}

func (m *mockComputer) Compute(_ context.Context, raw domain.RawJob) (domain.DistanceResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := string(raw.Key)
	m.seen = append(m.seen, id)
	if m.err != nil || (m.failOn != "" && id == m.failOn) {
		err := m.err
		if err == nil {
			err = errors.New("compute failed")
		}
		return domain.DistanceResult{}, err
	}
	return domain.DistanceResult{JobID: id}, nil
}

type mockLoader struct {
	mu      sync.Mutex
	err     error
	batches [][]domain.DistanceResult
}

func (m *mockLoader) LoadBatch(_ context.Context, results []domain.DistanceResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, results)
	return nil
}

func (m *mockLoader) loaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, batch := range m.batches {
		for _, r := range batch {
			ids = append(ids, r.JobID)
		}
	}
	return ids
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawJob(id string, commit func(context.Context) error) domain.RawJob {
	return domain.RawJob{
		Key:    []byte(id),
		Value:  []byte(`{}`),
		Commit: commit,
	}
}

func runPipeline(t *testing.T, p *Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

func TestPipelineProcessesBatch(t *testing.T) {
	var mu sync.Mutex
	committed := make(map[string]int)
	commitFor := func(id string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			committed[id]++
			return nil
		}
	}

	extractor := &mockExtractor{batches: [][]domain.RawJob{{
		rawJob("job-1", commitFor("job-1")),
		rawJob("job-2", commitFor("job-2")),
	}}}
	computer := &mockComputer{}
	loader := &mockLoader{}

	p := New(extractor, computer, loader, testLogger(), observability.NewMetricsForTesting(), 10)
	runPipeline(t, p, 100*time.Millisecond)

	assert.Equal(t, []string{"job-1", "job-2"}, loader.loaded())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, committed["job-1"])
	assert.Equal(t, 1, committed["job-2"])
}

func TestPipelineSkipsFailedJobs(t *testing.T) {
	var mu sync.Mutex
	committed := make(map[string]int)
	commitFor := func(id string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			committed[id]++
			return nil
		}
	}

	extractor := &mockExtractor{batches: [][]domain.RawJob{{
		rawJob("good", commitFor("good")),
		rawJob("bad", commitFor("bad")),
	}}}
	computer := &mockComputer{failOn: "bad"}
	loader := &mockLoader{}

	p := New(extractor, computer, loader, testLogger(), observability.NewMetricsForTesting(), 10)
	runPipeline(t, p, 100*time.Millisecond)

	assert.Equal(t, []string{"good"}, loader.loaded())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, committed["good"], "successful job should be committed")
	assert.Equal(t, 1, committed["bad"], "failed job should still be committed to avoid reprocessing")
}

func TestPipelineReadiness(t *testing.T) {
	extractor := &mockExtractor{batches: [][]domain.RawJob{{rawJob("job-1", nil)}}}
	p := New(extractor, &mockComputer{}, &mockLoader{}, testLogger(), observability.NewMetricsForTesting(), 10)

	require.Error(t, p.CheckReadiness(context.Background()), "pipeline should not be ready before processing")

	runPipeline(t, p, 100*time.Millisecond)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipelineExtractErrorBacksOff(t *testing.T) {
	extractor := &mockExtractor{err: errors.New("broker unavailable")}
	p := New(extractor, &mockComputer{}, &mockLoader{}, testLogger(), observability.NewMetricsForTesting(), 10)

	start := time.Now()
	runPipeline(t, p, 500*time.Millisecond)
	elapsed := time.Since(start)

	extractor.mu.Lock()
	calls := extractor.calls
	extractor.mu.Unlock()

	// 200ms initial backoff doubling means at most a handful of attempts
	// fit in the window. A tight loop would record thousands.
	assert.GreaterOrEqual(t, calls, 1)
	assert.Less(t, calls, 10, "extract errors should be throttled by backoff")
	assert.GreaterOrEqual(t, elapsed, 400*time.Millisecond)
}

func TestPipelineLoadErrorDoesNotCommit(t *testing.T) {
	var mu sync.Mutex
	commits := 0
	commit := func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		commits++
		return nil
	}

	extractor := &mockExtractor{batches: [][]domain.RawJob{{rawJob("job-1", commit)}}}
	loader := &mockLoader{err: errors.New("sink unavailable")}
	p := New(extractor, &mockComputer{}, loader, testLogger(), observability.NewMetricsForTesting(), 10)

	runPipeline(t, p, 100*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, commits, "offsets must not be committed when the load fails")
	require.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipelineStopsOnContextCancel(t *testing.T) {
	extractor := &mockExtractor{}
	p := New(extractor, &mockComputer{}, &mockLoader{}, testLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pipeline did not stop after context cancellation")
	}
}

func TestNextBackoff(t *testing.T) {
	maxBackoff := 5 * time.Second

	assert.Equal(t, 400*time.Millisecond, nextBackoff(200*time.Millisecond, maxBackoff))
	assert.Equal(t, 3200*time.Millisecond, nextBackoff(1600*time.Millisecond, maxBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(3200*time.Millisecond, maxBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(maxBackoff, maxBackoff))
}

func TestDistanceComputer(t *testing.T) {
	computer := NewDistanceComputer(testLogger(), observability.NewMetricsForTesting())

	payload := []byte(`{
		"id": "job-42",
		"rupture": {
			"trace": {"type": "LineString", "coordinates": [[-118.0, 34.0], [-117.9, 34.1]]},
			"dip": 50,
			"depth": 0,
			"width": 15
		},
		"sites": [
			{"id": "site-a", "lat": 34.05, "lon": -117.95},
			{"id": "site-b", "lat": 35.0, "lon": -119.0}
		]
	}`)

	result, err := computer.Compute(context.Background(), domain.RawJob{
		Key:   []byte("job-42"),
		Value: payload,
	})
	require.NoError(t, err)

	assert.Equal(t, "job-42", result.JobID)
	require.Len(t, result.Distances, 2)
	assert.InDelta(t, 0, result.Distances[0].Rjb, 0.5, "site above the surface projection")
	assert.Greater(t, result.Distances[1].Rjb, 50.0, "distant site")
	for _, d := range result.Distances {
		assert.GreaterOrEqual(t, d.Rrup, d.Rjb-1e-9)
	}
}

func TestDistanceComputerRejectsMalformedJob(t *testing.T) {
	computer := NewDistanceComputer(testLogger(), observability.NewMetricsForTesting())

	_, err := computer.Compute(context.Background(), domain.RawJob{Value: []byte(`{"id": ""}`)})
	require.Error(t, err)
}
