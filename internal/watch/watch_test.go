package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/adtmatch"
	"github.com/reoring/adtmatch/internal/watch"
)

const complete = `
types:
  - {name: I, kind: sum, variants: [C, D]}
  - {name: C}
  - {name: D}
  - {name: Pair, fields: [{name: x, type: I}, {name: y, type: I}]}
matches:
  - name: pairs
    subject: Pair
    clauses:
      - pattern: {type: Pair, args: [{type: C}, {}]}
      - pattern: {type: Pair, args: [{type: D}, {}]}
`

const gap = `
types:
  - {name: I, kind: sum, variants: [C, D]}
  - {name: C}
  - {name: D}
  - {name: Pair, fields: [{name: x, type: I}, {name: y, type: I}]}
matches:
  - name: pairs
    subject: Pair
    clauses:
      - pattern: {type: Pair, args: [{type: C}, {}]}
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestCache_PutReportsChanges(t *testing.T) {
	c := watch.NewCache()
	files := []string{"a.yaml"}

	assert.True(t, c.Put(watch.Result{Files: files, Err: errors.New("boom")}))
	assert.False(t, c.Put(watch.Result{Files: files, Err: errors.New("boom")}))
	assert.True(t, c.Put(watch.Result{Files: files}))
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get(files)
	require.True(t, ok)
	assert.NoError(t, got.Err)
	_, ok = c.Get([]string{"b.yaml"})
	assert.False(t, ok)
}

func TestRunner_RunOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairs.yaml")
	writeFile(t, path, gap)

	var seen []watch.Result
	r := &watch.Runner{
		Files:    []string{path},
		Cache:    watch.NewCache(),
		Logger:   zerolog.Nop(),
		OnResult: func(res watch.Result) { seen = append(seen, res) },
	}

	res := r.RunOnce()
	require.NoError(t, res.Err)
	require.Len(t, res.Reports, 1)
	assert.False(t, res.OK())
	assert.Equal(t, "Pair(D, C)", res.Reports[0].Witness.String())

	// same diagnostics: no callback
	r.RunOnce()
	assert.Len(t, seen, 1)

	writeFile(t, path, complete)
	res = r.RunOnce()
	assert.True(t, res.OK())
	assert.Len(t, seen, 2)
}

func TestRunner_LoadError(t *testing.T) {
	r := &watch.Runner{
		Files:  []string{"missing.yaml"},
		Load:   func(...string) (adtmatch.Declarations, error) { return adtmatch.Declarations{}, errors.New("no such file") },
		Logger: zerolog.Nop(),
	}
	res := r.RunOnce()
	assert.EqualError(t, res.Err, "no such file")
	assert.False(t, res.OK())
	assert.Equal(t, "error: no such file", res.Summary())
}

func TestWatcher_RechecksOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairs.yaml")
	writeFile(t, path, gap)

	var mu sync.Mutex
	var results []watch.Result
	r := &watch.Runner{
		Files:  []string{path},
		Cache:  watch.NewCache(),
		Logger: zerolog.Nop(),
		OnResult: func(res watch.Result) {
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		},
	}
	w, err := watch.New(r, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1
	}, 2*time.Second, 10*time.Millisecond)

	writeFile(t, path, complete)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) >= 2 && results[len(results)-1].OK()
	}, 4*time.Second, 20*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
