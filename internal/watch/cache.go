package watch

import (
	"strings"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/reoring/adtmatch"
)

// Result is the outcome of one check run over a set of declaration files.
type Result struct {
	Files   []string
	Reports []*adtmatch.Report
	Err     error
	At      time.Time
}

// OK reports a run without load errors where every statement is exhaustive
// and free of redundant clauses.
func (r Result) OK() bool {
	if r.Err != nil {
		return false
	}
	for _, rep := range r.Reports {
		if !rep.OK() {
			return false
		}
	}
	return true
}

// Summary renders the result on one line per statement; two runs with equal
// summaries produced the same diagnostics.
func (r Result) Summary() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	lines := make([]string, len(r.Reports))
	for i, rep := range r.Reports {
		lines[i] = rep.String()
	}
	return strings.Join(lines, "\n")
}

// Cache keeps the latest Result per watched file set. It is shared between
// the fsnotify loop and readers such as the CLI printer.
type Cache struct {
	m cmap.ConcurrentMap[string, Result]
}

func NewCache() *Cache {
	return &Cache{m: cmap.New[Result]()}
}

// Key identifies a file set.
func Key(files []string) string { return strings.Join(files, "\x00") }

// Put stores r and reports whether its diagnostics differ from the previous
// result for the same files.
func (c *Cache) Put(r Result) bool {
	key := Key(r.Files)
	prev, ok := c.m.Get(key)
	c.m.Set(key, r)
	return !ok || prev.Summary() != r.Summary()
}

// Get returns the latest result for files.
func (c *Cache) Get(files []string) (Result, bool) {
	return c.m.Get(Key(files))
}

// Len returns the number of cached file sets.
func (c *Cache) Len() int { return c.m.Count() }
