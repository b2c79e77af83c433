// Package counter tracks per-task record counts. A Counters set is
// created for each task execution and passed down the pipeline, so
// multiple tasks can run in one process without interference.
package counter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Task counter names.
const (
	MapOutputRecords     = "map-output-records"
	SpilledRecords       = "spilled-records"
	Spills               = "spills"
	CombineInputRecords  = "combine-input-records"
	CombineOutputRecords = "combine-output-records"
	MergedSegments       = "merged-segments"
	ReduceInputGroups    = "reduce-input-groups"
	ReduceInputRecords   = "reduce-input-records"
	ReduceOutputRecords  = "reduce-output-records"
)

type Counters struct {
	mu   sync.Mutex
	ctrs map[string]*int64
}

func NewCounters() *Counters {
	return &Counters{ctrs: make(map[string]*int64)}
}

// C returns the counter for name, creating it at zero if needed. The
// returned pointer is stable for the lifetime of the set; stages cache
// it and increment with Add.
func (cs *Counters) C(name string) *Counter {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	v, ok := cs.ctrs[name]
	if !ok {
		v = new(int64)
		cs.ctrs[name] = v
	}
	return &Counter{v}
}

// Lookup returns the counter's value, or 0 if it was never touched.
func (cs *Counters) Lookup(name string) int64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if v, ok := cs.ctrs[name]; ok {
		return atomic.LoadInt64(v)
	}
	return 0
}

// Snapshot copies out all counters touched so far.
func (cs *Counters) Snapshot() map[string]int64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	m := make(map[string]int64, len(cs.ctrs))
	for n, v := range cs.ctrs {
		m[n] = atomic.LoadInt64(v)
	}
	return m
}

func (cs *Counters) String() string {
	m := cs.Snapshot()
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	for i, n := range names {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s=%d", n, m[n])
	}
	return sb.String()
}

// Counter is one monotonically increasing 64-bit counter, safe for
// concurrent increment from multiple pipeline stages.
type Counter struct {
	v *int64
}

func (c *Counter) Add(n int64) {
	atomic.AddInt64(c.v, n)
}

func (c *Counter) Inc() {
	atomic.AddInt64(c.v, 1)
}

func (c *Counter) Value() int64 {
	return atomic.LoadInt64(c.v)
}
