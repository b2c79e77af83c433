package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abhey/hadoop/mr/counter"
)

func TestBasic(t *testing.T) {
	cs := counter.NewCounters()
	c := cs.C(counter.SpilledRecords)
	c.Add(3)
	c.Inc()
	assert.Equal(t, int64(4), c.Value())
	assert.Equal(t, int64(4), cs.Lookup(counter.SpilledRecords))
	assert.Equal(t, int64(0), cs.Lookup(counter.ReduceInputGroups))
}

func TestSameCounter(t *testing.T) {
	cs := counter.NewCounters()
	cs.C("x").Inc()
	cs.C("x").Inc()
	assert.Equal(t, int64(2), cs.Lookup("x"))
}

func TestConcurrent(t *testing.T) {
	const N = 100
	const M = 1000
	cs := counter.NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := cs.C(counter.MapOutputRecords)
			for j := 0; j < M; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(N*M), cs.Lookup(counter.MapOutputRecords))
}

func TestSnapshot(t *testing.T) {
	cs := counter.NewCounters()
	cs.C("a").Add(1)
	cs.C("b").Add(2)
	m := cs.Snapshot()
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, int64(2), m["b"])
	assert.Equal(t, 2, len(m))
}
