package task

import (
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"

	db "github.com/Abhey/hadoop/debug"
)

// Stats accumulates per-spill timings and sizes for one task run.
type Stats struct {
	mu       sync.Mutex
	lats     []time.Duration
	nbytes   int64
	nrecords int64
}

func (st *Stats) record(d time.Duration, nrecords int, nbytes int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.lats = append(st.lats, d)
	st.nrecords += int64(nrecords)
	st.nbytes += nbytes
}

func (st *Stats) Nspills() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.lats)
}

func (st *Stats) Nbytes() int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.nbytes
}

func (st *Stats) report() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.lats) == 0 || !db.WillPrint(db.STAT) {
		return
	}
	data := make([]float64, len(st.lats))
	for i, l := range st.lats {
		data[i] = float64(l.Microseconds()) / 1000.0
	}
	mean, err := stats.Mean(data)
	if err != nil {
		db.DPrintf(db.STAT, "mean err %v", err)
		return
	}
	p50, err := stats.Percentile(data, 50)
	if err != nil {
		db.DPrintf(db.STAT, "p50 err %v", err)
		return
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		db.DPrintf(db.STAT, "p90 err %v", err)
		return
	}
	p99, err := stats.Percentile(data, 99)
	if err != nil {
		db.DPrintf(db.STAT, "p99 err %v", err)
		return
	}
	db.DPrintf(db.STAT, "spills %d records %d bytes %s lat(ms) mean %.2f 50%% %.2f 90%% %.2f 99%% %.2f",
		len(st.lats), st.nrecords, humanize.Bytes(uint64(st.nbytes)), mean, p50, p90, p99)
}
