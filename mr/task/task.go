// Package task runs one map-reduce task's local pipeline: map output
// is buffered, spilled to sorted segments under memory pressure
// (combining per group on the way out), the segments are k-way merged,
// and the merged stream is grouped and fed to the reduce function.
package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	db "github.com/Abhey/hadoop/debug"
	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/counter"
	"github.com/Abhey/hadoop/mr/group"
	"github.com/Abhey/hadoop/mr/kvbuf"
	"github.com/Abhey/hadoop/mr/merge"
	"github.com/Abhey/hadoop/mr/spill"
)

type Task struct {
	cfg          Config
	combineOrder *mr.KeyOrder
	reduceOrder  *mr.KeyOrder
	stats        Stats
	ran          bool
}

func New(cfg Config) (*Task, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sortCmp := cfg.SortCmp
	if sortCmp == nil {
		sortCmp = strings.Compare
	}
	co, err := mr.NewOrder(sortCmp, cfg.CombineGroupCmp)
	if err != nil {
		return nil, err
	}
	ro, err := mr.NewOrder(sortCmp, cfg.ReduceGroupCmp)
	if err != nil {
		return nil, err
	}
	if len(cfg.ValidationSample) > 0 {
		if err := co.ValidateCoarser(cfg.ValidationSample); err != nil {
			return nil, err
		}
		if err := ro.ValidateCoarser(cfg.ValidationSample); err != nil {
			return nil, err
		}
	}
	return &Task{cfg: cfg, combineOrder: co, reduceOrder: ro}, nil
}

func (t *Task) Stats() *Stats {
	return &t.stats
}

// Run consumes the task's map output and drives it through
// buffer/spill/merge/reduce. On success it returns the task's
// counters; on any failure or cancellation all segment files are
// removed, no output is committed, and the counters are discarded.
func (t *Task) Run(ctx context.Context, src Source) (*counter.Counters, error) {
	if t.ran {
		return nil, fmt.Errorf("%w: task already run", mr.ErrConfig)
	}
	t.ran = true

	fs := t.cfg.FS
	ownDir := ""
	if fs == nil {
		dir := t.cfg.Dir
		if dir == "" {
			d, err := os.MkdirTemp("", "mr-task-")
			if err != nil {
				return nil, err
			}
			dir = d
			ownDir = d
		}
		var err error
		fs, err = spill.NewDirFS(dir)
		if err != nil {
			if ownDir != "" {
				os.RemoveAll(ownDir)
			}
			return nil, err
		}
	}

	ctrs := counter.NewCounters()
	sw := spill.NewWriter(fs, t.combineOrder, t.cfg.Combine, t.cfg.MinSpillsForCombine, ctrs)

	var mg *merge.Merger
	fail := func(err error) (*counter.Counters, error) {
		if mg != nil {
			mg.Abort()
		}
		for _, seg := range sw.Segments() {
			seg.Remove()
		}
		if ownDir != "" {
			os.RemoveAll(ownDir)
		}
		db.DPrintf(db.TASK_ERR, "task failed: %v", err)
		return nil, err
	}

	buf, err := t.runProducer(ctx, src, sw, ctrs)
	if err != nil {
		return fail(err)
	}

	// Spilling is done; the transition to merge is one-way.
	segs := sw.Segments()
	var resident []mr.KeyValue
	if buf.Len() > 0 {
		sorted := buf.Sorted(t.combineOrder)
		if len(segs) == 0 && t.cfg.Combine != nil {
			// Nothing spilled yet, but the combiner still has to
			// see every group once: force a final spill.
			start := time.Now()
			seg, err := sw.Spill(sorted)
			if err != nil {
				return fail(err)
			}
			t.stats.record(time.Since(start), len(sorted), seg.Nbytes())
			segs = sw.Segments()
		} else {
			// The resident tail joins the merge as an in-memory
			// run (or feeds the reducer directly if nothing
			// spilled and there is no combiner).
			resident = sorted
		}
	}

	nsrc := len(segs)
	if len(resident) > 0 {
		nsrc++
	}
	var stream group.Stream
	switch {
	case nsrc == 0:
		stream = group.SliceStream(nil)
	case len(segs) == 0:
		stream = group.SliceStream(resident)
	default:
		srcs := make([]merge.Source, 0, nsrc)
		for _, seg := range segs {
			s, err := merge.SegmentSource(seg)
			if err != nil {
				return fail(err)
			}
			srcs = append(srcs, s)
		}
		if len(resident) > 0 {
			srcs = append(srcs, merge.RunSource(resident))
		}
		m, err := merge.New(t.combineOrder, srcs)
		if err != nil {
			return fail(err)
		}
		mg = m
		ctrs.C(counter.MergedSegments).Add(int64(len(segs)))
		stream = m
		// Re-combine across spill boundaries, but only when there
		// is more than one input and enough spills happened. A
		// single segment is already fully combined.
		if t.cfg.Combine != nil && nsrc > 1 && len(segs) >= t.cfg.MinSpillsForCombine {
			stream = group.Combine(stream, t.combineOrder, t.cfg.Combine,
				ctrs.C(counter.CombineInputRecords), ctrs.C(counter.CombineOutputRecords))
		}
		db.DPrintf(db.MERGE, "merging %d segments, resident run %d records", len(segs), len(resident))
	}

	if err := t.runReduce(ctx, stream, ctrs); err != nil {
		return fail(err)
	}

	t.stats.report()
	if ownDir != "" {
		os.RemoveAll(ownDir)
	}
	db.DPrintf(db.TASK, "done: %v", ctrs)
	return ctrs, nil
}

// runProducer fills buffers from the map-output source and hands full
// ones to a spill worker. At most one spill is in flight; a producer
// that fills a second buffer first blocks until the spill completes.
func (t *Task) runProducer(ctx context.Context, src Source, sw *spill.Writer, ctrs *counter.Counters) (*kvbuf.Buf, error) {
	mapOut := ctrs.C(counter.MapOutputRecords)
	buf := kvbuf.NewBuf(t.cfg.SpillBytes, t.cfg.SpillRecords)

	tok := make(chan struct{}, 1)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var spillErr error

	var perr error
loop:
	for {
		kv, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			perr = err
			break
		}
		mapOut.Inc()
		buf.Add(kv)
		if !buf.Full() {
			continue
		}

		select {
		case tok <- struct{}{}:
		case <-ctx.Done():
			perr = ctx.Err()
			break loop
		}
		mu.Lock()
		err = spillErr
		mu.Unlock()
		if err != nil {
			<-tok
			perr = err
			break
		}

		full := buf
		buf = kvbuf.NewBuf(t.cfg.SpillBytes, t.cfg.SpillRecords)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-tok }()
			start := time.Now()
			sorted := full.Sorted(t.combineOrder)
			seg, err := sw.Spill(sorted)
			if err != nil {
				mu.Lock()
				spillErr = err
				mu.Unlock()
				return
			}
			t.stats.record(time.Since(start), len(sorted), seg.Nbytes())
		}()
	}

	wg.Wait()
	mu.Lock()
	serr := spillErr
	mu.Unlock()
	if perr == nil {
		perr = serr
	}
	if perr == nil {
		perr = ctx.Err()
	}
	if perr != nil {
		return nil, perr
	}
	return buf, nil
}

func (t *Task) runReduce(ctx context.Context, stream group.Stream, ctrs *counter.Counters) error {
	gs := group.NewScanner(stream, t.reduceOrder,
		ctrs.C(counter.ReduceInputGroups), ctrs.C(counter.ReduceInputRecords))
	outCtr := ctrs.C(counter.ReduceOutputRecords)
	emit := func(kv *mr.KeyValue) error {
		if err := t.cfg.Out(kv); err != nil {
			return err
		}
		outCtr.Inc()
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := gs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		db.DPrintf(db.REDUCE, "group %q", g.Key())
		if err := t.cfg.Reduce(g.Key(), g, emit); err != nil {
			return fmt.Errorf("reduce %q: %v: %w", g.Key(), err, mr.ErrUserCallable)
		}
	}
	return nil
}
