// Package spill turns sorted runs of buffered records into immutable
// on-disk segments, running the combiner once per group on the way
// out when combining is enabled for the spill.
package spill

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/thanhpk/randstr"

	db "github.com/Abhey/hadoop/debug"
	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/counter"
	"github.com/Abhey/hadoop/mr/group"
)

const BUFSZ = 1 << 20

type Writer struct {
	fs        FS
	order     *mr.KeyOrder // sort order + combiner grouping
	combinef  mr.ReduceT   // nil disables combining
	minSpills int          // completed spills required before combining

	nspills int
	segs    []*Segment

	spills  *counter.Counter
	spilled *counter.Counter
	cin     *counter.Counter
	cout    *counter.Counter
}

func NewWriter(fs FS, order *mr.KeyOrder, combinef mr.ReduceT, minSpills int, ctrs *counter.Counters) *Writer {
	return &Writer{
		fs:        fs,
		order:     order,
		combinef:  combinef,
		minSpills: minSpills,
		spills:    ctrs.C(counter.Spills),
		spilled:   ctrs.C(counter.SpilledRecords),
		cin:       ctrs.C(counter.CombineInputRecords),
		cout:      ctrs.C(counter.CombineOutputRecords),
	}
}

// Segments returns the finalized segments in creation order.
func (w *Writer) Segments() []*Segment {
	return w.segs
}

// Spill writes one sorted run to a new segment. Combining applies
// when a combiner is configured and the number of completed spills has
// reached the minimum (0 means combine from the very first spill).
// On error nothing is registered and the partial file is removed.
func (w *Writer) Spill(sorted []mr.KeyValue) (*Segment, error) {
	if len(sorted) == 0 {
		return nil, nil
	}

	name := fmt.Sprintf("spill-%04d", w.nspills)
	tmp := name + "." + randstr.String(16) + ".tmp"
	final := name + ".seg"

	combine := w.combinef != nil && w.nspills >= w.minSpills

	f, err := w.fs.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("spill create %v: %w", tmp, err)
	}

	seg, err := w.writeSegment(f, sorted, combine, final)
	if err != nil {
		f.Close()
		if rerr := w.fs.Remove(tmp); rerr != nil {
			db.DPrintf(db.SPILL_ERR, "remove partial %v err %v", tmp, rerr)
		}
		return nil, err
	}
	if err := f.Close(); err != nil {
		w.fs.Remove(tmp)
		return nil, fmt.Errorf("spill close %v: %w", tmp, err)
	}
	if err := w.fs.Rename(tmp, final); err != nil {
		w.fs.Remove(tmp)
		return nil, fmt.Errorf("spill rename %v: %w", tmp, err)
	}

	w.spilled.Add(int64(len(sorted)))
	w.spills.Inc()
	w.nspills++
	w.segs = append(w.segs, seg)
	db.DPrintf(db.SPILL, "spill %v: %d records in, %d out, %s (combine %v)",
		final, len(sorted), seg.nrecords, humanize.Bytes(uint64(seg.nbytes)), combine)
	return seg, nil
}

func (w *Writer) writeSegment(f io.Writer, sorted []mr.KeyValue, combine bool, name string) (*Segment, error) {
	bwrt := bufio.NewWriterSize(f, BUFSZ)
	seg := &Segment{fs: w.fs, name: name, seq: w.nspills}

	var src group.Stream = group.SliceStream(sorted)
	if combine {
		src = group.Combine(src, w.order, w.combinef, w.cin, w.cout)
	}
	for {
		kv, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		n, err := encodeKV(bwrt, kv)
		if err != nil {
			return nil, err
		}
		seg.nrecords++
		seg.nbytes += int64(n)
	}
	if err := bwrt.Flush(); err != nil {
		return nil, fmt.Errorf("spill flush: %w", err)
	}
	return seg, nil
}
