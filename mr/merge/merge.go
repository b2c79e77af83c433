// Package merge performs the external k-way merge over spill
// segments, plus optionally a still-resident in-memory run. Output is
// sorted by the sort comparator; ties across sources go to the
// earlier-created source, so the merge is a stable interleave.
// Each segment is deleted as soon as its cursor is exhausted.
package merge

import (
	"container/heap"
	"io"

	db "github.com/Abhey/hadoop/debug"
	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/spill"
)

// Source is one sorted input to the merge. Finish is called exactly
// once, when the source is exhausted or the merge is aborted; for
// segment sources it deletes the backing file.
type Source interface {
	Next() (*mr.KeyValue, error)
	Finish() error
}

type segSource struct {
	cur *spill.Cursor
}

// SegmentSource merges in one spill segment.
func SegmentSource(seg *spill.Segment) (Source, error) {
	cur, err := seg.Cursor()
	if err != nil {
		return nil, err
	}
	return &segSource{cur: cur}, nil
}

func (s *segSource) Next() (*mr.KeyValue, error) {
	return s.cur.Next()
}

func (s *segSource) Finish() error {
	s.cur.Close()
	db.DPrintf(db.MERGE, "segment %v consumed, removing", s.cur.Segment().Name())
	return s.cur.Segment().Remove()
}

type runSource struct {
	kvs []mr.KeyValue
	idx int
}

// RunSource merges in a sorted in-memory run.
func RunSource(kvs []mr.KeyValue) Source {
	return &runSource{kvs: kvs}
}

func (r *runSource) Next() (*mr.KeyValue, error) {
	if r.idx >= len(r.kvs) {
		return nil, io.EOF
	}
	kv := &r.kvs[r.idx]
	r.idx++
	return kv, nil
}

func (r *runSource) Finish() error {
	return nil
}

type head struct {
	kv  *mr.KeyValue
	src Source
	seq int
}

type headHeap struct {
	heads []*head
	order *mr.KeyOrder
}

func (h *headHeap) Len() int { return len(h.heads) }

func (h *headHeap) Less(i, j int) bool {
	c := h.order.Compare(h.heads[i].kv.Key, h.heads[j].kv.Key)
	if c != 0 {
		return c < 0
	}
	return h.heads[i].seq < h.heads[j].seq
}

func (h *headHeap) Swap(i, j int) { h.heads[i], h.heads[j] = h.heads[j], h.heads[i] }

func (h *headHeap) Push(x interface{}) { h.heads = append(h.heads, x.(*head)) }

func (h *headHeap) Pop() interface{} {
	old := h.heads
	n := len(old)
	x := old[n-1]
	h.heads = old[:n-1]
	return x
}

type Merger struct {
	h   headHeap
	err error
}

// New primes one cursor per source. Sources must be passed in
// creation order; their index is the tie-break sequence.
func New(order *mr.KeyOrder, srcs []Source) (*Merger, error) {
	m := &Merger{h: headHeap{order: order}}
	for seq, src := range srcs {
		kv, err := src.Next()
		if err == io.EOF {
			if ferr := src.Finish(); ferr != nil {
				m.Abort()
				return nil, ferr
			}
			continue
		}
		if err != nil {
			m.Abort()
			return nil, err
		}
		m.h.heads = append(m.h.heads, &head{kv: kv, src: src, seq: seq})
	}
	heap.Init(&m.h)
	return m, nil
}

// Next emits the smallest head record across all sources.
func (m *Merger) Next() (*mr.KeyValue, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.h.Len() == 0 {
		return nil, io.EOF
	}
	top := m.h.heads[0]
	kv := top.kv

	next, err := top.src.Next()
	switch {
	case err == io.EOF:
		heap.Pop(&m.h)
		if ferr := top.src.Finish(); ferr != nil {
			m.err = ferr
			return nil, ferr
		}
	case err != nil:
		m.err = err
		return nil, err
	default:
		top.kv = next
		heap.Fix(&m.h, 0)
	}
	return kv, nil
}

// Abort finishes all remaining sources so their segments are removed.
func (m *Merger) Abort() {
	for _, hd := range m.h.heads {
		if err := hd.src.Finish(); err != nil {
			db.DPrintf(db.MERGE_ERR, "abort finish err %v", err)
		}
	}
	m.h.heads = nil
	if m.err == nil {
		m.err = io.EOF
	}
}
