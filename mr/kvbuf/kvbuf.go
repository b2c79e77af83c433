// Package kvbuf accumulates map-output records in memory until a spill
// threshold is reached. A Buf is filled by one producer; the task swaps
// in a fresh Buf before handing a full one to the spiller, so the
// producer only blocks for the swap, never for the sort or the write.
package kvbuf

import (
	"sort"

	"github.com/Abhey/hadoop/mr"
)

// Per-record accounting overhead on top of key and value bytes.
const recordOverhead = 16

type Buf struct {
	kvs        []mr.KeyValue
	nbytes     int
	maxBytes   int
	maxRecords int
}

// NewBuf creates a buffer that reports Full once maxBytes or
// maxRecords is exceeded. A zero threshold leaves that limit off.
func NewBuf(maxBytes, maxRecords int) *Buf {
	return &Buf{
		kvs:        make([]mr.KeyValue, 0, 1024),
		maxBytes:   maxBytes,
		maxRecords: maxRecords,
	}
}

func (b *Buf) Add(kv *mr.KeyValue) {
	b.kvs = append(b.kvs, *kv)
	b.nbytes += kv.Size() + recordOverhead
}

func (b *Buf) Len() int {
	return len(b.kvs)
}

func (b *Buf) Nbytes() int {
	return b.nbytes
}

func (b *Buf) Full() bool {
	if b.maxBytes > 0 && b.nbytes >= b.maxBytes {
		return true
	}
	if b.maxRecords > 0 && len(b.kvs) >= b.maxRecords {
		return true
	}
	return false
}

// Sorted sorts the buffered records in place by the sort comparator
// and returns them. The sort is stable, so records with equal keys
// keep their arrival order and re-sorting an already-sorted run is the
// identity.
func (b *Buf) Sorted(order *mr.KeyOrder) []mr.KeyValue {
	kvs := b.kvs
	sort.SliceStable(kvs, func(i, j int) bool {
		return order.Less(kvs[i].Key, kvs[j].Key)
	})
	return kvs
}

// Reset clears the buffer for reuse.
func (b *Buf) Reset() {
	b.kvs = b.kvs[:0]
	b.nbytes = 0
}
