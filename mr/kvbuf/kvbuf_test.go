package kvbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/kvbuf"
)

func TestThresholds(t *testing.T) {
	b := kvbuf.NewBuf(0, 3)
	assert.False(t, b.Full())
	b.Add(&mr.KeyValue{Key: "a", Value: "1"})
	b.Add(&mr.KeyValue{Key: "b", Value: "2"})
	assert.False(t, b.Full())
	b.Add(&mr.KeyValue{Key: "c", Value: "3"})
	assert.True(t, b.Full())
	assert.Equal(t, 3, b.Len())
}

func TestByteThreshold(t *testing.T) {
	b := kvbuf.NewBuf(64, 0)
	for i := 0; !b.Full(); i++ {
		assert.Less(t, i, 100)
		b.Add(&mr.KeyValue{Key: "key", Value: "value"})
	}
	assert.GreaterOrEqual(t, b.Nbytes(), 64)
}

func TestNoThresholds(t *testing.T) {
	b := kvbuf.NewBuf(0, 0)
	for i := 0; i < 10000; i++ {
		b.Add(&mr.KeyValue{Key: "k", Value: "v"})
	}
	assert.False(t, b.Full())
}

func TestSorted(t *testing.T) {
	b := kvbuf.NewBuf(0, 0)
	for _, k := range []string{"c", "a", "b"} {
		b.Add(&mr.KeyValue{Key: k, Value: k})
	}
	kvs := b.Sorted(mr.StringOrder())
	assert.Equal(t, []string{"a", "b", "c"}, keys(kvs))
}

// Equal keys keep arrival order, and re-sorting a sorted run is the
// identity.
func TestSortStable(t *testing.T) {
	b := kvbuf.NewBuf(0, 0)
	b.Add(&mr.KeyValue{Key: "a", Value: "first"})
	b.Add(&mr.KeyValue{Key: "b", Value: "x"})
	b.Add(&mr.KeyValue{Key: "a", Value: "second"})
	order := mr.StringOrder()
	kvs := b.Sorted(order)
	assert.Equal(t, "first", kvs[0].Value)
	assert.Equal(t, "second", kvs[1].Value)

	again := b.Sorted(order)
	assert.Equal(t, kvs, again)
}

func TestReset(t *testing.T) {
	b := kvbuf.NewBuf(0, 2)
	b.Add(&mr.KeyValue{Key: "a", Value: "1"})
	b.Add(&mr.KeyValue{Key: "b", Value: "2"})
	assert.True(t, b.Full())
	b.Reset()
	assert.False(t, b.Full())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Nbytes())
}

func keys(kvs []mr.KeyValue) []string {
	ks := make([]string, len(kvs))
	for i, kv := range kvs {
		ks[i] = kv.Key
	}
	return ks
}
