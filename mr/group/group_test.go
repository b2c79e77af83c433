package group_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/counter"
	"github.com/Abhey/hadoop/mr/group"
)

func prefixCmp(a, b string) int {
	pa := a[:strings.IndexByte(a, '|')]
	pb := b[:strings.IndexByte(b, '|')]
	return strings.Compare(pa, pb)
}

func kvs(pairs ...string) []mr.KeyValue {
	out := make([]mr.KeyValue, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, mr.KeyValue{Key: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func drainValues(t *testing.T, g *group.Group) []string {
	vs := []string{}
	for {
		v, err := g.Next()
		if err == io.EOF {
			break
		}
		assert.Nil(t, err)
		vs = append(vs, v)
	}
	return vs
}

func TestGroups(t *testing.T) {
	order := mr.StringOrder().WithGroup(prefixCmp)
	src := group.SliceStream(kvs("A|a", "1", "A|b", "2", "B|a", "3", "B|b", "4", "B|c", "5"))
	gs := group.NewScanner(src, order, nil, nil)

	g, err := gs.Next()
	assert.Nil(t, err)
	assert.Equal(t, "A|a", g.Key())
	assert.Equal(t, []string{"1", "2"}, drainValues(t, g))

	g, err = gs.Next()
	assert.Nil(t, err)
	assert.Equal(t, "B|a", g.Key())
	assert.Equal(t, []string{"3", "4", "5"}, drainValues(t, g))

	_, err = gs.Next()
	assert.Equal(t, io.EOF, err)
}

// Advancing the scanner drains whatever values the consumer skipped.
func TestLazySkip(t *testing.T) {
	order := mr.StringOrder().WithGroup(prefixCmp)
	src := group.SliceStream(kvs("A|a", "1", "A|b", "2", "B|a", "3"))
	gs := group.NewScanner(src, order, nil, nil)

	g, err := gs.Next()
	assert.Nil(t, err)
	assert.Equal(t, "A|a", g.Key())
	// Consume nothing from the first group.

	g, err = gs.Next()
	assert.Nil(t, err)
	assert.Equal(t, "B|a", g.Key())
	assert.Equal(t, []string{"3"}, drainValues(t, g))

	_, err = gs.Next()
	assert.Equal(t, io.EOF, err)
}

func TestEmptyStream(t *testing.T) {
	gs := group.NewScanner(group.SliceStream(nil), mr.StringOrder(), nil, nil)
	_, err := gs.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCounters(t *testing.T) {
	cs := counter.NewCounters()
	order := mr.StringOrder().WithGroup(prefixCmp)
	src := group.SliceStream(kvs("A|a", "1", "A|b", "2", "B|a", "3"))
	gs := group.NewScanner(src, order, cs.C(counter.ReduceInputGroups), cs.C(counter.ReduceInputRecords))
	for {
		g, err := gs.Next()
		if err == io.EOF {
			break
		}
		assert.Nil(t, err)
		drainValues(t, g)
	}
	assert.Equal(t, int64(2), cs.Lookup(counter.ReduceInputGroups))
	assert.Equal(t, int64(3), cs.Lookup(counter.ReduceInputRecords))
}

// A grouping that considers adjacent groups' representatives equal is
// not a valid coarsening of the sort order.
func TestGroupingViolation(t *testing.T) {
	lenCmp := func(a, b string) int {
		d := len(a) - len(b)
		if d < -1 || d > 1 {
			return d
		}
		return 0
	}
	order := mr.StringOrder().WithGroup(lenCmp)
	// "aaa"~"bb" (diff 1), "bb"!~"cccc" (diff 2) cuts a boundary,
	// but the new representative "cccc" still groups with "aaa".
	src := group.SliceStream(kvs("aaa", "1", "bb", "2", "cccc", "3"))
	gs := group.NewScanner(src, order, nil, nil)

	g, err := gs.Next()
	assert.Nil(t, err)
	drainValues(t, g)

	_, err = gs.Next()
	assert.NotNil(t, err)
	assert.ErrorIs(t, err, mr.ErrGrouping)
}

func TestCombine(t *testing.T) {
	cs := counter.NewCounters()
	order := mr.StringOrder().WithGroup(prefixCmp)
	src := group.SliceStream(kvs("A|a", "1", "A|b", "2", "B|a", "3", "B|b", "4", "B|c", "5"))

	sum := func(key string, values mr.Values, emit mr.EmitT) error {
		n := 0
		for {
			v, err := values.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			n += int(v[0] - '0')
			_ = v
		}
		return emit(&mr.KeyValue{Key: key, Value: strings.Repeat("x", n)})
	}

	out := group.Combine(src, order, sum, cs.C(counter.CombineInputRecords), cs.C(counter.CombineOutputRecords))
	var got []mr.KeyValue
	for {
		kv, err := out.Next()
		if err == io.EOF {
			break
		}
		assert.Nil(t, err)
		got = append(got, *kv)
	}
	assert.Equal(t, 2, len(got))
	assert.Equal(t, "A|a", got[0].Key)
	assert.Equal(t, 3, len(got[0].Value))
	assert.Equal(t, "B|a", got[1].Key)
	assert.Equal(t, 12, len(got[1].Value))
	assert.Equal(t, int64(5), cs.Lookup(counter.CombineInputRecords))
	assert.Equal(t, int64(2), cs.Lookup(counter.CombineOutputRecords))
}

func TestCombineUserError(t *testing.T) {
	order := mr.StringOrder()
	src := group.SliceStream(kvs("a", "1"))
	boom := func(key string, values mr.Values, emit mr.EmitT) error {
		return io.ErrUnexpectedEOF
	}
	out := group.Combine(src, order, boom, nil, nil)
	_, err := out.Next()
	assert.NotNil(t, err)
	assert.ErrorIs(t, err, mr.ErrUserCallable)
}
