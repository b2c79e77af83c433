package group

import (
	"fmt"
	"io"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/counter"
)

// Combine folds each group of the sorted src through combinef and
// streams the records it emits. in counts records entering the
// combiner, out the records it emitted; either may be nil.
func Combine(src Stream, order *mr.KeyOrder, combinef mr.ReduceT, in, out *counter.Counter) Stream {
	return &combineStream{
		scan:     NewScanner(src, order, nil, in),
		combinef: combinef,
		out:      out,
	}
}

type combineStream struct {
	scan     *Scanner
	combinef mr.ReduceT
	out      *counter.Counter
	emitted  []mr.KeyValue
	idx      int
	eof      bool
}

func (c *combineStream) Next() (*mr.KeyValue, error) {
	for c.idx >= len(c.emitted) {
		if c.eof {
			return nil, io.EOF
		}
		g, err := c.scan.Next()
		if err == io.EOF {
			c.eof = true
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		c.emitted = c.emitted[:0]
		c.idx = 0
		err = c.combinef(g.Key(), g, func(kv *mr.KeyValue) error {
			c.emitted = append(c.emitted, *kv)
			if c.out != nil {
				c.out.Inc()
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("combine %q: %v: %w", g.Key(), err, mr.ErrUserCallable)
		}
	}
	kv := &c.emitted[c.idx]
	c.idx++
	return kv, nil
}
