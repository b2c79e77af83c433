package task

import (
	"context"
	"fmt"
	"io"

	"github.com/Abhey/hadoop/mr"
)

// Source yields one task's map-output records. Next returns io.EOF
// after the last record.
type Source interface {
	Next() (*mr.KeyValue, error)
}

type sliceSource struct {
	kvs []mr.KeyValue
	idx int
}

// SliceSource serves map output from memory.
func SliceSource(kvs []mr.KeyValue) Source {
	return &sliceSource{kvs: kvs}
}

func (s *sliceSource) Next() (*mr.KeyValue, error) {
	if s.idx >= len(s.kvs) {
		return nil, io.EOF
	}
	kv := &s.kvs[s.idx]
	s.idx++
	return kv, nil
}

type mapSource struct {
	ch   chan *mr.KeyValue
	errc chan error
	done bool
	err  error
}

// MapSource runs mapf over one input on its own goroutine and streams
// the records it emits. The mapper stops early when ctx is cancelled.
func MapSource(ctx context.Context, input string, rdr io.Reader, mapf mr.MapT) Source {
	s := &mapSource{
		ch:   make(chan *mr.KeyValue, 1024),
		errc: make(chan error, 1),
	}
	go func() {
		err := mapf(input, rdr, func(kv *mr.KeyValue) error {
			c := *kv
			select {
			case s.ch <- &c:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		s.errc <- err
		close(s.ch)
	}()
	return s
}

func (s *mapSource) Next() (*mr.KeyValue, error) {
	if s.done {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	kv, ok := <-s.ch
	if !ok {
		s.done = true
		if err := <-s.errc; err != nil {
			s.err = fmt.Errorf("map: %v: %w", err, mr.ErrUserCallable)
			return nil, s.err
		}
		return nil, io.EOF
	}
	return kv, nil
}
