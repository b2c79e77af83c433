// Package group splits a sorted record stream into groups: maximal
// runs of records that the group comparator considers equal. Groups
// and their value streams are lazy and single-pass; advancing the
// scanner drains whatever the consumer left unread, so a group's
// values are never materialized.
package group

import (
	"fmt"
	"io"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/counter"
)

type Scanner struct {
	src   Stream
	order *mr.KeyOrder

	groups  *counter.Counter // may be nil
	records *counter.Counter // may be nil

	cur     *Group
	pending *mr.KeyValue // first record of the next group
	prevRep string       // representative of the previous group
	havePrev bool
	err     error
}

// NewScanner wraps a stream sorted by order's sort comparator. The
// counters, when non-nil, track groups started and records drained.
func NewScanner(src Stream, order *mr.KeyOrder, groups, records *counter.Counter) *Scanner {
	return &Scanner{src: src, order: order, groups: groups, records: records}
}

// Next drains the current group and returns the next one, or io.EOF.
func (s *Scanner) Next() (*Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cur != nil {
		if err := s.cur.drain(); err != nil {
			return nil, err
		}
	}

	first := s.pending
	s.pending = nil
	if first == nil {
		kv, err := s.src.Next()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			s.err = err
			return nil, err
		}
		first = kv
	}

	// A fresh group whose representative still group-compares equal
	// to the previous group's representative means group-equal
	// records were not sort-adjacent: the comparator pair is invalid.
	if s.havePrev && s.order.SameGroup(s.prevRep, first.Key) {
		s.err = fmt.Errorf("%w: keys %q and %q", mr.ErrGrouping, s.prevRep, first.Key)
		return nil, s.err
	}
	s.prevRep = first.Key
	s.havePrev = true

	if s.groups != nil {
		s.groups.Inc()
	}
	s.cur = &Group{s: s, key: first.Key, last: first.Key, first: first}
	return s.cur, nil
}

// Group is one run of records in which each record group-compares
// equal to its predecessor. Key is the key of the first record in the
// run; Next streams the run's values.
type Group struct {
	s     *Scanner
	key   string
	last  string
	first *mr.KeyValue
	done  bool
}

func (g *Group) Key() string {
	return g.key
}

// Next returns the group's next value, or io.EOF at the end of the
// group. Implements mr.Values.
func (g *Group) Next() (string, error) {
	if g.done {
		return "", io.EOF
	}
	if g.first != nil {
		v := g.first.Value
		g.first = nil
		g.count()
		return v, nil
	}
	kv, err := g.s.src.Next()
	if err == io.EOF {
		g.finish()
		return "", io.EOF
	}
	if err != nil {
		g.done = true
		g.s.err = err
		return "", err
	}
	if !g.s.order.SameGroup(g.last, kv.Key) {
		g.s.pending = kv
		g.finish()
		return "", io.EOF
	}
	g.last = kv.Key
	g.count()
	return kv.Value, nil
}

func (g *Group) count() {
	if g.s.records != nil {
		g.s.records.Inc()
	}
}

func (g *Group) finish() {
	g.done = true
	g.s.cur = nil
}

func (g *Group) drain() error {
	for !g.done {
		if _, err := g.Next(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}

var _ mr.Values = (*Group)(nil)
