package spill

import (
	"fmt"
	"io"

	"github.com/klauspost/readahead"

	"github.com/Abhey/hadoop/mr"
)

// Segment is one immutable, sorted spill file. It is written once by
// the spill writer and read once by the merge; the merge removes it
// after its cursor is exhausted.
type Segment struct {
	fs       FS
	name     string
	seq      int
	nrecords int
	nbytes   int64
}

func (s *Segment) Name() string {
	return s.name
}

// Seq is the segment's creation order; the merge breaks sort ties in
// favor of the lower sequence.
func (s *Segment) Seq() int {
	return s.seq
}

func (s *Segment) Nrecords() int {
	return s.nrecords
}

func (s *Segment) Nbytes() int64 {
	return s.nbytes
}

func (s *Segment) Remove() error {
	return s.fs.Remove(s.name)
}

// Cursor opens a forward-only reader over the segment's records.
func (s *Segment) Cursor() (*Cursor, error) {
	rc, err := s.fs.Open(s.name)
	if err != nil {
		return nil, fmt.Errorf("segment open %v: %w", s.name, err)
	}
	ra, err := readahead.NewReaderSize(rc, 4, BUFSZ)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("segment readahead %v: %w", s.name, err)
	}
	return &Cursor{seg: s, rc: rc, ra: ra, dec: newKVDecoder(ra)}, nil
}

type Cursor struct {
	seg    *Segment
	rc     io.ReadCloser
	ra     io.ReadCloser
	dec    *kvdecoder
	closed bool
}

func (c *Cursor) Segment() *Segment {
	return c.seg
}

// Next returns the segment's next record; io.EOF after the last one.
func (c *Cursor) Next() (*mr.KeyValue, error) {
	if c.closed {
		return nil, io.EOF
	}
	kv, err := c.dec.decode()
	if err == io.EOF {
		c.Close()
		return nil, io.EOF
	}
	return kv, err
}

func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.ra.Close()
	return c.rc.Close()
}
