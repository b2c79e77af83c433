package group

import (
	"io"

	"github.com/Abhey/hadoop/mr"
)

// Stream is a forward-only sequence of records. Next returns io.EOF
// after the last record.
type Stream interface {
	Next() (*mr.KeyValue, error)
}

type sliceStream struct {
	kvs []mr.KeyValue
	idx int
}

// SliceStream streams an in-memory run of records.
func SliceStream(kvs []mr.KeyValue) Stream {
	return &sliceStream{kvs: kvs}
}

func (s *sliceStream) Next() (*mr.KeyValue, error) {
	if s.idx >= len(s.kvs) {
		return nil, io.EOF
	}
	kv := &s.kvs[s.idx]
	s.idx++
	return kv, nil
}
