package mr

import (
	"hash/fnv"
	"io"
)

//
// A map function emits KeyValue records; combine and reduce functions
// fold one group of values into zero or more output records.
//
type KeyValue struct {
	Key   string
	Value string
}

// Size is the record's contribution to buffer usage accounting.
func (kv *KeyValue) Size() int {
	return len(kv.Key) + len(kv.Value)
}

// EmitT accepts one output record from a map, combine, or reduce function.
type EmitT func(kv *KeyValue) error

type MapT func(input string, rdr io.Reader, emit EmitT) error

// Values is a forward-only, single-pass stream over one group's values.
// Next returns io.EOF when the group is exhausted.
type Values interface {
	Next() (string, error)
}

// ReduceT folds one group: the representative key and a lazy value
// stream. Combiners and reducers share this signature.
type ReduceT func(key string, values Values, emit EmitT) error

//
// use Khash(key) % nreduce to choose the reduce task number for each
// KeyValue emitted by a map function.
//
func Khash(key []byte) int {
	h := fnv.New32a()
	h.Write(key)
	return int(h.Sum32() & 0x7fffffff)
}
