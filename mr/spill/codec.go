package spill

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fmstephe/unsafeutil"

	"github.com/Abhey/hadoop/mr"
)

// Segment record framing: two little-endian int64 lengths followed by
// the raw key and value bytes.

func encodeKV(wr io.Writer, kv *mr.KeyValue) (int, error) {
	l1 := int64(len(kv.Key))
	l2 := int64(len(kv.Value))
	if err := binary.Write(wr, binary.LittleEndian, l1); err != nil {
		return 0, fmt.Errorf("segment write klen: %w", err)
	}
	if err := binary.Write(wr, binary.LittleEndian, l2); err != nil {
		return 0, fmt.Errorf("segment write vlen: %w", err)
	}
	if n, err := wr.Write(unsafeutil.StringToBytes(kv.Key)); err != nil || n != len(kv.Key) {
		return 0, fmt.Errorf("segment write key: %w", err)
	}
	if n, err := wr.Write(unsafeutil.StringToBytes(kv.Value)); err != nil || n != len(kv.Value) {
		return 0, fmt.Errorf("segment write value: %w", err)
	}
	return 16 + int(l1) + int(l2), nil
}

type kvdecoder struct {
	rd    io.Reader
	key   []byte
	value []byte
}

func newKVDecoder(rd io.Reader) *kvdecoder {
	return &kvdecoder{
		rd:    rd,
		key:   make([]byte, 0, 256),
		value: make([]byte, 0, 1024),
	}
}

// decode reads the next record. Returns io.EOF cleanly at a record
// boundary; a short read mid-record is an error.
func (kvd *kvdecoder) decode() (*mr.KeyValue, error) {
	var l1 int64
	var l2 int64

	if err := binary.Read(kvd.rd, binary.LittleEndian, &l1); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("segment read klen: %w", err)
	}
	if err := binary.Read(kvd.rd, binary.LittleEndian, &l2); err != nil {
		return nil, fmt.Errorf("segment read vlen: %w", err)
	}
	if l1 < 0 || l2 < 0 {
		return nil, fmt.Errorf("segment corrupt lengths %d %d", l1, l2)
	}

	if int64(cap(kvd.key)) < l1 {
		kvd.key = make([]byte, 0, l1)
	}
	if int64(cap(kvd.value)) < l2 {
		kvd.value = make([]byte, 0, l2)
	}
	kvd.key = kvd.key[:l1]
	kvd.value = kvd.value[:l2]

	if _, err := io.ReadFull(kvd.rd, kvd.key); err != nil {
		return nil, fmt.Errorf("segment read key: %w", err)
	}
	if _, err := io.ReadFull(kvd.rd, kvd.value); err != nil {
		return nil, fmt.Errorf("segment read value: %w", err)
	}
	// Copy out: the read buffers are reused by the next decode.
	return &mr.KeyValue{Key: string(kvd.key), Value: string(kvd.value)}, nil
}
