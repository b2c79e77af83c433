// Package wc is the word-count map/reduce pair used by cmd/mrwc and
// the end-to-end tests.
package wc

import (
	"bufio"
	"io"
	"strconv"

	"github.com/Abhey/hadoop/mr"
)

func Map(input string, rdr io.Reader, emit mr.EmitT) error {
	scanner := bufio.NewScanner(rdr)
	scanner.Split(ScanWords)
	buf := make([]byte, 0, 2097152)
	scanner.Buffer(buf, cap(buf))
	for scanner.Scan() {
		kv := &mr.KeyValue{Key: scanner.Text(), Value: "1"}
		if err := emit(kv); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Reduce sums the counts for one word. It also serves as the
// combiner: summing partial sums is the same fold.
func Reduce(key string, values mr.Values, emit mr.EmitT) error {
	n := 0
	for {
		v, err := values.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		c, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		n += c
	}
	return emit(&mr.KeyValue{Key: key, Value: strconv.Itoa(n)})
}
