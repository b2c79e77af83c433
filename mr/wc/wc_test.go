package wc_test

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/task"
	"github.com/Abhey/hadoop/mr/wc"
)

func scan(s string) []string {
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Split(wc.ScanWords)
	var ws []string
	for sc.Scan() {
		ws = append(ws, sc.Text())
	}
	return ws
}

func TestScanWords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, scan("a b\tc"))
	assert.Equal(t, []string{"foo_bar", "x1"}, scan("foo_bar, x1!"))
	assert.Equal(t, []string{"don", "t"}, scan("don't"))
	assert.Nil(t, scan("...  ---"))
	assert.Equal(t, []string{"trailing"}, scan("  trailing"))
}

func TestMap(t *testing.T) {
	var kvs []mr.KeyValue
	err := wc.Map("in", strings.NewReader("a b a"), func(kv *mr.KeyValue) error {
		kvs = append(kvs, *kv)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []mr.KeyValue{
		{Key: "a", Value: "1"}, {Key: "b", Value: "1"}, {Key: "a", Value: "1"},
	}, kvs)
}

func TestWordCount(t *testing.T) {
	text := "the cat sat on the mat; the cat left"
	var out []mr.KeyValue
	tk, err := task.New(task.Config{
		Dir:          t.TempDir(),
		SpillRecords: 4,
		Combine:      wc.Reduce,
		Reduce:       wc.Reduce,
		Out: func(kv *mr.KeyValue) error {
			out = append(out, *kv)
			return nil
		},
	})
	assert.Nil(t, err)

	src := task.MapSource(context.Background(), "in", strings.NewReader(text), wc.Map)
	_, err = tk.Run(context.Background(), src)
	assert.Nil(t, err)

	counts := map[string]string{}
	for _, kv := range out {
		counts[kv.Key] = kv.Value
	}
	assert.Equal(t, "3", counts["the"])
	assert.Equal(t, "2", counts["cat"])
	assert.Equal(t, "1", counts["mat"])
	assert.Equal(t, "1", counts["left"])
	assert.Equal(t, 6, len(out))
}
