package main

//
// Local word count over one input file, driven through the task
// pipeline: mrwc [-job conf.yml] input output
//

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/counter"
	"github.com/Abhey/hadoop/mr/task"
	"github.com/Abhey/hadoop/mr/wc"
)

var jobfile = flag.String("job", "", "yaml job config")

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %v [-job conf.yml] input output\n", os.Args[0])
		os.Exit(1)
	}
	input, output := args[0], args[1]

	job := &mr.Job{App: "wc", Spillrecords: 1_000_000}
	if *jobfile != "" {
		j, err := mr.ReadJobConfig(*jobfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v: job config: %v\n", os.Args[0], err)
			os.Exit(1)
		}
		job = j
	}

	in, err := os.Open(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: open %v: %v\n", os.Args[0], input, err)
		os.Exit(1)
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: create %v: %v\n", os.Args[0], output, err)
		os.Exit(1)
	}
	defer out.Close()
	bwrt := bufio.NewWriter(out)

	t, err := task.New(task.Config{
		Dir:                 job.Tmp,
		SpillBytes:          job.Spillsz,
		SpillRecords:        job.Spillrecords,
		MinSpillsForCombine: job.Minspillcombine,
		Combine:             wc.Reduce,
		Reduce:              wc.Reduce,
		Out: func(kv *mr.KeyValue) error {
			_, err := fmt.Fprintf(bwrt, "%s\t%s\n", kv.Key, kv.Value)
			return err
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}

	ctx := context.Background()
	ctrs, err := t.Run(ctx, task.MapSource(ctx, input, in, wc.Map))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	if err := bwrt.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "%v: flush %v: %v\n", os.Args[0], output, err)
		os.Exit(1)
	}

	fmt.Printf("%v: %d words in, %d out, spilled %s\n", job.App,
		ctrs.Lookup(counter.MapOutputRecords),
		ctrs.Lookup(counter.ReduceOutputRecords),
		humanize.Bytes(uint64(t.Stats().Nbytes())))
	fmt.Printf("counters: %v\n", ctrs)
}
