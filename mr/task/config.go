package task

import (
	"fmt"

	"github.com/Abhey/hadoop/mr"
	"github.com/Abhey/hadoop/mr/spill"
)

type Config struct {
	// Dir holds the task's private segment files. Empty means a
	// fresh directory under the system temp dir, removed when the
	// task finishes.
	Dir string
	// FS overrides the segment filesystem; when set, Dir is unused.
	FS spill.FS

	// Spill thresholds; crossing either drains the buffer to disk.
	// Zero disables that limit.
	SpillBytes   int
	SpillRecords int

	// Completed spills required before spill-time combining kicks
	// in; 0 combines from the very first spill. Also the segment
	// count required for merge-time re-combining.
	MinSpillsForCombine int

	// SortCmp is the total order records are sorted by; nil means
	// natural string order. CombineGroupCmp and ReduceGroupCmp
	// independently coarsen grouping for the combiner and the
	// reducer; nil means group by sort-equality.
	SortCmp         mr.CmpF
	CombineGroupCmp mr.CmpF
	ReduceGroupCmp  mr.CmpF

	// Combine is optional pre-aggregation; nil disables it.
	Combine mr.ReduceT
	Reduce  mr.ReduceT

	// Out receives the task's final output records.
	Out mr.EmitT

	// ValidationSample, when non-empty, is a set of representative
	// keys used at task construction to verify that both group
	// comparators are coarser than the sort comparator.
	ValidationSample []string
}

func (cfg *Config) validate() error {
	if cfg.Reduce == nil {
		return fmt.Errorf("%w: nil reduce function", mr.ErrConfig)
	}
	if cfg.Out == nil {
		return fmt.Errorf("%w: nil output collector", mr.ErrConfig)
	}
	if cfg.SpillBytes < 0 || cfg.SpillRecords < 0 {
		return fmt.Errorf("%w: negative spill threshold", mr.ErrConfig)
	}
	if cfg.MinSpillsForCombine < 0 {
		return fmt.Errorf("%w: negative combine spill minimum", mr.ErrConfig)
	}
	return nil
}
