package debug

type Tselector string

// ALWAYS
const (
	ALWAYS Tselector = "ALWAYS"
	ERROR            = "ERROR"
	NEVER            = "NEVER"
)

// ERR suffix
const (
	ERR Tselector = "_ERR"
)

// Task pipeline
const (
	TASK      Tselector = "TASK"
	TASK_ERR            = TASK + ERR
	SPILL               = "SPILL"
	SPILL_ERR           = SPILL + ERR
	MERGE               = "MERGE"
	MERGE_ERR           = MERGE + ERR
	GROUP               = "GROUP"
	REDUCE              = "REDUCE"
	COMBINE             = "COMBINE"
)

// Tests
const (
	TEST  Tselector = "TEST"
	STAT            = "STAT"
	PERF            = "PERF"
)
