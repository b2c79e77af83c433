package debug

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
)

func init() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
}

//
// Debug output is controlled by the MRDEBUG environment variable,
// which can be a list of labels (e.g., "SPILL;MERGE").
//

var (
	labelsOnce sync.Once
	labels     map[Tselector]bool
)

func debugLabels() map[Tselector]bool {
	labelsOnce.Do(func() {
		labels = make(map[Tselector]bool)
		s := os.Getenv("MRDEBUG")
		if s == "" {
			return
		}
		for _, l := range strings.Split(s, ";") {
			labels[Tselector(l)] = true
		}
	})
	return labels
}

func WillPrint(label Tselector) bool {
	if label == ALWAYS || label == ERROR {
		return true
	}
	_, ok := debugLabels()[label]
	return ok
}

func DPrintf(label Tselector, format string, v ...interface{}) {
	if WillPrint(label) {
		log.Printf("%v %v", label, fmt.Sprintf(format, v...))
	}
}

func DFatalf(format string, v ...interface{}) {
	// Get info for the caller.
	pc, file, line, ok := runtime.Caller(1)
	fnDetails := runtime.FuncForPC(pc)
	if ok && fnDetails != nil {
		log.Fatalf("FATAL %v %v:%v %v", fnDetails.Name(), file, line, fmt.Sprintf(format, v...))
	} else {
		log.Fatalf("FATAL (missing details) %v", fmt.Sprintf(format, v...))
	}
}
