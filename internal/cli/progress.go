package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

type verifyProgressReporter struct {
	mu      sync.Mutex
	enabled bool
	label   string
	total   int
	count   int
	start   time.Time
	spinner int
	lastLen int
}

func newVerifyProgressReporter(label string, total int, asJSON bool) *verifyProgressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON
	return &verifyProgressReporter{
		enabled: enabled,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

// Done counts one finished file. Safe for concurrent use.
func (r *verifyProgressReporter) Done(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}

	status := fmt.Sprintf("%s %s %d/%d %s", frame, r.label, r.count, r.total, file)
	r.printStatus(status)
}

func (r *verifyProgressReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	status := fmt.Sprintf("%s complete (%d files in %s)", r.label, r.count, elapsed)
	r.printStatus(status)
	fmt.Fprintln(os.Stderr)
}

func (r *verifyProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(os.Stderr, "\r%s", status)
}
