package attack

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/cpuid/v2"
)

const progressBarWidth = 50

// formatProgressBar renders a fixed-width bar showing percent of the work
// space served and the running found-count, the same layout the original
// CLI prints each tick: a run of '*' for the completed fraction, '.' for
// the rest.
func formatProgressBar(pct float64, found uint64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct * progressBarWidth / 100)
	bar := make([]byte, progressBarWidth)
	for i := range bar {
		if i < filled {
			bar[i] = '*'
		} else {
			bar[i] = '.'
		}
	}
	return fmt.Sprintf("[%s] %5.1f%%  %d found", bar, pct, found)
}

// CPUBanner returns a one-line description of the host CPU, printed at
// startup so a run's log can be matched against the machine it came from.
func CPUBanner() string {
	return fmt.Sprintf("%s (%d physical cores, %d threads)",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
}

// ReportProgress writes a progress line to w every interval until done is
// closed, using dispatcher's remaining work count and sink's found count.
// totalWork is the size of the 16-bit work space, or the number of pairs
// times that size for the 6/7/8-round attacks.
func ReportProgress(w io.Writer, dispatcher *Dispatcher, sink *Sink, totalWork uint64, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			remaining := uint64(dispatcher.Remaining())
			var pct float64
			if totalWork > 0 {
				var completed uint64
				if remaining < totalWork {
					completed = totalWork - remaining
				}
				pct = float64(completed) * 100 / float64(totalWork)
			}
			fmt.Fprintln(w, formatProgressBar(pct, sink.Found()))
		}
	}
}
