// Package progress wraps the terminal progress bar used for byte transfers.
package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bytes returns a byte-counting progress bar writing to w. A size of -1
// renders a spinner instead of a percentage (Content-Length unknown).
func Bytes(w io.Writer, size int64, description string) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}
