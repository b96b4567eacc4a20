// Package progress renders a terminal progress bar for the embedding pass.
package progress

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Bar implements orchestrator.Progress. A disabled bar does nothing.
type Bar struct {
	container *mpb.Progress
	bar       *mpb.Bar

	mu   sync.Mutex
	last time.Time
	done bool
}

// NewBar creates a bar counting to total
func NewBar(config Config, total int, description string) *Bar {
	if !config.Enabled || total <= 0 {
		return &Bar{}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	bar := container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
			decor.OnComplete(
				decor.EwmaSpeed(0, "%.1f verses/s", 30, decor.WCSyncSpace), "",
			),
		),
	)

	return &Bar{
		container: container,
		bar:       bar,
		last:      time.Now(),
	}
}

func (b *Bar) Increment() {
	if b.bar == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.bar.EwmaIncrement(now.Sub(b.last))
	b.last = now
}

// Current returns the number of increments so far
func (b *Bar) Current() int64 {
	if b.bar == nil {
		return 0
	}
	return b.bar.Current()
}

// Finish stops the bar, aborting it when the run ended early, and waits for
// the final render
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}
	b.done = true
	b.mu.Unlock()

	b.bar.Abort(false)
	b.container.Wait()
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}
