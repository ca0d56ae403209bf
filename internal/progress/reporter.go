package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/ThomasCrouzet/archmap/internal/session"
	"github.com/schollz/progressbar/v3"
)

// Reporter shows the progress of one analysis submission.
type Reporter interface {
	Start(label string)
	Update(s session.State)
	Finish(s session.State)
}

// NewReporter returns a CIReporter when running under CI, otherwise a
// TerminalReporter. Both write to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w, last: -1}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a progress bar.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(label string) {
	r.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Analyzing "+label+"..."),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(s session.State) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(s.Message)
	_ = r.bar.Set(int(s.Progress))
}

func (r *TerminalReporter) Finish(s session.State) {
	if r.bar == nil {
		return
	}
	if s.Phase == session.Succeeded {
		r.bar.Describe(s.Message)
		_ = r.bar.Finish()
		return
	}
	_ = r.bar.Exit()
}

// CIReporter prints one line per whole ten percent, for log output.
type CIReporter struct {
	w    io.Writer
	last int
}

func (r *CIReporter) Start(label string) {
	r.last = -1
	fmt.Fprintf(r.w, "Analyzing %s...\n", label)
}

func (r *CIReporter) Update(s session.State) {
	step := int(s.Progress) / 10
	if step <= r.last {
		return
	}
	r.last = step
	fmt.Fprintf(r.w, "[%3d%%] %s\n", int(s.Progress), s.Message)
}

func (r *CIReporter) Finish(s session.State) {
	switch s.Phase {
	case session.Succeeded:
		fmt.Fprintf(r.w, "[100%%] %s\n", s.Message)
	case session.Failed:
		fmt.Fprintf(r.w, "%s: %s\n", s.Message, s.Err)
	}
}
