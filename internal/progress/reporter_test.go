package progress

import (
	"bytes"
	"testing"

	"github.com/ThomasCrouzet/archmap/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	_, ok := NewReporter(&bytes.Buffer{}).(*CIReporter)
	assert.True(t, ok)
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter(&bytes.Buffer{}).(*TerminalReporter)
	assert.True(t, ok)
}

func TestCIReporterThrottlesUpdates(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}

	r.Start("o/r")
	for _, p := range []float64{3, 7, 12, 15, 19, 31} {
		r.Update(session.State{Phase: session.Submitting, Progress: p, Message: "Analyzing o/r..."})
	}
	r.Finish(session.State{Phase: session.Succeeded, Progress: 100, Message: "Analysis complete!"})

	want := "Analyzing o/r...\n" +
		"[  3%] Analyzing o/r...\n" +
		"[ 12%] Analyzing o/r...\n" +
		"[ 31%] Analyzing o/r...\n" +
		"[100%] Analysis complete!\n"
	assert.Equal(t, want, buf.String())
}

func TestCIReporterFailure(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}

	r.Start("o/r")
	r.Finish(session.State{Phase: session.Failed, Message: "Analysis failed", Err: "rate limited"})

	assert.Contains(t, buf.String(), "Analysis failed: rate limited")
}

func TestTerminalReporterWithoutStart(t *testing.T) {
	r := &TerminalReporter{w: &bytes.Buffer{}}
	assert.NotPanics(t, func() {
		r.Update(session.State{Progress: 10})
		r.Finish(session.State{Phase: session.Succeeded})
	})
}

func TestTerminalReporterLifecycle(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf}

	r.Start("o/r")
	r.Update(session.State{Phase: session.Submitting, Progress: 45, Message: "Analyzing o/r..."})
	r.Finish(session.State{Phase: session.Succeeded, Progress: 100, Message: "Analysis complete!"})

	assert.NotEmpty(t, buf.String())
}
