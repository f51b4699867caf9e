package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func quietUI(t *testing.T) {
	t.Helper()
	old := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = old })
}

func TestSpinnerBasic(t *testing.T) {
	quietUI(t)
	s := newSpinner("Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Spinner should be stopped, not cancelled
	// (Cancelled returns true only if Stop was called due to context cancellation)
	_ = s.Cancelled() // Verify method is callable; value not asserted as Stop() doesn't set cancelled
}

func TestSpinnerWithContext(t *testing.T) {
	quietUI(t)
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.Start()

	// Cancel the context
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	quietUI(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.Start()

	// Wait for timeout
	time.Sleep(100 * time.Millisecond)

	// Spinner should be cancelled due to timeout
	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	quietUI(t)
	s := newSpinner("Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	quietUI(t)
	s := newSpinner("Testing success...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}

func TestSpinnerStopWithError(t *testing.T) {
	quietUI(t)
	s := newSpinner("Testing error...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Failed!")
}

func TestNewSpinnerWithContextNilParent(t *testing.T) {
	quietUI(t)
	s := newSpinnerWithContext(context.Background(), "Test")
	s.Start()
	s.Stop()
}

type lockedBuffer struct {
	mu  chan struct{}
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu <- struct{}{}
	defer func() { <-b.mu }()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu <- struct{}{}
	defer func() { <-b.mu }()
	return b.buf.String()
}

func TestSpinnerSetMessage(t *testing.T) {
	out := &lockedBuffer{mu: make(chan struct{}, 1)}
	old := uiOut
	uiOut = out
	defer func() { uiOut = old }()

	s := newSpinner("Bundling 3 edges")
	s.Start()
	s.SetMessage("Cycle 2/6")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Cycle 2/6") {
		t.Errorf("spinner never drew the updated message: %q", out.String())
	}
}

func TestSpinnerKeepsWriterAfterOutputSwap(t *testing.T) {
	out := &lockedBuffer{mu: make(chan struct{}, 1)}
	old := uiOut
	uiOut = out
	defer func() { uiOut = old }()

	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Cycle 1/6")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	// Status output moves elsewhere while the spinner is still winding down.
	uiOut = io.Discard
	cancel()
	s.Stop()

	if !strings.Contains(out.String(), "Cycle 1/6") {
		t.Errorf("spinner did not draw to its original writer: %q", out.String())
	}
}
