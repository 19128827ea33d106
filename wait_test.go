package ds4

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWaitForDevice_Present tests that an existing path returns on the
// first attempt without burning the interval.
func TestWaitForDevice_Present(t *testing.T) {
	path := filepath.Join(t.TempDir(), "js0")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	ok := waitForDevice(context.Background(), path, 1, 10*time.Second)
	if !ok {
		t.Fatal("expected success for existing path")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected immediate return, took %v", elapsed)
	}
}

// TestWaitForDevice_AppearsLater tests that a path created mid-wait is
// picked up by a later attempt.
func TestWaitForDevice_AppearsLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "js0")

	go func() {
		time.Sleep(20 * time.Millisecond)
		os.WriteFile(path, nil, 0o644)
	}()

	if !waitForDevice(context.Background(), path, 10, 50*time.Millisecond) {
		t.Fatal("expected success once the path appeared")
	}
}

// TestWaitForDevice_LastAttempt tests that the final attempt still checks
// the path: three sleeps put the fourth stat safely after the file lands.
func TestWaitForDevice_LastAttempt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "js0")

	go func() {
		time.Sleep(140 * time.Millisecond)
		os.WriteFile(path, nil, 0o644)
	}()

	if !waitForDevice(context.Background(), path, 4, 60*time.Millisecond) {
		t.Fatal("expected the last attempt to find the path")
	}
}

// TestWaitForDevice_Timeout tests failure after the attempts run out.
func TestWaitForDevice_Timeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "js0")
	if waitForDevice(context.Background(), path, 3, 5*time.Millisecond) {
		t.Fatal("expected failure for a path that never appears")
	}
}

// TestWaitForDevice_ContextCancel tests that cancellation cuts the wait
// short instead of riding out the attempt budget.
func TestWaitForDevice_ContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "js0")
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	if waitForDevice(ctx, path, 1000, 50*time.Millisecond) {
		t.Fatal("expected failure on cancellation")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("expected prompt return on cancellation, took %v", elapsed)
	}
}
