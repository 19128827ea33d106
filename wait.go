package ds4

import (
	"context"
	"os"
	"time"
)

// waitForDevice polls until path exists, once per interval, at most
// attempts times. Each attempt checks before it sleeps, so a device that is
// already present returns on the first attempt with no delay and one that
// appears during the final interval still counts. Returns false when the
// attempts run out or ctx is done first.
func waitForDevice(ctx context.Context, path string, attempts int, interval time.Duration) bool {
	for i := 0; i < attempts; i++ {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(interval):
		}
	}
	return false
}
