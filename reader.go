package ds4

import (
	"context"
	"io"
	"os"
)

// run is the read pipeline: one goroutine per controller lifetime and the
// sole writer of state and history. It exits on Stop or the first failed
// read, which covers device unplug, end of stream and a record torn by the
// producer going away.
func (c *Controller) run(ctx context.Context, f *os.File) {
	defer func() {
		c.setConnected(false)
		close(c.updates)
		close(c.done)
	}()

	buf := make([]byte, c.layout.Size())
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if ctx.Err() == nil {
				c.logger.Info("device stream closed", "device", c.device, "reason", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		raw := DecodeRecord(c.layout, c.fields, buf)
		if c.debug {
			c.logger.Debug("record",
				"kind", raw.Kind.String(), "id", raw.ID, "value", raw.Value, "init", raw.Init)
		}

		if ev := c.mapping.Classify(raw); ev != nil {
			c.mu.Lock()
			if label := reduce(&c.state, ev); label != "" {
				c.history = append(c.history, label)
			}
			c.mu.Unlock()
		}

		// One tick per record, recognized or not.
		c.signal()
	}
}
