package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexApps99/stardome/internal/metrics"
)

// minBurst keeps a single message under the limiter's burst size.
const minBurst = 64 << 10

// client manages a single SSE connection's write operations.
type client struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
	ip      string
	limiter *rate.Limiter // nil when unlimited
	logger  *slog.Logger

	messagesSent int64
	bytesSent    int64
}

func newClient(w http.ResponseWriter, ip string, bytesPerSecond int, logger *slog.Logger) *client {
	c := &client{
		w:      w,
		rc:     http.NewResponseController(w),
		ip:     ip,
		logger: logger,
	}
	if bytesPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(bytesPerSecond), max(bytesPerSecond, minBurst))
	}
	return c
}

// throttle blocks until n bytes fit in the stream's bandwidth budget.
func (c *client) throttle(ctx context.Context, n int) error {
	if c.limiter == nil {
		return nil
	}
	if n > c.limiter.Burst() {
		n = c.limiter.Burst()
	}
	if err := c.limiter.WaitN(ctx, n); err != nil {
		if ctx.Err() == nil {
			metrics.IncStreamErrors("bandwidth")
		}
		return fmt.Errorf("bandwidth wait: %w", err)
	}
	return nil
}

// sendJSON marshals v as JSON and sends it as an SSE "data:" message.
// SSE format: "data: {json}\n\n"
func (c *client) sendJSON(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	msg := fmt.Sprintf("data: %s\n\n", data)

	if err := c.throttle(ctx, len(msg)); err != nil {
		return err
	}

	// Extend write deadline before each write to prevent timeout on long-lived connections.
	if err := c.rc.SetWriteDeadline(time.Now().Add(30 * time.Second)); err != nil {
		c.logger.Debug("could not set write deadline", "error", err)
	}

	n, err := fmt.Fprint(c.w, msg)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	c.flusher.Flush()
	c.messagesSent++
	c.bytesSent += int64(n)
	metrics.IncStreamMessages()
	metrics.AddStreamBytes(int64(n))

	return nil
}

// sendKeepalive sends an SSE comment line to keep the connection alive.
// SSE comment format: ":\n\n"
func (c *client) sendKeepalive(ctx context.Context) error {
	if err := c.throttle(ctx, 3); err != nil {
		return err
	}
	if err := c.rc.SetWriteDeadline(time.Now().Add(30 * time.Second)); err != nil {
		c.logger.Debug("could not set write deadline", "error", err)
	}

	n, err := fmt.Fprint(c.w, ":\n\n")
	if err != nil {
		return fmt.Errorf("keepalive write: %w", err)
	}

	c.flusher.Flush()
	c.bytesSent += int64(n)
	metrics.AddStreamBytes(int64(n))

	return nil
}
