package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// PingConfig controls the webhook pinger.
type PingConfig struct {
	Timeout    time.Duration // per-request; 0 means 10s
	RatePerSec int           // outbound pings per second; 0 means 5
}

// HTTPPinger implements schedule.Pinger: a fire-and-forget GET whose
// response is drained and discarded. A non-2xx status is not an error; the
// callers only care that the ping went out.
//
// Pings are rate limited so a tick with many due events cannot hammer a
// shared webhook endpoint.
type HTTPPinger struct {
	client  *http.Client
	limiter *rate.Limiter
}

func NewHTTPPinger(cfg PingConfig) *HTTPPinger {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 5
	}
	return &HTTPPinger{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (p *HTTPPinger) Get(ctx context.Context, url string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ping %s: %w", url, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}
