// internal/adapters/wallmessage/client.go
package wallmessage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotelex_register/internal/adapters/observability"
)

// Client talks to the WallMessage REST API. One POST per Send, no retries:
// a lost notification is reported to the caller as a warning, not replayed.
type Client struct {
	url     string
	hc      *http.Client
	appKey  string
	authKey string
	rl      *rate.Limiter
}

func New(url, appKey, authKey string, rps int) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("gateway URL is required")
	}
	if appKey == "" || authKey == "" {
		return nil, fmt.Errorf("gateway app key and auth key are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		url:     url,
		hc:      &http.Client{Timeout: 15 * time.Second},
		appKey:  appKey,
		authKey: authKey,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type sendPayload struct {
	AppKey  string `json:"appkey"`
	AuthKey string `json:"authkey"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send delivers message to the given phone number. Any non-2xx status or
// transport failure is an error; the remote body is included when available.
func (c *Client) Send(ctx context.Context, to, message string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(sendPayload{AppKey: c.appKey, AuthKey: c.authKey, To: to, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotelex-register/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("wallmessage", "send", 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("wallmessage: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("wallmessage", "send", resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	// surface a small slice of the remote body for diagnostics
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("wallmessage: status %d: %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("wallmessage: status %d", resp.StatusCode)
}
