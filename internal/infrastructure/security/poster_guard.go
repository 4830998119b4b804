package security

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

const defaultProbeTimeout = 5 * time.Second

var allowedSchemes = []string{"http", "https"}

// PosterGuard checks poster URLs before they are stored. With probing enabled
// the URL is also requested through a safeurl client, which refuses private,
// loopback and link-local targets after DNS resolution.
type PosterGuard struct {
	client *http.Client
}

// NewPosterGuard returns a guard; probe enables the network check.
func NewPosterGuard(probe bool, timeout time.Duration) *PosterGuard {
	g := &PosterGuard{}
	if !probe {
		return g
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()
	g.client = safeurl.Client(cfg).Client
	return g
}

func (g *PosterGuard) ValidatePoster(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL")
	}
	if !isAllowedScheme(u.Scheme) {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Hostname() == "" {
		return errors.New("host is required")
	}
	if g.client == nil {
		return nil
	}
	return g.probe(ctx, u.String())
}

func (g *PosterGuard) probe(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return fmt.Errorf("build probe: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unreachable: status %d", resp.StatusCode)
	}
	return nil
}

func isAllowedScheme(scheme string) bool {
	for _, allowed := range allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}
