package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
)

var reqTransport = &http.Transport{
	MaxIdleConns:          maxIdleConns,
	IdleConnTimeout:       timeoutInSeconds * time.Second,
	ResponseHeaderTimeout: timeoutInSeconds * time.Second,
}

// Fetch retrieves the five snapshot collections from a remote base URL,
// one GET per collection, concurrently. Expected endpoints:
// {base}/forwarders, {base}/routes, {base}/rate_cards,
// {base}/forwarder_services, {base}/performance_analytics.
func Fetch(ctx context.Context, baseURL string) (*Snapshot, error) {
	if baseURL == "" {
		return nil, errors.New("snapshot URL not specified")
	}
	base := strings.TrimSuffix(baseURL, "/")

	s := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return getJSON(ctx, base+"/forwarders", &s.Forwarders) })
	g.Go(func() error { return getJSON(ctx, base+"/routes", &s.Routes) })
	g.Go(func() error { return getJSON(ctx, base+"/rate_cards", &s.RateCards) })
	g.Go(func() error { return getJSON(ctx, base+"/forwarder_services", &s.Services) })
	g.Go(func() error { return getJSON(ctx, base+"/performance_analytics", &s.Analytics) })

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "error fetching snapshot")
	}

	log.Debugf("fetched snapshot: %d forwarders, %d routes, %d rate cards",
		len(s.Forwarders), len(s.Routes), len(s.RateCards))

	return s, nil
}

// getJSON retrieves the URL content and decodes it into the passed target.
func getJSON[T any](ctx context.Context, url string, target *T) error {
	c := http.Client{
		Timeout:   timeoutInSeconds * time.Second,
		Transport: reqTransport,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "error creating HTTP GET request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return errors.Wrapf(err, "error getting: %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status for %s: %s", url, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrapf(err, "error decoding content from: %s", url)
	}
	return nil
}

// String implements fmt.Stringer for debug logging.
func (s *Snapshot) String() string {
	return fmt.Sprintf("snapshot[forwarders:%d routes:%d rate_cards:%d services:%d analytics:%d]",
		len(s.Forwarders), len(s.Routes), len(s.RateCards), len(s.Services), len(s.Analytics))
}
