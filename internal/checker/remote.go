package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"fut/pkg/logging"
)

// newHTTPClient returns a client making the given number of attempts with a fixed delay between them.
func newHTTPClient(attempts int, delay, timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = max(attempts-1, 0)
	c.RetryWaitMin = delay
	c.RetryWaitMax = delay
	c.Backoff = func(wait, _ time.Duration, _ int, _ *http.Response) time.Duration {
		return wait
	}
	if timeout > 0 {
		c.HTTPClient.Timeout = timeout
	}
	c.Logger = logging.ForSubsystem("Checker")
	return c
}

type release struct {
	TagName string `json:"tag_name"`
}

// LatestVersion queries the release endpoint for the newest tag.
func (m *Manager) LatestVersion(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, m.opts.ReleaseURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query latest validator release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("latest validator release query returned %s", resp.Status)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", fmt.Errorf("failed to decode release response: %w", err)
	}
	if rel.TagName == "" {
		return "", fmt.Errorf("release response has no tag_name")
	}
	return rel.TagName, nil
}

// download streams the validator jar to dest. A partial file is removed on failure.
func (m *Manager) download(ctx context.Context, dest string) (err error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, m.opts.DownloadURL, nil)
	if err != nil {
		return err
	}

	if m.opts.Observer != nil {
		m.opts.Observer.DownloadStarted(m.opts.DownloadURL)
		defer func() { m.opts.Observer.DownloadFinished(err) }()
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download validator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("validator download returned %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	logging.Debug("Checker", "Downloaded %d bytes to %s", n, dest)
	return nil
}
