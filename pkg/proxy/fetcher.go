package proxy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0"

// Fetcher relays remote resources through a disk cache so the browser only
// ever fetches same-origin. Cache entries are keyed by URL hash; an expired
// entry is still served when the refresh download fails.
type Fetcher struct {
	logger      *slog.Logger
	dir         string
	ttl         time.Duration
	httpTimeout time.Duration
	cl          *http.Client
}

func NewFetcher(dir string, ttl time.Duration, logger *slog.Logger) *Fetcher {
	f := &Fetcher{
		logger:      logger,
		dir:         dir,
		ttl:         ttl,
		httpTimeout: time.Second * 10,
	}

	f.cl = &http.Client{
		Timeout: time.Second * 30,
		Transport: &http.Transport{
			ResponseHeaderTimeout: f.httpTimeout,
		},
	}

	return f
}

// Get returns the content type and bytes for url, from cache when fresh.
func (f *Fetcher) Get(ctx context.Context, url string) (string, []byte, error) {
	fpath, fname := f.cachePath(url)

	logger := f.logger.With("url", url)

	st, err := os.Stat(path.Join(fpath, fname))

	if err != nil {
		logger.Debug("miss")
		return f.download(ctx, url, fpath, fname)
	}

	if f.ttl == 0 || st.ModTime().Add(f.ttl).After(time.Now()) {
		logger.Debug("hit")
		return f.readCached(fpath, fname)
	}

	logger.Debug("expired")
	ct, data, err := f.download(ctx, url, fpath, fname)

	// serve stale rather than nothing
	if err != nil {
		return f.readCached(fpath, fname)
	}

	return ct, data, nil
}

func (f *Fetcher) cachePath(url string) (string, string) {
	sum := sha256.Sum256([]byte(url))
	key := hex.EncodeToString(sum[:])

	return path.Join(f.dir, "remote", key[:2]), key
}

func (f *Fetcher) readCached(fpath, fname string) (string, []byte, error) {
	data, err := os.ReadFile(path.Join(fpath, fname))
	if err != nil {
		return "", nil, err
	}

	ct, err := os.ReadFile(path.Join(fpath, fname+".ct"))
	if err != nil {
		return "application/octet-stream", data, nil
	}

	return string(ct), data, nil
}

func (f *Fetcher) download(ctx context.Context, url string, fpath, fname string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)

	if err != nil {
		return "", nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.cl.Do(req)

	if err != nil {
		return "", nil, err
	}

	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return "", nil, fmt.Errorf("%s error %s", url, resp.Status)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return "", nil, err
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}

	if err := os.MkdirAll(fpath, 0755); err != nil {
		return "", nil, err
	}

	if err := os.WriteFile(path.Join(fpath, fname), data, 0644); err != nil {
		return ct, data, err
	}

	if err := os.WriteFile(path.Join(fpath, fname+".ct"), []byte(ct), 0644); err != nil {
		f.logger.Error("cache meta write error", "error", err)
	}

	return ct, data, nil
}
