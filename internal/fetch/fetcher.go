package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Progress receives download progress
type Progress interface {
	// SetTotal is called once the size is known; it is not called when the server omits Content-Length.
	SetTotal(total int64)
	Add(n int)
	Finish()
}

// ProgressFactory creates a Progress for the named download
type ProgressFactory func(name string) Progress

type nopProgress struct{}

func (nopProgress) SetTotal(int64) {}
func (nopProgress) Add(int)        {}
func (nopProgress) Finish()        {}

// NopProgress discards progress updates
func NopProgress(string) Progress { return nopProgress{} }

// Fetcher downloads archives to a local cache path
type Fetcher struct {
	client   *http.Client
	progress ProgressFactory
}

// NewFetcher creates a new Fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, progress ProgressFactory) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if progress == nil {
		progress = NopProgress
	}
	return &Fetcher{client: client, progress: progress}
}

// Fetch downloads url to dest unless dest already exists.
// It reports whether a download took place.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, fmt.Errorf("create download dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	// Write next to dest and rename so an interrupted download never looks cached
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	bar := f.progress(filepath.Base(url))
	if resp.ContentLength > 0 {
		bar.SetTotal(resp.ContentLength)
	}

	_, copyErr := io.Copy(tmp, &progressReader{r: resp.Body, progress: bar})
	bar.Finish()
	closeErr := tmp.Close()
	if copyErr != nil {
		return false, fmt.Errorf("download %s: %w", url, copyErr)
	}
	if closeErr != nil {
		return false, fmt.Errorf("write %s: %w", dest, closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return false, fmt.Errorf("move download into place: %w", err)
	}
	return true, nil
}

type progressReader struct {
	r        io.Reader
	progress Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.progress.Add(n)
	}
	return n, err
}
