package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var ErrSourceUnavailable = errors.New("data file unavailable")

// maxFileSize caps how much of a data file is read.
const maxFileSize = 32 << 20

// SourceRepository reads raw data files either from a directory or over
// HTTP, depending on the locator.
type SourceRepository struct {
	fs     afero.Fs
	client *http.Client
}

// NewSourceRepository creates a SourceRepository. Relative locators are
// resolved inside fs; http and https locators are fetched with client.
func NewSourceRepository(fs afero.Fs, client *http.Client) *SourceRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &SourceRepository{fs: fs, client: client}
}

// NewDirSourceRepository creates a SourceRepository rooted at dir on the
// local filesystem.
func NewDirSourceRepository(dir string, client *http.Client) *SourceRepository {
	return NewSourceRepository(afero.NewBasePathFs(afero.NewOsFs(), dir), client)
}

// Fetch returns the raw bytes behind locator.
func (r *SourceRepository) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if isRemote(locator) {
		return r.fetchHTTP(ctx, locator)
	}
	return r.fetchFile(locator)
}

func (r *SourceRepository) fetchFile(locator string) ([]byte, error) {
	f, err := r.fs.Open(path.Clean("/" + locator))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, locator, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, locator, err)
	}

	return data, nil
}

func (r *SourceRepository) fetchHTTP(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, locator, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrSourceUnavailable, locator, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, locator, err)
	}

	return data, nil
}

func isRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
