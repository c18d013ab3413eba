package download

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/config"
	"github.com/UnknownOlympus/gazetteer/internal/metrics"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for the downloader.
var (
	ErrBadStatus     = errors.New("download failed with status")
	ErrMissingMember = errors.New("archive does not contain the expected file")
	ErrUnsafePath    = errors.New("archive member escapes the data directory")
)

// Downloader makes sure the GeoNames dump is available on local disk.
type Downloader struct {
	client  HTTPClient       // HTTP client for making requests
	source  config.SourceConfig
	log     *slog.Logger     // Logger for logging operations
	metrics *metrics.Metrics // may be nil
}

// NewDownloader creates a Downloader using a plain http.Client.
// A zero HTTPTimeout leaves the client without a timeout.
func NewDownloader(source config.SourceConfig, log *slog.Logger, m *metrics.Metrics) *Downloader {
	return NewDownloaderWithClient(source, &http.Client{Timeout: source.HTTPTimeout}, log, m)
}

// NewDownloaderWithClient creates a Downloader with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewDownloaderWithClient(
	source config.SourceConfig,
	client HTTPClient,
	log *slog.Logger,
	m *metrics.Metrics,
) *Downloader {
	source.DataDir = filepath.Clean(source.DataDir) // "" means the working directory
	return &Downloader{client: client, source: source, log: log, metrics: m}
}

// Path returns the location of the extracted tab-separated file.
func (d *Downloader) Path() string {
	return filepath.Join(d.source.DataDir, d.source.File)
}

// Ensure returns the path of the extracted dump, downloading and extracting the
// archive first when the file is not on disk yet. An existing file is trusted as is.
func (d *Downloader) Ensure(ctx context.Context) (string, error) {
	path := d.Path()
	if _, err := os.Stat(path); err == nil {
		d.log.InfoContext(ctx, "GeoNames dump already downloaded", "path", path)
		return path, nil
	}

	d.log.InfoContext(ctx, "Downloading GeoNames archive", "url", d.source.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.source.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read archive body: %w", err)
	}
	if d.metrics != nil {
		d.metrics.DownloadedBytes.Add(float64(len(body)))
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	if err = os.MkdirAll(d.source.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	names := make([]string, 0, len(archive.File))
	for _, member := range archive.File {
		if err = d.extract(member); err != nil {
			return "", err
		}
		names = append(names, member.Name)
	}
	d.log.InfoContext(ctx, "Extracted archive", "members", names)

	if _, err = os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingMember, d.source.File)
	}

	return path, nil
}

// extract writes one archive member below the data directory. Files are written
// to a temporary name first so an interrupted extraction never leaves a file
// that a later run would accept.
func (d *Downloader) extract(member *zip.File) error {
	target := filepath.Join(d.source.DataDir, member.Name)
	rel, err := filepath.Rel(filepath.Clean(d.source.DataDir), target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("%w: %s", ErrUnsafePath, member.Name)
	}

	if member.FileInfo().IsDir() {
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", member.Name, err)
		}
		return nil
	}
	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", member.Name, err)
	}

	src, err := member.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive member %s: %w", member.Name, err)
	}
	defer src.Close()

	partial := target + ".part"
	out, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", partial, err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(partial)
		}
	}()

	if _, err = io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", member.Name, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", partial, err)
	}
	if err = os.Rename(partial, target); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", member.Name, err)
	}
	success = true
	return nil
}
