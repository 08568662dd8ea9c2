// Package rcsb downloads structure files from the RCSB Protein Data Bank.
package rcsb

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/thavlik/foldy-prep/logging"
)

// DefaultBaseURL is the RCSB file download endpoint.
const DefaultBaseURL = "https://files.rcsb.org/download"

// ErrIncomplete is returned when a downloaded file is missing atoms,
// residues or heteroatoms.
var ErrIncomplete = errors.New("structure file contains missing values")

// DownloadError is returned for any non-200 response.
type DownloadError struct {
	ID         string
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download PDB file with ID %s (status %d)", e.ID, e.StatusCode)
}

var incompleteMarkers = []string{
	"missing heteroatom",
	"missing residues",
	"missing atom",
}

// IsComplete reports whether text has none of the markers RCSB
// writes into REMARK records for incomplete entries.
func IsComplete(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range incompleteMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

// Downloader fetches structure files and stores complete ones.
type Downloader struct {
	BaseURL string
	Client  *http.Client
	Fs      afero.Fs
	Log     logging.Logger
}

// NewDownloader returns a Downloader for the public RCSB endpoint
// writing to the OS filesystem. The client has no timeout.
func NewDownloader(log logging.Logger) *Downloader {
	return &Downloader{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{},
		Fs:      afero.NewOsFs(),
		Log:     log,
	}
}

// URL returns the download URL for id.
func (d *Downloader) URL(id string) string {
	base := d.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + id
}

// Download fetches id and writes it to dir/id. Nothing is written
// unless the response is 200 and the content is complete.
func (d *Downloader) Download(ctx context.Context, dir, id string) error {
	log := logging.OrNop(d.Log)
	url := d.URL(id)
	path := filepath.Join(dir, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Error("Failed to download PDB file", zap.String("id", id), zap.String("url", url), zap.Error(err))
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Error("Failed to download PDB file",
			zap.String("id", id),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return &DownloadError{ID: id, URL: url, StatusCode: resp.StatusCode}
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if !IsComplete(string(body)) {
		log.Error("PDB file downloaded successfully but contains missing values", zap.String("id", id))
		return fmt.Errorf("%s: %w", id, ErrIncomplete)
	}
	if err := d.persist(dir, path, body); err != nil {
		return err
	}
	log.Info("PDB file downloaded successfully",
		zap.String("id", id),
		zap.String("url", url),
		zap.String("path", path))
	return nil
}

// persist writes to a temp file in dir and renames it into place so
// a failed write never leaves a partial file at path.
func (d *Downloader) persist(dir, path string, body []byte) error {
	fs := d.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	f, err := afero.TempFile(fs, dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(body); err != nil {
		f.Close()
		fs.Remove(tmp)
		return fmt.Errorf("write: %w", err)
	}
	if err := f.Close(); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("close: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
