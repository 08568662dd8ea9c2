package fsutil

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/thavlik/foldy-prep/logging"
)

// EnsureDir creates path and any missing parents if it does not
// already exist. Calling it on an existing directory does nothing.
func EnsureDir(fs afero.Fs, log logging.Logger, path string) error {
	info, err := fs.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%q exists and is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat: %w", err)
	}
	if err := fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	logging.OrNop(log).Debug("Created directory", zap.String("path", path))
	return nil
}

// ListFiles returns every regular file under path.
func ListFiles(fs afero.Fs, path string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, path,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			files = append(files, path)
			return nil
		})
	return files, err
}
