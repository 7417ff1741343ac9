package file

import (
	"errors"
	"os"
	"path/filepath"
)

var errEmptyPath = errors.New("file path is empty")

// Exists returns whether or not a file or path exists
func Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// Write writes selected data to a file, creating parent directories as
// required
func Write(file string, data []byte) error {
	if file == "" {
		return errEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o770); err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o600)
}
