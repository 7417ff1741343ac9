package common

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
)

// Public common errors
var (
	ErrNotYetImplemented = errors.New("not yet implemented")
	ErrNilPointer        = errors.New("nil pointer")
)

// GetDefaultDataDir returns the default data directory
// Windows - C:\Users\%USER%\AppData\Roaming\FXDX
// Linux/Unix or OSX - $HOME/.fxdx
func GetDefaultDataDir(env string) string {
	if env == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "FXDX")
	}

	usr, err := user.Current()
	if err == nil {
		return filepath.Join(usr.HomeDir, ".fxdx")
	}

	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, ".fxdx")
}

// AppendError appends an error to a list of existing errors
// Either argument may be:
// * A vanilla error
// * An error implementing `Unwrap() []error` e.g. fmt.Errorf("%w: %w")
// * nil
// The result will be an error which may be a multiError if multiple errors were non-nil
func AppendError(original, incoming error) error {
	if incoming == nil {
		return original
	}
	if original == nil {
		return incoming
	}
	return errors.Join(original, incoming)
}
