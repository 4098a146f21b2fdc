package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrFileExists is returned by writeIfAbsent when the target already exists.
var ErrFileExists = errors.New("file already exists")

// writeIfAbsent creates dir/name with content. Existing files are never
// overwritten.
func writeIfAbsent(dir, name, content string) (string, error) {
	if dir == "" {
		return "", errors.New("template directory is required")
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid template file name %q", name)
	}

	fullPath := filepath.Join(dir, name)

	// #nosec G304 -- fullPath is a fixed file name under the template directory.
	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrFileExists, fullPath)
		}
		return "", fmt.Errorf("write template file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.WriteString(content); err != nil {
		return "", fmt.Errorf("write template file: %w", err)
	}
	return fullPath, nil
}
