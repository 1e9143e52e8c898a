package splice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File splices block into the document at path and writes it back in place.
// A missing file is treated as an empty document and created.
func File(path, header, footer, block string) (Result, error) {
	mode := fs.FileMode(0o644)
	var doc string

	info, err := os.Stat(path)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", path, err)
		}
		doc = string(data)
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, fmt.Errorf("creating directory for %s: %w", path, err)
		}
	default:
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	out, result := Splice(doc, header, footer, block)
	if err := os.WriteFile(path, []byte(out), mode); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return result, nil
}
