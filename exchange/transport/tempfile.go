package transport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tazee/ModoClipboard/exchange/core"
)

// DefaultFileName is the well-known payload file, shared with the partner
// application's plugin. It lives in the OS temp directory and is overwritten
// whole on every copy.
const DefaultFileName = "cpmf_clipboard.json"

// DefaultPath returns the payload path used when the settings carry no
// override.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// TempFile is the file-backed transport: one well-known path, replaced as a
// unit. It is the only persistence between a copy in one application and a
// paste in the other.
type TempFile struct {
	path string
}

func NewTempFile(path string) *TempFile {
	if path == "" {
		path = DefaultPath()
	}
	return &TempFile{path: path}
}

// Path returns the payload file location.
func (t *TempFile) Path() string { return t.path }

// Write replaces the payload atomically: the text goes to a sibling temp
// file first and is renamed over the destination, so a failed write leaves
// any prior payload as it was.
func (t *TempFile) Write(text string) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating payload directory %s: %v", core.ErrTransport, dir, err)
	}

	tmp, err := os.CreateTemp(dir, DefaultFileName+".*")
	if err != nil {
		return fmt.Errorf("%w: staging payload file: %v", core.ErrTransport, err)
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: writing payload: %v", core.ErrTransport, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: closing payload: %v", core.ErrTransport, err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replacing payload at %s: %v", core.ErrTransport, t.path, err)
	}
	return nil
}

func (t *TempFile) Read() (string, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return "", fmt.Errorf("%w: reading payload at %s: %v", core.ErrTransport, t.path, err)
	}
	return string(data), nil
}
