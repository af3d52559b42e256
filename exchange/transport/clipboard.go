package transport

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/tazee/ModoClipboard/exchange/core"
)

// Clipboard is the OS text clipboard transport. Nothing persists beyond
// what the platform clipboard holds.
type Clipboard struct{}

func NewClipboard() *Clipboard { return &Clipboard{} }

func (c *Clipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: writing clipboard: %v", core.ErrTransport, err)
	}
	return nil
}

func (c *Clipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: reading clipboard: %v", core.ErrTransport, err)
	}
	return text, nil
}
