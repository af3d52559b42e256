/*
Package transport moves encoded payloads between applications. The engine
only ever sees the Transport interface; which backend is behind it is a
configuration decision.
*/
package transport

import (
	"fmt"

	"github.com/tazee/ModoClipboard/exchange/config"
)

// Transport is the opaque payload channel. Write replaces the whole payload
// or fails without touching it; Read returns whatever whole payload is
// currently held.
type Transport interface {
	Write(text string) error
	Read() (string, error)
}

// New selects a backend from the settings. The caller never needs to know
// which variant it got.
func New(cfg *config.Settings) (Transport, error) {
	switch cfg.TransportMode {
	case config.ModeTempFile:
		return NewTempFile(cfg.TempFilePath), nil
	case config.ModeClipboard:
		return NewClipboard(), nil
	}
	return nil, fmt.Errorf("unknown transport mode %q", cfg.TransportMode)
}
