package transport_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazee/ModoClipboard/exchange/config"
	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/transport"
)

func TestTempFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), transport.DefaultFileName)
	tr := transport.NewTempFile(path)

	require.NoError(t, tr.Write(`{"schemaVersion":1}`))
	text, err := tr.Read()
	require.NoError(t, err)
	assert.Equal(t, `{"schemaVersion":1}`, text)
}

func TestTempFileWriteReplacesWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), transport.DefaultFileName)
	tr := transport.NewTempFile(path)

	require.NoError(t, tr.Write("first payload, quite long"))
	require.NoError(t, tr.Write("second"))

	text, err := tr.Read()
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	// No staging leftovers next to the payload.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTempFileReadMissing(t *testing.T) {
	tr := transport.NewTempFile(filepath.Join(t.TempDir(), "never-written.json"))
	_, err := tr.Read()
	assert.ErrorIs(t, err, core.ErrTransport)
}

func TestTempFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", transport.DefaultFileName)
	tr := transport.NewTempFile(path)
	require.NoError(t, tr.Write("payload"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestNewTempFileDefaultsPath(t *testing.T) {
	tr := transport.NewTempFile("")
	assert.Equal(t, transport.DefaultPath(), tr.Path())
}

func TestNewPicksBackendFromSettings(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "payload.json")
	tr, err := transport.New(&config.Settings{
		TransportMode: config.ModeTempFile,
		TempFilePath:  custom,
	})
	require.NoError(t, err)

	tf, ok := tr.(*transport.TempFile)
	require.True(t, ok)
	assert.Equal(t, custom, tf.Path())
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := transport.New(&config.Settings{TransportMode: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestWatcherSeesPayloadReplacement(t *testing.T) {
	path := filepath.Join(t.TempDir(), transport.DefaultFileName)
	tr := transport.NewTempFile(path)
	require.NoError(t, tr.Write("before"))

	w, err := transport.NewWatcher(tr)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, tr.Write("after"))

	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event for the payload file")
	}
}
