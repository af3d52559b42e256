package exchange_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tazee/ModoClipboard/exchange"
	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/extract"
	"github.com/tazee/ModoClipboard/exchange/host"
	"github.com/tazee/ModoClipboard/exchange/hostmem"
	"github.com/tazee/ModoClipboard/exchange/math"
	"github.com/tazee/ModoClipboard/exchange/transport"
	"github.com/tazee/ModoClipboard/testbed"
)

func newController(t *testing.T) *exchange.Controller {
	t.Helper()
	path := filepath.Join(t.TempDir(), transport.DefaultFileName)
	return exchange.NewWithTransport(transport.NewTempFile(path))
}

// brokenTransport fails every call; used to prove a failed operation
// mutates nothing.
type brokenTransport struct{}

func (brokenTransport) Write(string) error { return core.ErrTransport }

func (brokenTransport) Read() (string, error) { return "", core.ErrTransport }

func TestCopyPasteRoundTrip(t *testing.T) {
	c := newController(t)
	source := testbed.NewDemoMesh()

	require.NoError(t, c.Copy(source, extract.WholeMesh))

	target := hostmem.NewMesh("Target")
	require.NoError(t, c.Paste(target))

	require.Equal(t, source.VertexCount(), target.VertexCount())
	// The keyhole hexagon crosses as four triangles, everything else 1:1.
	require.Len(t, target.Polygons(), len(source.Polygons())+3)

	// Vertices are renumbered in loop order during extraction, so compare
	// positions as a set. The axis swap negates components, which keeps
	// the round trip bit-exact.
	var want, got []math.Vec3
	for i := 0; i < source.VertexCount(); i++ {
		want = append(want, source.VertexPosition(host.VertexHandle(i)))
		got = append(got, target.VertexPosition(host.VertexHandle(i)))
	}
	assert.ElementsMatch(t, want, got)

	assert.InDelta(t, 3.0/8.0, target.WeightSamples("Soft")[3], 1e-12)
	assert.InDelta(t, 0.9, target.CreaseWeights()[[2]host.VertexHandle{2, 3}], 1e-12)
	assert.True(t, target.IsSeam(0, 1))

	set, ok := target.SelectionSetByName("TopLoop")
	require.True(t, ok)
	assert.ElementsMatch(t, []host.VertexHandle{2, 3, 6, 7}, set.Vertices)
}

func TestCopyEmptySelection(t *testing.T) {
	c := newController(t)
	mesh := hostmem.NewMesh("Empty")

	err := c.Copy(mesh, extract.SelectedPolygons)
	require.ErrorIs(t, err, core.ErrExtraction)
	assert.Contains(t, err.Error(), "nothing to copy")
	assert.Equal(t, exchange.StageIdle, c.Stage())
}

func TestCutDeletesExactlyTheSources(t *testing.T) {
	c := newController(t)
	mesh := testbed.NewDemoMesh()
	before := len(mesh.Polygons())
	selected := len(mesh.SelectedPolygons())
	verts := mesh.VertexCount()

	require.NoError(t, c.Cut(mesh, extract.SelectedPolygons))

	assert.Len(t, mesh.Polygons(), before-selected)
	assert.Empty(t, mesh.SelectedPolygons())
	// Cut removes polygons, not the vertices they referenced.
	assert.Equal(t, verts, mesh.VertexCount())
}

func TestCutOnTransportFailureMutatesNothing(t *testing.T) {
	c := exchange.NewWithTransport(brokenTransport{})
	mesh := testbed.NewDemoMesh()
	before := len(mesh.Polygons())

	err := c.Cut(mesh, extract.SelectedPolygons)
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Len(t, mesh.Polygons(), before)
	assert.Equal(t, exchange.StageIdle, c.Stage())
}

func TestPasteOnCorruptPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), transport.DefaultFileName)
	tr := transport.NewTempFile(path)
	require.NoError(t, tr.Write("not json at all"))

	c := exchange.NewWithTransport(tr)
	target := testbed.NewDemoMesh()
	before := len(target.Polygons())

	require.Error(t, c.Paste(target))
	assert.Len(t, target.Polygons(), before)
}

func TestPasteAppends(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.Copy(testbed.NewDemoMesh(), extract.WholeMesh))

	target := testbed.NewDemoMesh()
	before := len(target.Polygons())
	beforeVerts := target.VertexCount()

	require.NoError(t, c.Paste(target))
	assert.Len(t, target.Polygons(), before+before+3)
	assert.Equal(t, 2*beforeVerts, target.VertexCount())
}

func TestNewMeshFromClipboardReplacesActive(t *testing.T) {
	c := newController(t)
	source := testbed.NewDemoMesh()
	require.NoError(t, c.Copy(source, extract.WholeMesh))

	scene := testbed.NewDemoScene()
	active := scene.ActiveMesh().(*hostmem.Mesh)
	require.NoError(t, c.NewMeshFromClipboard(scene))

	assert.Same(t, host.Mesh(active), scene.ActiveMesh())
	assert.Equal(t, source.VertexCount(), active.VertexCount())
	assert.Len(t, active.Polygons(), len(source.Polygons())+3)
}

func TestNewMeshFromClipboardCreatesWhenSceneEmpty(t *testing.T) {
	c := newController(t)
	source := testbed.NewDemoMesh()
	require.NoError(t, c.Copy(source, extract.WholeMesh))

	scene := hostmem.NewScene()
	require.NoError(t, c.NewMeshFromClipboard(scene))

	created := scene.ActiveMesh()
	require.NotNil(t, created)
	assert.Equal(t, source.Name(), created.Name())
}

func TestPasteErrorsWhenClipboardNeverWritten(t *testing.T) {
	c := newController(t)
	err := c.Paste(hostmem.NewMesh("Target"))
	assert.ErrorIs(t, err, core.ErrTransport)
}
