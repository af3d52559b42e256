/*
Package exchange orchestrates the clipboard operations: Copy, Cut, Paste
and New Mesh from Clipboard. Each operation runs synchronously to
completion inside the host's command; there is no internal parallelism and
no state carried between operations beyond the transport payload itself.
*/
package exchange

import (
	"fmt"

	"github.com/tazee/ModoClipboard/exchange/config"
	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/extract"
	"github.com/tazee/ModoClipboard/exchange/host"
	"github.com/tazee/ModoClipboard/exchange/math"
	"github.com/tazee/ModoClipboard/exchange/merge"
	"github.com/tazee/ModoClipboard/exchange/snapshot"
	"github.com/tazee/ModoClipboard/exchange/transport"
)

// SourceApp is the application tag written into snapshot metadata.
const SourceApp = "Modo"

// Stage tracks where inside an operation the controller currently is.
type Stage uint8

const (
	// Controller is waiting for the next operation
	StageIdle Stage = iota
	// Reading the host selection into a snapshot
	StageExtracting
	// Serializing or parsing the payload
	StageCodec
	// Moving the payload through the transport
	StageTransporting
	// Applying a decoded snapshot onto the target
	StageMerging
)

// Controller binds a transport to the engine components and exposes the
// four operations the host commands call.
type Controller struct {
	transport  transport.Transport
	convention math.Convention
	stage      Stage
}

// New builds a controller from persisted settings; the transport variant is
// decided here and nowhere else.
func New(cfg *config.Settings) (*Controller, error) {
	t, err := transport.New(cfg)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return NewWithTransport(t), nil
}

// NewWithTransport builds a controller around an explicit transport. The
// host side of this build runs right-handed Y-up.
func NewWithTransport(t transport.Transport) *Controller {
	return &Controller{
		transport:  t,
		convention: math.ConventionRHYup,
		stage:      StageIdle,
	}
}

// Stage returns the controller's current stage.
func (c *Controller) Stage() Stage {
	return c.stage
}

/**
 * @brief Copy captures the mesh selection into a snapshot and hands it to
 * the transport. The host mesh is never mutated; a transport failure leaves
 * the previous payload in place.
 */
func (c *Controller) Copy(mesh host.MeshReader, mode extract.Mode) error {
	_, err := c.export(mesh, mode)
	return err
}

/**
 * @brief Cut is Copy followed by deleting exactly the polygons the snapshot
 * came from. The delete happens only after the payload is safely written,
 * so a failed cut mutates nothing.
 */
func (c *Controller) Cut(mesh host.Mesh, mode extract.Mode) error {
	ex, err := c.export(mesh, mode)
	if err != nil {
		return err
	}
	mesh.DeletePolygons(ex.SourcePolygons)
	core.LogInfo("cut removed %d polygons from %q", len(ex.SourcePolygons), mesh.Name())
	return nil
}

/**
 * @brief Paste decodes the current payload and appends its content to the
 * target mesh. Decode failures abort before any mutation; paste never welds
 * incoming geometry onto existing geometry.
 */
func (c *Controller) Paste(target host.Mesh) error {
	ms, err := c.load()
	if err != nil {
		return err
	}
	return c.apply(target, ms, false)
}

/**
 * @brief NewMeshFromClipboard replaces the active mesh item's content with
 * the payload, or creates a fresh item when the scene has none.
 */
func (c *Controller) NewMeshFromClipboard(scene host.Scene) error {
	ms, err := c.load()
	if err != nil {
		return err
	}
	target := scene.ActiveMesh()
	if target == nil {
		name := ms.Name
		if name == "" {
			name = "Mesh"
		}
		target = scene.CreateMesh(name)
	}
	return c.apply(target, ms, true)
}

func (c *Controller) export(mesh host.MeshReader, mode extract.Mode) (*extract.Extraction, error) {
	defer func() { c.stage = StageIdle }()

	c.stage = StageExtracting
	ex := extract.Extract(mesh, mode, c.convention, SourceApp)
	if len(ex.Snapshot.Polygons) == 0 {
		err := fmt.Errorf("%w: nothing to copy, no eligible polygons in the %s", core.ErrExtraction, modeName(mode))
		core.LogWarn(err.Error())
		return nil, err
	}

	c.stage = StageCodec
	text, err := snapshot.Encode(ex.Snapshot)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	c.stage = StageTransporting
	if err := c.transport.Write(text); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	core.LogInfo("copied %d polygons, %d vertices from %q", len(ex.Snapshot.Polygons), len(ex.Snapshot.Vertices), mesh.Name())
	return ex, nil
}

func (c *Controller) load() (*snapshot.MeshSnapshot, error) {
	defer func() { c.stage = StageIdle }()

	c.stage = StageTransporting
	text, err := c.transport.Read()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	c.stage = StageCodec
	ms, err := snapshot.Decode(text)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return ms, nil
}

func (c *Controller) apply(target host.Mesh, ms *snapshot.MeshSnapshot, replace bool) error {
	defer func() { c.stage = StageIdle }()

	c.stage = StageMerging
	err := merge.Apply(target, ms, merge.Options{
		TargetConvention: c.convention,
		ReplaceContents:  replace,
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("pasted %d polygons, %d vertices into %q", len(ms.Polygons), len(ms.Vertices), target.Name())
	return nil
}

func modeName(mode extract.Mode) string {
	if mode == extract.WholeMesh {
		return "mesh"
	}
	return "selection"
}
