// Package interaction owns the pointer state machine: hover, selection,
// and drag over the annotated site image. It converts container-space
// pointer positions through the contain-fit transform and resolves
// targets by hit-testing, mutating the plan state on placement and drag.
package interaction

import (
	"sync"

	"github.com/meshsite/planner/internal/geometry"
	"github.com/meshsite/planner/internal/plan"
	"github.com/meshsite/planner/pkg/core"
)

// DefaultVisualRadiusPx is the rendered marker radius the pick radius
// derives from.
const DefaultVisualRadiusPx = 10

// Controller tracks pointer interaction for one frontend container.
//
// The machine has three states: idle, hovering a target, and dragging a
// target. Dragging implies the same target is hovered and selected;
// selection outlives both hover and drag.
type Controller struct {
	mu    sync.Mutex
	state *plan.State

	visualRadiusPx float64
	containerW     float64
	containerH     float64

	hovered  core.Target
	selected core.Target
	dragging core.Target

	// grabOffset is the image-space vector from the grab point to the
	// target position at press time, so a dragged item never jumps to
	// the cursor.
	grabOffset core.Position
	dragMoved  bool

	// justDragged suppresses exactly one click after a completed drag,
	// so releasing a drag is never misread as a placement click.
	justDragged bool
}

// NewController creates a Controller over the given plan state.
func NewController(state *plan.State, visualRadiusPx float64) *Controller {
	if visualRadiusPx <= 0 {
		visualRadiusPx = DefaultVisualRadiusPx
	}
	return &Controller{state: state, visualRadiusPx: visualRadiusPx}
}

// Resize records the container size. The transform itself is rebuilt
// per event from the current sizes, never cached across resizes.
func (c *Controller) Resize(w, h float64) {
	c.mu.Lock()
	c.containerW = w
	c.containerH = h
	c.mu.Unlock()
}

// Transform returns the current contain-fit transform for the loaded
// image, or a zero transform when no image is loaded.
func (c *Controller) Transform() geometry.Transform {
	c.mu.Lock()
	w, h := c.containerW, c.containerH
	c.mu.Unlock()
	return c.transformFor(w, h)
}

func (c *Controller) transformFor(w, h float64) geometry.Transform {
	img := c.state.Image()
	if img == nil {
		return geometry.Transform{}
	}
	return geometry.Contain(w, h, float64(img.Width), float64(img.Height))
}

// PointerMove advances the machine for a no-button or dragging move.
func (c *Controller) PointerMove(screen core.Position) {
	c.mu.Lock()
	tr := c.transformFor(c.containerW, c.containerH)

	if !c.dragging.IsNone() {
		target := c.dragging
		off := c.grabOffset
		c.dragMoved = true
		c.mu.Unlock()

		pos, _ := tr.ScreenToImage(screen)
		dest := core.Position{X: pos.X - off.X, Y: pos.Y - off.Y}
		// plan clamps into image bounds per axis
		switch target.Kind {
		case core.TargetNode:
			c.state.MoveNode(target.ID, dest)
		case core.TargetWaypoint:
			c.state.MoveWaypoint(target.ID, dest)
		}
		return
	}

	c.hovered = geometry.HitTest(tr, screen, c.state.Nodes(), c.state.Waypoints(), c.visualRadiusPx)
	c.mu.Unlock()
}

// PointerDown begins a drag when the pointer is over a target. The
// pressed target also becomes hovered and selected.
func (c *Controller) PointerDown(screen core.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tr := c.transformFor(c.containerW, c.containerH)
	hit := geometry.HitTest(tr, screen, c.state.Nodes(), c.state.Waypoints(), c.visualRadiusPx)
	if hit.IsNone() {
		return
	}

	pos, _ := tr.ScreenToImage(screen)
	targetPos, ok := c.targetPosition(hit)
	if !ok {
		return
	}

	c.dragging = hit
	c.hovered = hit
	c.selected = hit
	c.grabOffset = core.Position{X: pos.X - targetPos.X, Y: pos.Y - targetPos.Y}
	c.dragMoved = false
}

// PointerUp ends a drag. Selection persists; a drag that moved arms the
// single-shot click suppression.
func (c *Controller) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging.IsNone() {
		return
	}
	if c.dragMoved {
		c.justDragged = true
	}
	c.dragging = core.NoTarget()
	c.grabOffset = core.Position{}
	c.dragMoved = false
}

// PointerLeave clears hover and ends any drag as if released.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging.IsNone() {
		if c.dragMoved {
			c.justDragged = true
		}
		c.dragging = core.NoTarget()
		c.grabOffset = core.Position{}
		c.dragMoved = false
	}
	c.hovered = core.NoTarget()
}

// Click either selects the annotation under the pointer or, on empty
// image space, places a new annotation with the active tool. The first
// click after a completed drag is consumed by the suppression flag and
// does nothing.
func (c *Controller) Click(screen core.Position) {
	c.mu.Lock()

	if c.justDragged {
		c.justDragged = false
		c.mu.Unlock()
		return
	}

	tr := c.transformFor(c.containerW, c.containerH)
	hit := geometry.HitTest(tr, screen, c.state.Nodes(), c.state.Waypoints(), c.visualRadiusPx)
	if !hit.IsNone() {
		c.selected = hit
		c.mu.Unlock()
		return
	}

	pos, inside := tr.ScreenToImage(screen)
	tool := c.state.Settings().ActiveTool
	c.mu.Unlock()
	if !inside {
		// outside the drawn image rectangle: no target, not an error
		return
	}

	if kind, ok := core.WaypointKindForTool(tool); ok {
		c.state.AddWaypoint(pos, kind)
		return
	}
	// node cap overflow is a silent no-op inside AddNode
	c.state.AddNode(pos)
}

// Hovered returns the currently hovered target.
func (c *Controller) Hovered() core.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hovered
}

// Selected returns the currently selected target.
func (c *Controller) Selected() core.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Dragging returns the target currently being dragged.
func (c *Controller) Dragging() core.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// ClearPointerState resets hover, selection, drag, and the click
// suppression flag. Session restore calls this so a restored session
// starts with nothing selected.
func (c *Controller) ClearPointerState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = core.NoTarget()
	c.selected = core.NoTarget()
	c.dragging = core.NoTarget()
	c.grabOffset = core.Position{}
	c.dragMoved = false
	c.justDragged = false
}

func (c *Controller) targetPosition(t core.Target) (core.Position, bool) {
	switch t.Kind {
	case core.TargetNode:
		if n, ok := c.state.NodeByID(t.ID); ok {
			return n.Pos, true
		}
	case core.TargetWaypoint:
		if w, ok := c.state.WaypointByID(t.ID); ok {
			return w.Pos, true
		}
	}
	return core.Position{}, false
}
