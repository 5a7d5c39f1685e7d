// Package geometry maps between image pixel space and the container
// space the frontend renders into, and resolves pointer hit-testing.
package geometry

import (
	"math"

	"github.com/meshsite/planner/pkg/core"
)

// Transform is the centered contain-fit mapping from image pixels to
// container coordinates. It is cheap to build and recomputed for every
// event and render; callers must not cache it across a container resize.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	ImageW  float64
	ImageH  float64
}

// Contain computes the uniform contain-fit transform for an image of
// the given natural size inside the given container. Non-positive
// dimensions yield a zero-scale transform that maps nothing inside.
func Contain(containerW, containerH, imageW, imageH float64) Transform {
	if containerW <= 0 || containerH <= 0 || imageW <= 0 || imageH <= 0 {
		return Transform{ImageW: imageW, ImageH: imageH}
	}
	scale := math.Min(containerW/imageW, containerH/imageH)
	return Transform{
		Scale:   scale,
		OffsetX: (containerW - imageW*scale) / 2,
		OffsetY: (containerH - imageH*scale) / 2,
		ImageW:  imageW,
		ImageH:  imageH,
	}
}

// ImageToScreen maps an image pixel position to container coordinates.
func (t Transform) ImageToScreen(p core.Position) core.Position {
	return core.Position{
		X: t.OffsetX + p.X*t.Scale,
		Y: t.OffsetY + p.Y*t.Scale,
	}
}

// ScreenToImage inverts the transform for a container position. The
// returned position is always the inverse mapping (drags use it even
// when the pointer leaves the drawn rectangle); inside is false when
// the point falls outside the drawn image rectangle or the transform
// is degenerate.
func (t Transform) ScreenToImage(p core.Position) (pos core.Position, inside bool) {
	if t.Scale <= 0 {
		return core.Position{}, false
	}
	rx := p.X - t.OffsetX
	ry := p.Y - t.OffsetY
	pos = core.Position{X: rx / t.Scale, Y: ry / t.Scale}
	inside = rx >= 0 && ry >= 0 && rx <= t.ImageW*t.Scale && ry <= t.ImageH*t.Scale
	return pos, inside
}

// ClampToImage clamps an image position into the image bounds per axis.
func (t Transform) ClampToImage(p core.Position) core.Position {
	return core.Position{
		X: math.Min(math.Max(p.X, 0), t.ImageW),
		Y: math.Min(math.Max(p.Y, 0), t.ImageH),
	}
}
