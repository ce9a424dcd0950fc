package spatial

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/jengzang/grenades-backend-go/internal/models"
)

// mapBounds is the radar image in percent coordinates
var mapBounds = r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 100, Y: 100})

// PointOf converts a position to a plane point where X is left and Y is top
func PointOf(p models.Position) r2.Point {
	return r2.Point{X: p.Left, Y: p.Top}
}

// Distance returns the distance between two positions in percent of the map size
func Distance(a, b models.Position) float64 {
	return PointOf(a).Sub(PointOf(b)).Norm()
}

// FromClick converts a click on a rendered radar of the given pixel size into a position.
// Coordinates outside the image are clamped to its edge.
func FromClick(x, y, width, height float64) models.Position {
	if width <= 0 || height <= 0 {
		return models.NewPosition(0, 0)
	}
	pt := mapBounds.ClampPoint(r2.Point{X: x / width * 100, Y: y / height * 100})
	return models.NewPosition(round(pt.Y), round(pt.X))
}

// Nearest returns the saved position closest to p within radius
func Nearest(positions []models.MapPosition, p models.Position, radius float64) (models.MapPosition, bool) {
	var (
		best  models.MapPosition
		found bool
		min   = math.Inf(1)
	)
	for _, candidate := range positions {
		d := Distance(candidate.Position, p)
		if d <= radius && d < min {
			best, min, found = candidate, d, true
		}
	}
	return best, found
}

// round keeps two decimals, enough precision for a radar image
func round(v float64) float64 {
	return math.Round(v*100) / 100
}
