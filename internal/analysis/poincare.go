package analysis

import (
	"math"

	"github.com/sominlee1211/simsopt/internal/tracing"
)

// SectionPoint is one puncture of a Poincaré section plane.
type SectionPoint struct {
	X, Y float64
	T    float64
	// Trajectory is the index of the trajectory that produced the point.
	Trajectory int
}

// RealSpaceSection collects the punctures of the plane-index hits of
// real-space trajectories as (R, Z) pairs.
func RealSpaceSection(results []*tracing.Result, plane int) []SectionPoint {
	var pts []SectionPoint
	for ti, res := range results {
		if res == nil {
			continue
		}
		for _, hit := range res.Hits {
			if hit.Kind != plane {
				continue
			}
			pts = append(pts, SectionPoint{
				X:          math.Hypot(hit.Y[0], hit.Y[1]),
				Y:          hit.Y[2],
				T:          hit.T,
				Trajectory: ti,
			})
		}
	}
	return pts
}

// FluxSection collects the punctures of the plane-index hits of Boozer
// trajectories as (s, theta) pairs, with theta folded into [0, 2*pi).
func FluxSection(results []*tracing.Result, plane int) []SectionPoint {
	var pts []SectionPoint
	for ti, res := range results {
		if res == nil {
			continue
		}
		for _, hit := range res.Hits {
			if hit.Kind != plane {
				continue
			}
			theta := math.Mod(hit.Y[1], 2*math.Pi)
			if theta < 0 {
				theta += 2 * math.Pi
			}
			pts = append(pts, SectionPoint{
				X:          hit.Y[0],
				Y:          theta,
				T:          hit.T,
				Trajectory: ti,
			})
		}
	}
	return pts
}

// SectionBounds returns the bounding box of a set of section points,
// expanded by pad on each side as a fraction of the range.
func SectionBounds(pts []SectionPoint, pad float64) (minX, maxX, minY, maxY float64) {
	if len(pts) == 0 {
		return 0, 1, 0, 1
	}
	minX, maxX = pts[0].X, pts[0].X
	minY, maxY = pts[0].Y, pts[0].Y
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return minX - pad*rangeX, maxX + pad*rangeX, minY - pad*rangeY, maxY + pad*rangeY
}
