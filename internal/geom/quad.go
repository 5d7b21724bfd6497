// Package geom provides the 2D primitives used to match entrance
// coordinates against camera cut regions.
package geom

// Point is a position on the world XZ plane, in game units.
type Point struct {
	X, Z int
}

// Orient returns the sign of the 2D cross product (b-a) x (c-a):
// positive for a left turn, negative for a right turn, zero if collinear.
func Orient(a, b, c Point) int {
	v := (b.X-a.X)*(c.Z-a.Z) - (b.Z-a.Z)*(c.X-a.X)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// PointInConvexQuad reports whether p lies strictly inside the convex
// quadrilateral with corners quad[0..3]. Corners may be given in either
// clockwise or counterclockwise order; the winding is determined from the
// first non-collinear edge. A point exactly on an edge line counts as
// outside.
func PointInConvexQuad(p Point, quad [4]Point) bool {
	sgn := 0
	for i := range quad {
		a, b := quad[i], quad[(i+1)%4]
		o := Orient(a, b, p)
		if o == 0 {
			return false
		}
		if sgn == 0 {
			sgn = o
		} else if o != sgn {
			return false
		}
	}
	return true
}
