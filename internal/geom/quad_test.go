package geom

import "testing"

func TestOrient(t *testing.T) {
	t.Parallel()

	a := Point{0, 0}
	b := Point{10, 0}

	if got := Orient(a, b, Point{5, 5}); got != 1 {
		t.Fatalf("left turn: got %d, want 1", got)
	}
	if got := Orient(a, b, Point{5, -5}); got != -1 {
		t.Fatalf("right turn: got %d, want -1", got)
	}
	if got := Orient(a, b, Point{20, 0}); got != 0 {
		t.Fatalf("collinear: got %d, want 0", got)
	}
}

func TestPointInConvexQuad(t *testing.T) {
	t.Parallel()

	// Unit-ish square, counterclockwise order.
	quad := [4]Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{name: "centroid", p: Point{50, 50}, want: true},
		{name: "near corner inside", p: Point{1, 1}, want: true},
		{name: "far outside", p: Point{5000, 5000}, want: false},
		{name: "outside negative", p: Point{-50, 50}, want: false},
		{name: "on edge", p: Point{50, 0}, want: false},
		{name: "on corner", p: Point{0, 0}, want: false},
		{name: "on edge line but beyond segment", p: Point{300, 0}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PointInConvexQuad(tt.p, quad); got != tt.want {
				t.Fatalf("PointInConvexQuad(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointInConvexQuadWindingIndependent(t *testing.T) {
	t.Parallel()

	ccw := [4]Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	cw := [4]Point{{0, 100}, {100, 100}, {100, 0}, {0, 0}}

	points := []Point{
		{50, 50}, {1, 99}, {-10, 50}, {200, 200}, {0, 50}, {100, 100},
	}
	for _, p := range points {
		if PointInConvexQuad(p, ccw) != PointInConvexQuad(p, cw) {
			t.Fatalf("winding changed result for %v", p)
		}
	}
}

func TestPointInConvexQuadSkewed(t *testing.T) {
	t.Parallel()

	// A convex quad that is not axis-aligned, like real camera cuts.
	quad := [4]Point{{-2530, -555}, {-700, -1800}, {1500, -400}, {-300, 1774}}

	if !PointInConvexQuad(Point{-500, -300}, quad) {
		t.Fatalf("interior point reported outside")
	}
	if PointInConvexQuad(Point{-4000, -4000}, quad) {
		t.Fatalf("exterior point reported inside")
	}
}
