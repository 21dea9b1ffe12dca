package loom

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Matrix) {
	t.Helper()
	pairs := [6][2]float64{
		{got.A, want.A}, {got.B, want.B}, {got.C, want.C},
		{got.D, want.D}, {got.TX, want.TX}, {got.TY, want.TY},
	}
	for i, p := range pairs {
		if math.Abs(p[0]-p[1]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %+v vs %+v)", name, i, p[0], p[1], got, want)
		}
	}
}

// --- Matrix ---

func TestMatrixMulIdentity(t *testing.T) {
	m := Matrix{A: 2, B: 1, C: 3, D: 4, TX: 5, TY: 6}
	assertMatrix(t, "id*m", Identity().Mul(m), m)
	assertMatrix(t, "m*id", m.Mul(Identity()), m)
}

func TestMatrixMulTranslations(t *testing.T) {
	got := Translation(10, 20).Mul(Translation(5, 3))
	assertMatrix(t, "translations", got, Translation(15, 23))
}

func TestMatrixInvertRoundtrip(t *testing.T) {
	m := Matrix{A: 2, D: 3, TX: 10, TY: 20}
	assertMatrix(t, "m*inv=id", m.Mul(m.Invert()), Identity())
}

func TestMatrixInvertSingularReturnsIdentity(t *testing.T) {
	// Zero scale produces a singular matrix (determinant 0).
	m := Matrix{A: 0, D: 1, TX: 10, TY: 20}
	assertMatrix(t, "singular", m.Invert(), Identity())
}

func TestMatrixApply(t *testing.T) {
	m := Translation(100, 50)
	x, y := m.Apply(10, 20)
	assertNear(t, "x", x, 110)
	assertNear(t, "y", y, 70)
}

func TestMatrixGeoMRoundtrip(t *testing.T) {
	m := Matrix{A: 2, B: 0.25, C: -0.5, D: 3, TX: 7, TY: -4}
	g := m.GeoM()
	assertNear(t, "a", g.Element(0, 0), m.A)
	assertNear(t, "c", g.Element(0, 1), m.C)
	assertNear(t, "tx", g.Element(0, 2), m.TX)
	assertNear(t, "b", g.Element(1, 0), m.B)
	assertNear(t, "d", g.Element(1, 1), m.D)
	assertNear(t, "ty", g.Element(1, 2), m.TY)
}

// --- localMatrix ---

func TestLocalMatrixIdentity(t *testing.T) {
	n := NewContainer("test")
	assertMatrix(t, "identity", localMatrix(n), Identity())
}

func TestLocalMatrixTranslation(t *testing.T) {
	n := NewContainer("test")
	n.X = 10
	n.Y = 20
	assertMatrix(t, "translation", localMatrix(n), Translation(10, 20))
}

func TestLocalMatrixScale(t *testing.T) {
	n := NewContainer("test")
	n.ScaleX = 2
	n.ScaleY = 3
	assertMatrix(t, "scale", localMatrix(n), Matrix{A: 2, D: 3})
}

func TestLocalMatrixRotation90(t *testing.T) {
	n := NewContainer("test")
	n.Rotation = math.Pi / 2
	// cos(90)=0, sin(90)=1 -> a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", localMatrix(n), Matrix{A: 0, B: 1, C: -1, D: 0})
}

func TestLocalMatrixPivot(t *testing.T) {
	n := NewContainer("test")
	n.X = 100
	n.Y = 200
	n.PivotX = 16
	n.PivotY = 16
	// T(100,200) * T(-16,-16)
	assertMatrix(t, "pivot", localMatrix(n), Translation(84, 184))
}

func TestLocalMatrixSkew(t *testing.T) {
	n := NewContainer("test")
	n.SkewX = math.Pi / 4 // tan = 1
	assertMatrix(t, "skew", localMatrix(n), Matrix{A: 1, C: 1, D: 1})
}

func TestLocalMatrixCombined(t *testing.T) {
	n := NewContainer("test")
	n.X = 50
	n.Y = 100
	n.ScaleX = 2
	n.ScaleY = 2
	n.Rotation = math.Pi / 2
	// Scale(2,2) then Rotate(90): a=0, b=2, c=-2, d=0.
	assertMatrix(t, "combined", localMatrix(n), Matrix{A: 0, B: 2, C: -2, D: 0, TX: 50, TY: 100})
}

// --- Benchmarks ---

func BenchmarkLocalMatrix(b *testing.B) {
	n := NewContainer("bench")
	n.X = 100
	n.Y = 200
	n.ScaleX = 2
	n.ScaleY = 3
	n.Rotation = 0.5
	n.PivotX = 16
	n.PivotY = 16
	b.ReportAllocs()
	for b.Loop() {
		_ = localMatrix(n)
	}
}

func BenchmarkMatrixMul(b *testing.B) {
	m := Matrix{A: 2, B: 0.1, C: 0.3, D: 3, TX: 100, TY: 200}
	o := Matrix{A: 1.5, B: 0.2, C: 0.1, D: 2.5, TX: 50, TY: 30}
	b.ReportAllocs()
	for b.Loop() {
		_ = m.Mul(o)
	}
}
