package loom

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Matrix is a 2x3 affine transform:
//
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0   1 |
//
// Matrices are value types; all operations return new values. The zero
// Matrix is NOT the identity — use Identity().
type Matrix struct {
	A, B, C, D, TX, TY float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translation returns a pure translation matrix.
func Translation(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, TX: tx, TY: ty}
}

// Mul returns m * other, i.e. the transform that applies other first and
// then m. Parent-child composition is parent.Mul(childLocal).
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A:  m.A*o.A + m.C*o.B,
		B:  m.B*o.A + m.D*o.B,
		C:  m.A*o.C + m.C*o.D,
		D:  m.B*o.C + m.D*o.D,
		TX: m.A*o.TX + m.C*o.TY + m.TX,
		TY: m.B*o.TX + m.D*o.TY + m.TY,
	}
}

// Invert returns the inverse transform. Singular matrices (determinant near
// zero, e.g. a zero scale) invert to the identity rather than exploding.
func (m Matrix) Invert() Matrix {
	det := m.A*m.D - m.C*m.B
	if det > -1e-12 && det < 1e-12 {
		return Identity()
	}
	invDet := 1.0 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	return Matrix{
		A: a, B: b, C: c, D: d,
		TX: -(a*m.TX + c*m.TY),
		TY: -(b*m.TX + d*m.TY),
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.TX, m.B*x + m.D*y + m.TY
}

// GeoM converts the matrix to an ebiten.GeoM for draw submission.
func (m Matrix) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(0, 1, m.C)
	g.SetElement(0, 2, m.TX)
	g.SetElement(1, 0, m.B)
	g.SetElement(1, 1, m.D)
	g.SetElement(1, 2, m.TY)
	return g
}

// localMatrix computes a node's local transform from its properties.
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func localMatrix(n *Node) Matrix {
	sx := n.ScaleX
	sy := n.ScaleY

	sin, cos := math.Sincos(n.Rotation)

	var tanSkewX, tanSkewY float64
	if n.SkewX != 0 {
		tanSkewX = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		tanSkewY = math.Tan(n.SkewY)
	}

	// Scale, then skew.
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	// Pivot folds into the pre-rotation translation.
	preTx := -n.PivotX*sx - tanSkewX*n.PivotY*sy
	preTy := -tanSkewY*n.PivotX*sx - n.PivotY*sy

	return Matrix{
		A:  cos*a - sin*b,
		B:  sin*a + cos*b,
		C:  cos*c - sin*d,
		D:  sin*c + cos*d,
		TX: cos*preTx - sin*preTy + n.X,
		TY: sin*preTx + cos*preTy + n.Y,
	}
}
