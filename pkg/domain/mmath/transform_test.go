// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestVec3BasicOperations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -2, 0.5)

	if got := a.Added(b); !got.NearEquals(NewVec3(5, 0, 3.5), 1e-12) {
		t.Fatalf("added mismatch: got=%v", got)
	}
	if got := b.Subed(a); !got.NearEquals(NewVec3(3, -4, -2.5), 1e-12) {
		t.Fatalf("subed mismatch: got=%v", got)
	}
	if got := a.MuledScalar(2); !got.NearEquals(NewVec3(2, 4, 6), 1e-12) {
		t.Fatalf("muled scalar mismatch: got=%v", got)
	}
	if got := UNIT_X_VEC3.Cross(UNIT_Y_VEC3); !got.NearEquals(UNIT_Z_VEC3, 1e-12) {
		t.Fatalf("cross mismatch: got=%v want=%v", got, UNIT_Z_VEC3)
	}
	if got := NewVec3(3, 4, 0).Length(); math.Abs(got-5) > 1e-12 {
		t.Fatalf("length mismatch: got=%f want=5", got)
	}
	if got := a.MirroredX(); !got.NearEquals(NewVec3(-1, 2, 3), 1e-12) {
		t.Fatalf("mirrored mismatch: got=%v", got)
	}
	if got := ZERO_VEC3.Normalized(); !got.IsZero() {
		t.Fatalf("zero vector normalize should stay zero: got=%v", got)
	}
	if got := NewVec3(0, 0, 2).Lerp(NewVec3(0, 0, 4), 0.25); !got.NearEquals(NewVec3(0, 0, 2.5), 1e-12) {
		t.Fatalf("lerp mismatch: got=%v", got)
	}
}

func TestQuaternionFromDegreesRotatesAxis(t *testing.T) {
	q := NewQuaternionFromDegrees(0, 0, 90)
	got := q.MulVec3(UNIT_X_VEC3)
	if !got.NearEquals(UNIT_Y_VEC3, 1e-9) {
		t.Fatalf("rotated axis mismatch: got=%v want=%v", got, UNIT_Y_VEC3)
	}
	back := q.Inverted().MulVec3(got)
	if !back.NearEquals(UNIT_X_VEC3, 1e-9) {
		t.Fatalf("inverse rotation mismatch: got=%v want=%v", back, UNIT_X_VEC3)
	}
	if !q.NearEquals(Quaternion{Quat: q.Quat.Scale(-1)}, 1e-9) {
		t.Fatalf("negated quaternion should represent same rotation")
	}
}

func TestQuaternionFromAimAlignsAxes(t *testing.T) {
	aim := NewVec3(1, 1, 0)
	up := NewVec3(0, 0, 1)
	q := NewQuaternionFromAim(aim, up)

	yAxis := q.MulVec3(UNIT_Y_VEC3)
	if !yAxis.NearEquals(aim.Normalized(), 1e-9) {
		t.Fatalf("aim axis mismatch: got=%v want=%v", yAxis, aim.Normalized())
	}
	xAxis := q.MulVec3(UNIT_X_VEC3)
	if !xAxis.NearEquals(up, 1e-9) {
		t.Fatalf("up axis mismatch: got=%v want=%v", xAxis, up)
	}

	parallel := NewQuaternionFromAim(UNIT_X_VEC3, UNIT_X_VEC3)
	if got := parallel.MulVec3(UNIT_Y_VEC3); !got.NearEquals(UNIT_X_VEC3, 1e-9) {
		t.Fatalf("fallback aim mismatch: got=%v want=%v", got, UNIT_X_VEC3)
	}
}

func TestTransformComposeAndInverse(t *testing.T) {
	parent := NewTransformFrom(NewVec3(1, 0, 0), NewQuaternionFromDegrees(0, 0, 90))
	child := NewTransformFrom(NewVec3(2, 0, 0), NewQuaternion())

	world := parent.Composed(child)
	if !world.Position.NearEquals(NewVec3(1, 2, 0), 1e-9) {
		t.Fatalf("composed position mismatch: got=%v", world.Position)
	}

	local := NewVec3(0.5, -0.25, 3)
	roundTrip := world.InverseApply(world.Apply(local))
	if !roundTrip.NearEquals(local, 1e-9) {
		t.Fatalf("round trip mismatch: got=%v want=%v", roundTrip, local)
	}

	m := world.Matrix(ONE_VEC3)
	p := m.Mul4x1(local.MGL().Vec4(1))
	if got := NewVec3(p[0], p[1], p[2]); !got.NearEquals(world.Apply(local), 1e-9) {
		t.Fatalf("matrix apply mismatch: got=%v want=%v", got, world.Apply(local))
	}
}

func TestClampedSwapsBounds(t *testing.T) {
	if got := Clamped(5, 3, 1); got != 3 {
		t.Fatalf("clamped mismatch: got=%f want=3", got)
	}
	if got := Clamped(0.5, 1, 3); got != 1 {
		t.Fatalf("clamped mismatch: got=%f want=1", got)
	}
}
