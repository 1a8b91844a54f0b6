// 指示: miu200521358
package mmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転を表す。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位クォータニオンを生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionFromDegrees はXYZ順のオイラー角(度)から回転を生成する。
func NewQuaternionFromDegrees(x, y, z float64) Quaternion {
	return Quaternion{Quat: mgl64.AnglesToQuat(DegToRad(x), DegToRad(y), DegToRad(z), mgl64.XYZ).Normalize()}
}

// NewQuaternionFromAxisAngle は軸と角度(ラジアン)から回転を生成する。
func NewQuaternionFromAxisAngle(axis Vec3, radians float64) Quaternion {
	if axis.IsZero() {
		return NewQuaternion()
	}
	return Quaternion{Quat: mgl64.QuatRotate(radians, axis.Normalized().MGL())}
}

// NewQuaternionFromAxes はローカル軸の向きから回転を生成する。各軸は正規直交である必要がある。
func NewQuaternionFromAxes(xAxis, yAxis, zAxis Vec3) Quaternion {
	m := mgl64.Mat4{
		xAxis.X, xAxis.Y, xAxis.Z, 0,
		yAxis.X, yAxis.Y, yAxis.Z, 0,
		zAxis.X, zAxis.Y, zAxis.Z, 0,
		0, 0, 0, 1,
	}
	return Quaternion{Quat: mgl64.Mat4ToQuat(m).Normalize()}
}

// NewQuaternionFromAim はローカルY軸を aim へ、ローカルX軸を up 側へ向ける回転を生成する。
// up が aim と平行な場合は最短回転にフォールバックする。
func NewQuaternionFromAim(aim, up Vec3) Quaternion {
	yAxis := aim.Normalized()
	if yAxis.IsZero() {
		return NewQuaternion()
	}
	zAxis := up.Cross(yAxis).Normalized()
	if zAxis.IsZero() {
		return Quaternion{Quat: mgl64.QuatBetweenVectors(UNIT_Y_VEC3.MGL(), yAxis.MGL())}
	}
	xAxis := yAxis.Cross(zAxis).Normalized()
	return NewQuaternionFromAxes(xAxis, yAxis, zAxis)
}

// Muled は回転の合成 (q * other) を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Quat.Mul(other.Quat)}
}

// MulVec3 はベクトルを回転する。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	return NewVec3FromMGL(q.Quat.Rotate(v.MGL()))
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{Quat: q.Quat.Inverse()}
}

// Normalized は正規化した回転を返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion{Quat: q.Quat.Normalize()}
}

// NearEquals は同じ回転とみなせるか判定する。q と -q は同一回転として扱う。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	return q.Quat.ApproxEqualThreshold(other.Quat, epsilon) ||
		q.Quat.ApproxEqualThreshold(other.Quat.Scale(-1), epsilon)
}

// IsIdent は単位回転か判定する。
func (q Quaternion) IsIdent() bool {
	return q.NearEquals(NewQuaternion(), 1e-10)
}

// String は文字列表現を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f, w=%.5f]", q.V[0], q.V[1], q.V[2], q.W)
}
