// 指示: miu200521358
package mmath

import "github.com/go-gl/mathgl/mgl64"

// Transform は位置と回転からなる剛体変換を表す。
type Transform struct {
	Position Vec3
	Rotation Quaternion
}

// NewTransform は恒等変換を生成する。
func NewTransform() Transform {
	return Transform{Position: ZERO_VEC3, Rotation: NewQuaternion()}
}

// NewTransformFrom は位置と回転から変換を生成する。
func NewTransformFrom(position Vec3, rotation Quaternion) Transform {
	return Transform{Position: position, Rotation: rotation}
}

// Apply はローカル座標をこの変換の親空間へ写す。
func (t Transform) Apply(local Vec3) Vec3 {
	return t.Position.Added(t.Rotation.MulVec3(local))
}

// InverseApply は親空間の座標をこの変換のローカル空間へ写す。
func (t Transform) InverseApply(world Vec3) Vec3 {
	return t.Rotation.Inverted().MulVec3(world.Subed(t.Position))
}

// Composed は子のローカル変換を合成した変換を返す。
func (t Transform) Composed(local Transform) Transform {
	return Transform{
		Position: t.Apply(local.Position),
		Rotation: t.Rotation.Muled(local.Rotation).Normalized(),
	}
}

// AxisX はローカルX軸の向きを返す。
func (t Transform) AxisX() Vec3 {
	return t.Rotation.MulVec3(UNIT_X_VEC3)
}

// AxisY はローカルY軸の向きを返す。
func (t Transform) AxisY() Vec3 {
	return t.Rotation.MulVec3(UNIT_Y_VEC3)
}

// Matrix は変換行列を返す。scale はローカル軸ごとのスケール。
func (t Transform) Matrix(scale Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X, t.Position.Y, t.Position.Z).
		Mul4(t.Rotation.Quat.Mat4()).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
}

// NearEquals は許容誤差内で一致するか判定する。
func (t Transform) NearEquals(other Transform, epsilon float64) bool {
	return t.Position.NearEquals(other.Position, epsilon) && t.Rotation.NearEquals(other.Rotation, epsilon)
}
