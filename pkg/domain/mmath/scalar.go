// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EPSILON は幾何計算で用いる許容誤差。
const EPSILON = 1e-8

// DegToRad は度をラジアンへ変換する。
func DegToRad(degrees float64) float64 {
	return mgl64.DegToRad(degrees)
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radians float64) float64 {
	return mgl64.RadToDeg(radians)
}

// Clamped は値を範囲内に収める。min と max が逆転している場合は入れ替える。
func Clamped(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}
	return mgl64.Clamp(value, min, max)
}

// Lerp はスカラーの線形補間結果を返す。
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// IsFinite は値が有限か判定する。
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
