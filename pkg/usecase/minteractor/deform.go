// 指示: miu200521358
package minteractor

import (
	"math"
	"sort"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
)

// PrimitivePose は筋肉プリミティブの評価済み姿勢を表す。
type PrimitivePose struct {
	Name         string
	Ratio        float64
	ClampedRatio float64
	Origin       mmath.Vec3
	Insertion    mmath.Vec3
	Chain        []mmath.Vec3
	Pivot        mmath.Transform
	PivotScale   mmath.Vec3
}

// drivenKey は駆動値と出力値の組を表す。
type drivenKey struct {
	driver float64
	value  mmath.Vec3
}

// drivenKeyCurve は駆動キーを線形補間するカーブ。範囲外は端の値を保持する。
type drivenKeyCurve []drivenKey

// newDrivenKeyCurve は駆動値順に並べたカーブを生成する。同じ駆動値のキーは先に渡したものを残す。
func newDrivenKeyCurve(keys ...drivenKey) drivenKeyCurve {
	curve := make(drivenKeyCurve, 0, len(keys))
	for _, key := range keys {
		duplicated := false
		for _, existing := range curve {
			if math.Abs(existing.driver-key.driver) <= mmath.EPSILON {
				duplicated = true
				break
			}
		}
		if !duplicated {
			curve = append(curve, key)
		}
	}
	sort.SliceStable(curve, func(i, j int) bool {
		return curve[i].driver < curve[j].driver
	})
	return curve
}

// Evaluate は駆動値に対する出力値を返す。
func (c drivenKeyCurve) Evaluate(driver float64) mmath.Vec3 {
	if len(c) == 0 {
		return mmath.ZERO_VEC3
	}
	if driver <= c[0].driver {
		return c[0].value
	}
	last := c[len(c)-1]
	if driver >= last.driver {
		return last.value
	}
	for i := 1; i < len(c); i++ {
		if driver <= c[i].driver {
			prev := c[i-1]
			t := (driver - prev.driver) / (c[i].driver - prev.driver)
			return prev.value.Lerp(c[i].value, t)
		}
	}
	return last.value
}

// pivotScaleCurve はピボットのスケールカーブを返す。
// Y は長さ比、体積維持が有効な場合のみ X/Z を sqrt(1/比) にする。
func pivotScaleCurve(primitive *model.MusclePrimitive) drivenKeyCurve {
	scaleAt := func(factor float64) mmath.Vec3 {
		side := 1.0
		if primitive.VolumePreserved() && factor > 0 {
			side = math.Sqrt(1 / factor)
		}
		return mmath.NewVec3(side, factor, side)
	}
	return newDrivenKeyCurve(
		drivenKey{driver: 1, value: mmath.ONE_VEC3},
		drivenKey{driver: primitive.Stretch(), value: scaleAt(primitive.Stretch())},
		drivenKey{driver: primitive.Compression(), value: scaleAt(primitive.Compression())},
	)
}

// pivotOffsetCurve はピボットのローカル移動量カーブを返す。
func pivotOffsetCurve(primitive *model.MusclePrimitive) drivenKeyCurve {
	return newDrivenKeyCurve(
		drivenKey{driver: 1, value: mmath.ZERO_VEC3},
		drivenKey{driver: primitive.Stretch(), value: primitive.StretchOffset},
		drivenKey{driver: primitive.Compression(), value: primitive.CompressionOffset},
	)
}

// chainWeight はチェーン位置 t における実距離側の重みを返す。両端は1、中央は blend。
func chainWeight(t, blend float64) float64 {
	return 1 - (1-blend)*math.Sin(math.Pi*t)
}

// evaluatePrimitivePose はアンカーの現在位置から姿勢を求める純粋関数。
// originFrame は起始関節の現在のワールド変換。
func evaluatePrimitivePose(primitive *model.MusclePrimitive, origin, insertion mmath.Vec3, originFrame mmath.Transform) PrimitivePose {
	span := insertion.Subed(origin)
	direction := span.Normalized()
	ratio := 1.0
	if primitive.RestLength > mmath.EPSILON {
		ratio = span.Length() / primitive.RestLength
	}
	clamped := mmath.Clamped(ratio, primitive.Compression(), primitive.Stretch())

	pointAt := func(t float64, rest mmath.Vec3) mmath.Vec3 {
		live := origin.Added(direction.MuledScalar(t * primitive.RestLength * clamped))
		return rest.Lerp(live, chainWeight(t, primitive.BlendWeight))
	}

	count := len(primitive.RestChain)
	chain := make([]mmath.Vec3, count)
	for i, restLocal := range primitive.RestChain {
		chain[i] = pointAt(chainRatio(i, count), originFrame.Apply(restLocal))
	}

	rotation := originFrame.Rotation
	if !direction.IsZero() {
		rotation = mmath.NewQuaternionFromAim(direction, originFrame.AxisX())
	}
	restMid := originFrame.Apply(restMidpoint(primitive.RestChain))
	offset := pivotOffsetCurve(primitive).Evaluate(ratio)
	pivotPosition := pointAt(0.5, restMid).Added(rotation.MulVec3(offset))

	return PrimitivePose{
		Name:         primitive.Name,
		Ratio:        ratio,
		ClampedRatio: clamped,
		Origin:       origin,
		Insertion:    insertion,
		Chain:        chain,
		Pivot:        mmath.NewTransformFrom(pivotPosition, rotation),
		PivotScale:   pivotScaleCurve(primitive).Evaluate(ratio),
	}
}

// restMidpoint は静止チェーンの中点を返す。
func restMidpoint(restChain []mmath.Vec3) mmath.Vec3 {
	if len(restChain) == 0 {
		return mmath.ZERO_VEC3
	}
	return restChain[0].Lerp(restChain[len(restChain)-1], 0.5)
}
