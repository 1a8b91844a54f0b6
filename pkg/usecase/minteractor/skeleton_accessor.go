// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_muscle/pkg/usecase/port/moutput"
	"go.uber.org/multierr"
)

// SkeletonAccessor は関節名テンプレートからアンカー関節を解決する。読み取り専用。
type SkeletonAccessor struct {
	skeleton moutput.ISkeletonReader
}

// NewSkeletonAccessor はスケルトンアクセサを生成する。
func NewSkeletonAccessor(skeleton moutput.ISkeletonReader) *SkeletonAccessor {
	return &SkeletonAccessor{skeleton: skeleton}
}

// Resolve は左右トークンを埋め込み、名前完全一致で関節を解決する。
func (a *SkeletonAccessor) Resolve(pattern model.JointPattern, side model.Side, tokens model.SideTokens) (model.JointRef, error) {
	name, err := pattern.Resolve(side, tokens)
	if err != nil {
		return model.JointRef{}, err
	}
	refSide := model.SideNone
	if pattern.IsSided() {
		refSide = side
	}
	if _, ok := a.skeleton.JointByName(name); !ok {
		return model.JointRef{}, merrors.NewAnchorNotFoundError(name, refSide.Name())
	}
	return model.JointRef{Name: name, Side: refSide}, nil
}

// ResolveAnchor はアンカー指定を解決し、関節ローカル空間の静止オフセットを求める。
// 見つからない関節はすべて集約して返す。
func (a *SkeletonAccessor) ResolveAnchor(spec model.AnchorSpec, side model.Side, tokens model.SideTokens) (model.AnchorRef, error) {
	jointRef, jointErr := a.Resolve(spec.Joint, side, tokens)
	var towardRef model.JointRef
	var towardErr error
	if spec.Toward != "" {
		towardRef, towardErr = a.Resolve(spec.Toward, side, tokens)
	}
	if err := multierr.Combine(jointErr, towardErr); err != nil {
		return model.AnchorRef{}, err
	}

	jointWorld, err := a.skeleton.WorldTransform(jointRef.Name)
	if err != nil {
		return model.AnchorRef{}, fmt.Errorf("アンカー関節の変換取得に失敗しました: %w", err)
	}
	point := jointWorld.Position
	if spec.Toward != "" {
		towardWorld, err := a.skeleton.WorldTransform(towardRef.Name)
		if err != nil {
			return model.AnchorRef{}, fmt.Errorf("アンカー関節の変換取得に失敗しました: %w", err)
		}
		point = point.Lerp(towardWorld.Position, spec.Ratio)
	}
	offset := spec.Offset
	if side == model.SideRight {
		offset = offset.MirroredX()
	}
	point = point.Added(offset)

	return model.AnchorRef{Joint: jointRef, LocalOffset: jointWorld.InverseApply(point)}, nil
}

// JointTransform は解決済み関節の現在のワールド変換を返す。関節が消えていればアンカー未検出。
func (a *SkeletonAccessor) JointTransform(ref model.JointRef) (mmath.Transform, error) {
	if _, ok := a.skeleton.JointByName(ref.Name); !ok {
		return mmath.NewTransform(), merrors.NewAnchorNotFoundError(ref.Name, ref.Side.Name())
	}
	return a.skeleton.WorldTransform(ref.Name)
}

// AnchorPoint はアンカーの現在のワールド位置と関節変換を返す。
func (a *SkeletonAccessor) AnchorPoint(anchor model.AnchorRef) (mmath.Vec3, mmath.Transform, error) {
	world, err := a.JointTransform(anchor.Joint)
	if err != nil {
		return mmath.ZERO_VEC3, world, err
	}
	return world.Apply(anchor.LocalOffset), world, nil
}

// Validate は関節参照がすべて解決できるか検証し、見つからない関節を集約して返す。
func (a *SkeletonAccessor) Validate(refs []model.JointRef) error {
	var err error
	for _, ref := range refs {
		if _, ok := a.skeleton.JointByName(ref.Name); !ok {
			err = multierr.Append(err, merrors.NewAnchorNotFoundError(ref.Name, ref.Side.Name()))
		}
	}
	return err
}
