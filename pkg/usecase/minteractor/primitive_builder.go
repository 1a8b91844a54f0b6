// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"go.uber.org/multierr"
)

// PrimitiveBuildOptions はプリミティブ構築時の任意設定を表す。
type PrimitiveBuildOptions struct {
	PartName          string
	BlendWeight       float64
	StretchOffset     mmath.Vec3
	CompressionOffset mmath.Vec3
}

// PrimitiveBuilder は2アンカー間に筋肉チェーンを構築する。
type PrimitiveBuilder struct {
	accessor *SkeletonAccessor
}

// NewPrimitiveBuilder はプリミティブビルダーを生成する。
func NewPrimitiveBuilder(accessor *SkeletonAccessor) *PrimitiveBuilder {
	return &PrimitiveBuilder{accessor: accessor}
}

// Build はチェーン関節・ピボット・中心ロケーターとコンストレイントを生成する。
// 失敗した場合はこの呼び出しで生成したものをすべて取り消す。
func (b *PrimitiveBuilder) Build(
	tx *model.SceneTransaction,
	name string,
	origin, insertion model.AnchorRef,
	chainLength int,
	compression, stretch float64,
	options PrimitiveBuildOptions,
) (*model.MusclePrimitive, error) {
	if chainLength < model.MinChainLength {
		return nil, &merrors.BuildError{
			Primitive: name,
			Reason:    fmt.Sprintf("チェーン関節数は %d 以上である必要があります: %d", model.MinChainLength, chainLength),
		}
	}

	originPoint, originFrame, err := b.accessor.AnchorPoint(origin)
	if err != nil {
		return nil, &merrors.BuildError{Primitive: name, Err: err}
	}
	insertionPoint, _, err := b.accessor.AnchorPoint(insertion)
	if err != nil {
		return nil, &merrors.BuildError{Primitive: name, Err: err}
	}
	restLength := originPoint.Distance(insertionPoint)
	if restLength <= mmath.EPSILON {
		return nil, &merrors.BuildError{Primitive: name, Reason: "起始点と停止点が一致しています"}
	}

	primitive := model.NewMusclePrimitive(name, options.PartName, origin, insertion, chainLength, compression, stretch)
	primitive.RestLength = restLength
	primitive.BlendWeight = options.BlendWeight
	primitive.StretchOffset = options.StretchOffset
	primitive.CompressionOffset = options.CompressionOffset

	// 静止チェーンは起始関節のローカル空間で保持する
	insertionLocal := originFrame.InverseApply(insertionPoint)
	primitive.RestChain = make([]mmath.Vec3, chainLength)
	for i := range primitive.RestChain {
		primitive.RestChain[i] = origin.LocalOffset.Lerp(insertionLocal, chainRatio(i, chainLength))
	}

	savepoint := tx.Savepoint()
	if err := b.createNodes(tx, primitive); err != nil {
		rollbackErr := tx.RollbackTo(savepoint)
		return nil, &merrors.BuildError{Primitive: name, Reason: "シーンへの追加に失敗しました", Err: multierr.Append(err, rollbackErr)}
	}
	return primitive, nil
}

// createNodes はプリミティブが所有するノードとコンストレイントを追加する。
func (b *PrimitiveBuilder) createNodes(tx *model.SceneTransaction, primitive *model.MusclePrimitive) error {
	originJoint := primitive.Origin.Joint.Name
	insertionJoint := primitive.Insertion.Joint.Name
	chainLength := primitive.ChainLength()

	for i := 0; i < chainLength; i++ {
		node := model.NewRigNode(fmt.Sprintf("%s_muscleChain%02d", primitive.Name, i+1), model.RigNodeKindChainJoint, primitive.Name, originJoint)
		if err := tx.AddNode(node); err != nil {
			return err
		}
		primitive.ChainNodeIDs = append(primitive.ChainNodeIDs, node.ID())

		t := chainRatio(i, chainLength)
		blend := model.NewConstraint(
			node.Name+"_blend",
			model.ConstraintKindBlend,
			node.ID(),
			model.JointTarget(originJoint, 1-t),
			model.JointTarget(insertionJoint, t),
		)
		if err := tx.AddConstraint(blend); err != nil {
			return err
		}
		primitive.ConstraintIDs = append(primitive.ConstraintIDs, blend.ID())
	}

	pivot := model.NewRigNode(primitive.Name+"_musclePivot", model.RigNodeKindPivot, primitive.Name, originJoint)
	if err := tx.AddNode(pivot); err != nil {
		return err
	}
	primitive.PivotID = pivot.ID()

	first := primitive.ChainNodeIDs[0]
	last := primitive.ChainNodeIDs[len(primitive.ChainNodeIDs)-1]
	point := model.NewConstraint(pivot.Name+"_point", model.ConstraintKindPoint, pivot.ID(),
		model.NodeTarget(first, 0.5), model.NodeTarget(last, 0.5))
	// 重み0の起始関節はアップベクトル参照
	aim := model.NewConstraint(pivot.Name+"_aim", model.ConstraintKindAim, pivot.ID(),
		model.JointTarget(insertionJoint, 1), model.JointTarget(originJoint, 0))
	for _, constraint := range []*model.Constraint{point, aim} {
		if err := tx.AddConstraint(constraint); err != nil {
			return err
		}
		primitive.ConstraintIDs = append(primitive.ConstraintIDs, constraint.ID())
	}

	locator := model.NewRigNode(primitive.Name+"_muscleCenter_loc", model.RigNodeKindLocator, primitive.Name, originJoint)
	if err := tx.AddNode(locator); err != nil {
		return err
	}
	primitive.LocatorID = locator.ID()
	return nil
}

// chainRatio はチェーン上の i 番目の位置を 0〜1 で返す。
func chainRatio(index, chainLength int) float64 {
	if chainLength <= 1 {
		return 0
	}
	return float64(index) / float64(chainLength-1)
}
