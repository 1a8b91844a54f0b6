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

// Evaluate は現在の骨格姿勢から筋肉インスタンスの姿勢を評価し、シーンのノードへ反映する。
func (uc *MuscleRigUsecase) Evaluate(session *RigSession, key model.InstanceKey) (*EvaluateResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	instance, ok := session.registry.Get(key)
	if !ok {
		return nil, &merrors.InstanceNotFoundError{Key: key.String()}
	}
	if !instance.IsBuilt() {
		return nil, fmt.Errorf("筋肉リグを評価できません: %s: %w", key, merrors.ErrNotBuilt)
	}

	accessor := NewSkeletonAccessor(session.scene)
	poses, err := evaluateInstance(accessor, instance)
	if err != nil {
		return nil, fmt.Errorf("筋肉リグの評価に失敗しました: %s: %w", key, err)
	}
	if err := writeInstancePose(session.scene, instance, poses); err != nil {
		return nil, fmt.Errorf("筋肉リグの姿勢反映に失敗しました: %s: %w", key, err)
	}
	return &EvaluateResult{Key: key, Poses: poses}, nil
}

// evaluateInstance は全パーツの姿勢を評価する。確定済みの場合はパーツ間ブリッジも適用する。
func evaluateInstance(accessor *SkeletonAccessor, instance *model.MuscleInstance) ([]PrimitivePose, error) {
	if err := accessor.Validate(instance.AnchorJoints()); err != nil {
		return nil, err
	}

	poses := make([]PrimitivePose, 0, len(instance.Parts))
	for _, part := range instance.Parts {
		origin, originFrame, err := accessor.AnchorPoint(part.Origin)
		if err != nil {
			return nil, err
		}
		insertion, _, err := accessor.AnchorPoint(part.Insertion)
		if err != nil {
			return nil, err
		}
		poses = append(poses, evaluatePrimitivePose(part, origin, insertion, originFrame))
	}

	for _, bridge := range instance.Bridges {
		applyBridgePose(instance, poses, bridge)
	}
	return poses, nil
}

// applyBridgePose は駆動パーツのチェーン中間関節を接続先パーツの対応関節の平均位置へ置く。
func applyBridgePose(instance *model.MuscleInstance, poses []PrimitivePose, bridge model.BridgeConfig) {
	indexOf := func(partName string) int {
		for i, part := range instance.Parts {
			if part.PartName == partName {
				return i
			}
		}
		return -1
	}
	driven := indexOf(bridge.Driven)
	if driven < 0 {
		return
	}
	between := make([]int, 0, len(bridge.Between))
	for _, name := range bridge.Between {
		if index := indexOf(name); index >= 0 {
			between = append(between, index)
		}
	}
	if len(between) == 0 {
		return
	}

	chain := poses[driven].Chain
	for i := 1; i < len(chain)-1; i++ {
		sum := mmath.ZERO_VEC3
		for _, index := range between {
			sum = sum.Added(poses[index].Chain[i])
		}
		chain[i] = sum.MuledScalar(1 / float64(len(between)))
	}
}

// writeInstancePose は評価結果をシーンのノードへ書き込む。
func writeInstancePose(scene moutput.IScene, instance *model.MuscleInstance, poses []PrimitivePose) error {
	var err error
	for i, part := range instance.Parts {
		pose := poses[i]
		for j, id := range part.ChainNodeIDs {
			err = multierr.Append(err, scene.SetNodePose(id, mmath.NewTransformFrom(pose.Chain[j], pose.Pivot.Rotation), mmath.ONE_VEC3))
		}
		if part.PivotID != "" {
			err = multierr.Append(err, scene.SetNodePose(part.PivotID, pose.Pivot, pose.PivotScale))
		}
		if part.LocatorID != "" {
			err = multierr.Append(err, scene.SetNodePose(part.LocatorID, pose.Pivot, mmath.ONE_VEC3))
		}
	}
	return err
}

// applyInstancePose は評価と書き込みをまとめて行う。
func applyInstancePose(scene moutput.IScene, accessor *SkeletonAccessor, instance *model.MuscleInstance) error {
	poses, err := evaluateInstance(accessor, instance)
	if err != nil {
		return err
	}
	return writeInstancePose(scene, instance, poses)
}
