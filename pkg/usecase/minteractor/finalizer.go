// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// finalizeOutcome は1インスタンス分の確定結果を表す。
type finalizeOutcome struct {
	closingConstraints int
	lockedNodes        int
}

// Finalize は登録済みインスタンスを確定する。
func (uc *MuscleRigUsecase) Finalize(session *RigSession, key model.InstanceKey, reporter IRigProgressReporter) (*FinalizeResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	instance, ok := session.registry.Get(key)
	if !ok {
		return nil, &merrors.FinalizeError{Key: key.String(), Err: &merrors.InstanceNotFoundError{Key: key.String()}}
	}
	outcome, err := uc.finalizeLocked(session, instance, reporter)
	if err != nil {
		return nil, err
	}
	return &FinalizeResult{
		Finalized:              []model.InstanceKey{key},
		ClosingConstraintCount: outcome.closingConstraints,
		LockedNodeCount:        outcome.lockedNodes,
	}, nil
}

// FinalizeAll は登録済みの全インスタンスを生成順に確定する。
// 確定済みは飛ばし、失敗したものがあっても残りの確定を続ける。
func (uc *MuscleRigUsecase) FinalizeAll(session *RigSession, reporter IRigProgressReporter) (*FinalizeResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	result := &FinalizeResult{}
	var err error
	for _, instance := range session.registry.Instances() {
		if instance.IsFinalized() {
			result.Skipped = append(result.Skipped, instance.Key())
			continue
		}
		outcome, finalizeErr := uc.finalizeLocked(session, instance, reporter)
		if finalizeErr != nil {
			result.Failed = append(result.Failed, instance.Key())
			err = multierr.Append(err, finalizeErr)
			continue
		}
		result.Finalized = append(result.Finalized, instance.Key())
		result.ClosingConstraintCount += outcome.closingConstraints
		result.LockedNodeCount += outcome.lockedNodes
	}
	uc.log().Info("筋肉リグを一括確定しました",
		zap.Int("finalized", len(result.Finalized)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)))
	return result, err
}

// finalizeLocked は構築専用ノードをロックし、体積維持とパーツ間ブリッジの拘束を追加して終端状態にする。
func (uc *MuscleRigUsecase) finalizeLocked(session *RigSession, instance *model.MuscleInstance, reporter IRigProgressReporter) (finalizeOutcome, error) {
	key := instance.Key()
	finalizeErr := func(err error) error {
		return &merrors.FinalizeError{Key: key.String(), Err: err}
	}
	if instance.IsFinalized() {
		return finalizeOutcome{}, finalizeErr(merrors.ErrAlreadyFinalized)
	}
	if !instance.IsBuilt() {
		return finalizeOutcome{}, finalizeErr(merrors.ErrNotBuilt)
	}

	accessor := NewSkeletonAccessor(session.scene)
	if err := accessor.Validate(instance.AnchorJoints()); err != nil {
		return finalizeOutcome{}, finalizeErr(err)
	}
	cfg, err := uc.catalogue.Config(key.Type)
	if err != nil {
		return finalizeOutcome{}, finalizeErr(err)
	}

	tx := model.NewSceneTransaction(session.scene)
	volumeIDs := make([]string, len(instance.Parts))
	lockedNodes := 0
	for i, part := range instance.Parts {
		for _, id := range []string{part.PivotID, part.LocatorID} {
			if err := tx.LockNode(id); err != nil {
				return finalizeOutcome{}, finalizeErr(multierr.Append(err, tx.Rollback()))
			}
			lockedNodes++
		}
		volume := model.NewConstraint(part.Name+"_musclePivot_volume", model.ConstraintKindVolume, part.PivotID,
			model.JointTarget(part.Origin.Joint.Name, 1), model.JointTarget(part.Insertion.Joint.Name, 1))
		if err := tx.AddConstraint(volume); err != nil {
			return finalizeOutcome{}, finalizeErr(multierr.Append(err, tx.Rollback()))
		}
		volumeIDs[i] = volume.ID()
	}

	closingIDs := make([]string, 0)
	for _, bridge := range cfg.Bridges {
		ids, err := addBridgeConstraints(tx, instance, bridge)
		if err != nil {
			return finalizeOutcome{}, finalizeErr(multierr.Append(err, tx.Rollback()))
		}
		closingIDs = append(closingIDs, ids...)
	}
	tx.Commit()

	for i, part := range instance.Parts {
		part.VolumeConstraint = volumeIDs[i]
		part.ConstraintIDs = append(part.ConstraintIDs, volumeIDs[i])
	}
	instance.ClosingConstraintIDs = append(instance.ClosingConstraintIDs, closingIDs...)
	instance.Bridges = append([]model.BridgeConfig(nil), cfg.Bridges...)
	if err := instance.Transition(model.InstanceStateFinalized); err != nil {
		return finalizeOutcome{}, finalizeErr(err)
	}
	if err := applyInstancePose(session.scene, accessor, instance); err != nil {
		uc.log().Warn("確定後の姿勢反映に失敗しました", zap.Stringer("key", key), zap.Error(err))
	}

	outcome := finalizeOutcome{closingConstraints: len(volumeIDs) + len(closingIDs), lockedNodes: lockedNodes}
	reportRigProgress(reporter, RigProgressEvent{Type: RigProgressEventTypeInstanceFinalized, Key: key, NodeCount: lockedNodes})
	uc.log().Info("筋肉リグを確定しました",
		zap.Stringer("key", key),
		zap.Int("closingConstraints", outcome.closingConstraints),
		zap.Int("lockedNodes", lockedNodes))
	return outcome, nil
}

// addBridgeConstraints は駆動パーツのチェーン中間関節を接続先パーツの対応関節へ位置拘束する。
func addBridgeConstraints(tx *model.SceneTransaction, instance *model.MuscleInstance, bridge model.BridgeConfig) ([]string, error) {
	driven, ok := instance.Part(bridge.Driven)
	if !ok {
		return nil, fmt.Errorf("ブリッジ対象のパーツが見つかりません: %s", bridge.Driven)
	}
	between := make([]*model.MusclePrimitive, 0, len(bridge.Between))
	for _, name := range bridge.Between {
		part, ok := instance.Part(name)
		if !ok {
			return nil, fmt.Errorf("ブリッジ接続先のパーツが見つかりません: %s", name)
		}
		between = append(between, part)
	}

	ids := make([]string, 0)
	weight := 1 / float64(len(between))
	for i := 1; i < len(driven.ChainNodeIDs)-1; i++ {
		targets := make([]model.ConstraintTarget, 0, len(between))
		for _, part := range between {
			targets = append(targets, model.NodeTarget(part.ChainNodeIDs[i], weight))
		}
		constraint := model.NewConstraint(fmt.Sprintf("%s_muscleBridge%02d", driven.Name, i+1), model.ConstraintKindBridge, driven.ChainNodeIDs[i], targets...)
		if err := tx.AddConstraint(constraint); err != nil {
			return nil, err
		}
		ids = append(ids, constraint.ID())
	}
	return ids, nil
}
