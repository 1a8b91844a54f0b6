// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_muscle/pkg/usecase/port/moutput"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Delete は登録済みインスタンスを削除する。確定済みでも削除できる。
func (uc *MuscleRigUsecase) Delete(session *RigSession, key model.InstanceKey, reporter IRigProgressReporter) (*DeleteResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	instance, ok := session.registry.Get(key)
	if !ok {
		return nil, &merrors.InstanceNotFoundError{Key: key.String()}
	}
	result := &DeleteResult{}
	err := uc.deleteLocked(session, instance, result, reporter)
	return result, err
}

// DeleteAll は登録済みの全インスタンスを生成の逆順で削除する。
// 個別の失敗があっても残りの削除を続け、レジストリは空になる。
func (uc *MuscleRigUsecase) DeleteAll(session *RigSession, reporter IRigProgressReporter) (*DeleteResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	result := &DeleteResult{}
	instances := session.registry.Instances()
	var err error
	for i := len(instances) - 1; i >= 0; i-- {
		err = multierr.Append(err, uc.deleteLocked(session, instances[i], result, reporter))
	}
	uc.log().Info("筋肉リグを一括削除しました",
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("nodes", result.RemovedNodeCount),
		zap.Int("constraints", result.RemovedConstraintCount))
	return result, err
}

// deleteLocked はインスタンスをシーンから取り除き、登録を解除する。
func (uc *MuscleRigUsecase) deleteLocked(session *RigSession, instance *model.MuscleInstance, result *DeleteResult, reporter IRigProgressReporter) error {
	key := instance.Key()
	removedNodes, removedConstraints, err := teardownInstance(session.scene, instance)
	result.RemovedNodeCount += removedNodes
	result.RemovedConstraintCount += removedConstraints
	session.registry.Unregister(key)
	err = multierr.Append(err, instance.Transition(model.InstanceStateDeleted))
	result.Deleted = append(result.Deleted, key)

	reportRigProgress(reporter, RigProgressEvent{Type: RigProgressEventTypeInstanceDeleted, Key: key, NodeCount: removedNodes})
	if err != nil {
		uc.log().Warn("筋肉リグの削除で問題が発生しました", zap.Stringer("key", key), zap.Error(err))
		return fmt.Errorf("筋肉リグの削除に失敗しました: %s: %w", key, err)
	}
	uc.log().Info("筋肉リグを削除しました", zap.Stringer("key", key), zap.Int("nodes", removedNodes))
	return nil
}

// teardownInstance はインスタンスが所有するコンストレイントとノードを生成の逆順で取り除く。
func teardownInstance(scene moutput.IScene, instance *model.MuscleInstance) (int, int, error) {
	removedNodes := 0
	removedConstraints := 0
	var err error
	removeConstraint := func(id string) {
		if removeErr := scene.RemoveConstraint(id); removeErr != nil {
			err = multierr.Append(err, removeErr)
			return
		}
		removedConstraints++
	}

	for i := len(instance.ClosingConstraintIDs) - 1; i >= 0; i-- {
		removeConstraint(instance.ClosingConstraintIDs[i])
	}
	for i := len(instance.Parts) - 1; i >= 0; i-- {
		part := instance.Parts[i]
		for j := len(part.ConstraintIDs) - 1; j >= 0; j-- {
			removeConstraint(part.ConstraintIDs[j])
		}
	}
	for i := len(instance.Parts) - 1; i >= 0; i-- {
		nodeIDs := instance.Parts[i].NodeIDs()
		for j := len(nodeIDs) - 1; j >= 0; j-- {
			if removeErr := scene.RemoveNode(nodeIDs[j]); removeErr != nil {
				err = multierr.Append(err, removeErr)
				continue
			}
			removedNodes++
		}
	}
	return removedNodes, removedConstraints, err
}

// Refresh は全インスタンスのアンカーを再検証し、解決できないものを古い状態として記録する。
// 古くなったインスタンスは削除しない。
func (uc *MuscleRigUsecase) Refresh(session *RigSession) *RefreshResult {
	session.mu.Lock()
	defer session.mu.Unlock()

	accessor := NewSkeletonAccessor(session.scene)
	result := &RefreshResult{}
	for _, instance := range session.registry.Instances() {
		result.Checked++
		if err := accessor.Validate(instance.AnchorJoints()); err != nil {
			missing := merrors.MissingJoints(err)
			instance.MarkStale(missing)
			result.Stale = append(result.Stale, StaleInstance{Key: instance.Key(), MissingJoints: missing})
			uc.log().Warn("筋肉リグのアンカーが見つかりません",
				zap.String("warning", model.RigWarningInstanceStale),
				zap.Stringer("key", instance.Key()),
				zap.Strings("missing", missing))
			continue
		}
		if instance.Stale() {
			instance.ClearStale()
			result.Recovered = append(result.Recovered, instance.Key())
		}
		if err := applyInstancePose(session.scene, accessor, instance); err != nil {
			uc.log().Warn("筋肉リグの姿勢反映に失敗しました", zap.Stringer("key", instance.Key()), zap.Error(err))
		}
	}
	uc.log().Info("筋肉リグを再検証しました", zap.Int("checked", result.Checked), zap.Int("stale", len(result.Stale)))
	return result
}

// SetCompression は圧縮率を範囲に収めて設定する。非有限値は既定値になる。確定済みインスタンスは変更できない。
func (uc *MuscleRigUsecase) SetCompression(session *RigSession, key model.InstanceKey, value float64) (*ParameterResult, error) {
	return uc.updateParameter(session, key, func(instance *model.MuscleInstance, cfg *model.MuscleConfig) []string {
		if instance.SetCompression(cfg.ClampCompression(value), cfg.CompressionRange) != value {
			return []string{model.RigWarningCompressionClamped}
		}
		return nil
	})
}

// SetStretch は伸長率を範囲に収めて設定する。非有限値は既定値になる。確定済みインスタンスは変更できない。
func (uc *MuscleRigUsecase) SetStretch(session *RigSession, key model.InstanceKey, value float64) (*ParameterResult, error) {
	return uc.updateParameter(session, key, func(instance *model.MuscleInstance, cfg *model.MuscleConfig) []string {
		if instance.SetStretch(cfg.ClampStretch(value), cfg.StretchRange) != value {
			return []string{model.RigWarningStretchClamped}
		}
		return nil
	})
}

// updateParameter はパラメータ変更の共通処理を行う。
func (uc *MuscleRigUsecase) updateParameter(
	session *RigSession,
	key model.InstanceKey,
	apply func(instance *model.MuscleInstance, cfg *model.MuscleConfig) []string,
) (*ParameterResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	instance, ok := session.registry.Get(key)
	if !ok {
		return nil, &merrors.InstanceNotFoundError{Key: key.String()}
	}
	if instance.IsFinalized() {
		return nil, &merrors.FinalizeError{Key: key.String(), Err: merrors.ErrAlreadyFinalized}
	}
	if !instance.IsBuilt() {
		return nil, &merrors.FinalizeError{Key: key.String(), Err: merrors.ErrNotBuilt}
	}
	accessor := NewSkeletonAccessor(session.scene)
	if err := accessor.Validate(instance.AnchorJoints()); err != nil {
		return nil, fmt.Errorf("筋肉リグのパラメータを変更できません: %s: %w", key, err)
	}
	cfg, err := uc.catalogue.Config(key.Type)
	if err != nil {
		return nil, err
	}

	prevCompression, prevStretch := instance.Compression(), instance.Stretch()
	warnings := apply(instance, cfg)
	if err := applyInstancePose(session.scene, accessor, instance); err != nil {
		// 反映に失敗した値は残さない
		instance.SetCompression(prevCompression, cfg.CompressionRange)
		instance.SetStretch(prevStretch, cfg.StretchRange)
		if restoreErr := applyInstancePose(session.scene, accessor, instance); restoreErr != nil {
			uc.log().Warn("筋肉リグの姿勢復元に失敗しました", zap.Stringer("key", key), zap.Error(restoreErr))
		}
		return nil, fmt.Errorf("筋肉リグの姿勢反映に失敗しました: %s: %w", key, err)
	}
	uc.log().Info("筋肉リグのパラメータを変更しました",
		zap.Stringer("key", key),
		zap.Float64("compression", instance.Compression()),
		zap.Float64("stretch", instance.Stretch()))
	return &ParameterResult{
		Key:         key,
		Compression: instance.Compression(),
		Stretch:     instance.Stretch(),
		Warnings:    warnings,
	}, nil
}
