// 指示: miu200521358
package minteractor

import (
	"errors"
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// partPlan はアンカー解決済みのパーツ1本分を表す。
type partPlan struct {
	config    model.MusclePartConfig
	name      string
	origin    model.AnchorRef
	insertion model.AnchorRef
}

// primitiveName はプリミティブ名を返す。例: LeftDeltoidA。
func primitiveName(muscleType model.MuscleType, side model.Side, partName string) string {
	return side.Name() + string(muscleType) + partName
}

// planParts は全パーツのアンカーを解決する。見つからない関節は重複なしですべて集約する。
func planParts(accessor *SkeletonAccessor, cfg *model.MuscleConfig, side model.Side) ([]partPlan, error) {
	plans := make([]partPlan, 0, len(cfg.Parts))
	missing := map[string]struct{}{}
	var err error
	appendErr := func(resolveErr error) {
		for _, each := range multierr.Errors(resolveErr) {
			var anchorErr *merrors.AnchorNotFoundError
			if errors.As(each, &anchorErr) {
				if _, exists := missing[anchorErr.Name]; exists {
					continue
				}
				missing[anchorErr.Name] = struct{}{}
			}
			err = multierr.Append(err, each)
		}
	}

	for _, part := range cfg.Parts {
		origin, originErr := accessor.ResolveAnchor(part.Origin, side, cfg.SideTokens)
		insertion, insertionErr := accessor.ResolveAnchor(part.Insertion, side, cfg.SideTokens)
		if resolveErr := multierr.Combine(originErr, insertionErr); resolveErr != nil {
			appendErr(resolveErr)
			continue
		}
		plans = append(plans, partPlan{
			config:    part,
			name:      primitiveName(cfg.Type, side, part.Name),
			origin:    origin,
			insertion: insertion,
		})
	}
	return plans, err
}

// Create は筋肉種別と左右から筋肉インスタンスを生成して登録する。
// 同一キーの既存インスタンスは新しいインスタンスの構築に成功した場合のみ置き換える。
func (uc *MuscleRigUsecase) Create(session *RigSession, request CreateRequest) (*CreateResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return uc.createLocked(session, request)
}

// createLocked はロック取得済みの状態で生成を行う。
func (uc *MuscleRigUsecase) createLocked(session *RigSession, request CreateRequest) (*CreateResult, error) {
	key := model.InstanceKey{Type: request.Type, Side: request.Side}
	templateErr := func(err error) error {
		return &merrors.TemplateError{MuscleType: string(request.Type), Side: request.Side.String(), Err: err}
	}

	cfg, err := uc.catalogue.Config(request.Type)
	if err != nil {
		return nil, templateErr(err)
	}
	if cfg.Bilateral && !request.Side.IsSided() {
		return nil, templateErr(fmt.Errorf("左右の指定が必要です"))
	}
	if !cfg.Bilateral && request.Side.IsSided() {
		return nil, templateErr(fmt.Errorf("中央の筋肉に左右は指定できません"))
	}

	warnings := make([]string, 0)
	compression := cfg.ClampCompression(request.Compression)
	if compression != request.Compression {
		warnings = append(warnings, model.RigWarningCompressionClamped)
	}
	stretch := cfg.ClampStretch(request.Stretch)
	if stretch != request.Stretch {
		warnings = append(warnings, model.RigWarningStretchClamped)
	}

	accessor := NewSkeletonAccessor(session.scene)
	plans, err := planParts(accessor, cfg, request.Side)
	if err != nil {
		uc.log().Warn("アンカー関節が見つかりません",
			zap.Stringer("key", key),
			zap.Strings("missing", merrors.MissingJoints(err)))
		return nil, templateErr(err)
	}
	reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeAnchorsResolved, Key: key})

	instance := model.NewMuscleInstance(key, compression, stretch)
	if err := instance.Transition(model.InstanceStateBuilding); err != nil {
		return nil, templateErr(err)
	}

	tx := model.NewSceneTransaction(session.scene)
	builder := NewPrimitiveBuilder(accessor)
	for _, plan := range plans {
		primitive, err := builder.Build(tx, plan.name, plan.origin, plan.insertion, cfg.ChainLength, compression, stretch, PrimitiveBuildOptions{
			PartName:          plan.config.Name,
			BlendWeight:       cfg.BlendWeight,
			StretchOffset:     plan.config.StretchOffset,
			CompressionOffset: plan.config.CompressionOffset,
		})
		if err != nil {
			return nil, templateErr(multierr.Combine(err, uc.failBuilding(instance, tx)))
		}
		instance.Parts = append(instance.Parts, primitive)
		reportRigProgress(request.ProgressReporter, RigProgressEvent{
			Type:      RigProgressEventTypePrimitiveBuilt,
			Key:       key,
			PartName:  plan.config.Name,
			NodeCount: len(primitive.NodeIDs()),
		})
	}
	createdNodes := tx.NodeCount()
	createdConstraints := tx.ConstraintCount()

	result := &CreateResult{
		CreatedNodeCount:       createdNodes,
		CreatedConstraintCount: createdConstraints,
		Warnings:               warnings,
	}

	if prior, exists := session.registry.Get(key); exists {
		removedNodes, _, err := teardownInstance(session.scene, prior)
		if err != nil {
			return nil, templateErr(multierr.Combine(
				fmt.Errorf("既存の筋肉リグの削除に失敗しました: %w", err),
				uc.failBuilding(instance, tx),
			))
		}
		session.registry.Unregister(key)
		if err := prior.Transition(model.InstanceStateDeleted); err != nil {
			uc.log().Warn("置換前の筋肉リグの状態遷移に失敗しました", zap.Stringer("key", key), zap.Error(err))
		}
		result.Replaced = true
		result.RemovedNodeCount = removedNodes
		result.Warnings = append(result.Warnings, model.RigWarningInstanceReplaced)
		reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeInstanceReplaced, Key: key, NodeCount: removedNodes})
	}

	tx.Commit()
	if err := instance.Transition(model.InstanceStateLive); err != nil {
		return nil, templateErr(err)
	}
	if err := session.registry.Register(instance); err != nil {
		return nil, templateErr(err)
	}
	if err := applyInstancePose(session.scene, accessor, instance); err != nil {
		uc.log().Warn("筋肉リグの初期姿勢の反映に失敗しました", zap.Stringer("key", key), zap.Error(err))
	}

	result.Instance = summarizeInstance(instance)
	reportRigProgress(request.ProgressReporter, RigProgressEvent{Type: RigProgressEventTypeInstanceRegistered, Key: key, NodeCount: createdNodes})
	uc.log().Info("筋肉リグを生成しました",
		zap.Stringer("key", key),
		zap.Int("parts", len(instance.Parts)),
		zap.Int("nodes", createdNodes),
		zap.Int("constraints", createdConstraints),
		zap.Float64("compression", compression),
		zap.Float64("stretch", stretch),
		zap.Bool("replaced", result.Replaced))
	return result, nil
}

// failBuilding は構築中のインスタンスを失敗状態にしてシーン変更を取り消す。
func (uc *MuscleRigUsecase) failBuilding(instance *model.MuscleInstance, tx *model.SceneTransaction) error {
	_ = instance.Transition(model.InstanceStateFailed)
	instance.Parts = nil
	if err := tx.Rollback(); err != nil {
		uc.log().Error("シーン変更の取り消しに失敗しました", zap.Stringer("key", instance.Key()), zap.Error(err))
		return fmt.Errorf("シーン変更の取り消しに失敗しました: %w", err)
	}
	return nil
}
