// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"go.uber.org/zap"
)

// ScapulaResult は肩甲骨補助関節の追加結果を表す。
type ScapulaResult struct {
	Side   model.Side
	Joints []string
}

// AddScapulaJoints はロケーター位置に肩甲骨補助関節を追加する。
func (uc *MuscleRigUsecase) AddScapulaJoints(session *RigSession, side model.Side, locators model.ScapulaLocators) (*ScapulaResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	joints, err := uc.scapulaRig.AddJoints(session.scene, side, locators)
	if err != nil {
		return nil, fmt.Errorf("肩甲骨補助関節の追加に失敗しました: %s: %w", side, err)
	}
	uc.log().Info("肩甲骨補助関節を追加しました", zap.Stringer("side", side), zap.Strings("joints", joints))
	return &ScapulaResult{Side: side, Joints: joints}, nil
}

// MirrorScapulaJoints は元側の肩甲骨補助関節を反対側へミラーする。
func (uc *MuscleRigUsecase) MirrorScapulaJoints(session *RigSession, source model.Side) (*ScapulaResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	target, joints, err := uc.scapulaRig.MirrorJoints(session.scene, source)
	if err != nil {
		return nil, fmt.Errorf("肩甲骨補助関節のミラーに失敗しました: %s: %w", source, err)
	}
	uc.log().Info("肩甲骨補助関節をミラーしました",
		zap.Stringer("source", source),
		zap.Stringer("target", target),
		zap.Strings("joints", joints))
	return &ScapulaResult{Side: target, Joints: joints}, nil
}
