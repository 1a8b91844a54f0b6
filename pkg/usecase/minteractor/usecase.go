// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/shared/base/logging"
	"github.com/miu200521358/mu_muscle/pkg/usecase/port/moutput"
	"go.uber.org/zap"
)

// MuscleRigUsecaseDeps は筋肉リグユースケースの依存を表す。
type MuscleRigUsecaseDeps struct {
	Catalogue  moutput.IMuscleCatalogue
	RigWriter  moutput.IRigWriter
	Logger     *zap.Logger
	// ScapulaRig は肩甲骨補助関節の命名。未指定時は model.DefaultScapulaRig。
	ScapulaRig *model.ScapulaRig
}

// MuscleRigUsecase は筋肉リグの生成・ミラー・確定・削除・再検証をまとめたユースケースを表す。
type MuscleRigUsecase struct {
	catalogue  moutput.IMuscleCatalogue
	rigWriter  moutput.IRigWriter
	logger     *zap.Logger
	scapulaRig model.ScapulaRig
}

// NewMuscleRigUsecase は筋肉リグユースケースを生成する。
func NewMuscleRigUsecase(deps MuscleRigUsecaseDeps) *MuscleRigUsecase {
	scapulaRig := model.DefaultScapulaRig
	if deps.ScapulaRig != nil {
		scapulaRig = *deps.ScapulaRig
	}
	return &MuscleRigUsecase{
		catalogue:  deps.Catalogue,
		rigWriter:  deps.RigWriter,
		logger:     deps.Logger,
		scapulaRig: scapulaRig,
	}
}

// log は出力先ロガーを返す。未指定時は既定ロガー。
func (uc *MuscleRigUsecase) log() *zap.Logger {
	if uc.logger != nil {
		return uc.logger
	}
	return logging.DefaultLogger()
}
