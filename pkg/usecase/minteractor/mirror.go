// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"go.uber.org/zap"
)

// Mirror は登録済みインスタンスと同じ種別・圧縮率・伸長率で反対側を生成する。
// 反対側のアンカーは名前から解決し直し、ジオメトリは複製しない。
func (uc *MuscleRigUsecase) Mirror(session *RigSession, key model.InstanceKey, reporter IRigProgressReporter) (*MirrorResult, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return uc.mirrorLocked(session, key, reporter)
}

// mirrorLocked はロック取得済みの状態でミラーを行う。
func (uc *MuscleRigUsecase) mirrorLocked(session *RigSession, key model.InstanceKey, reporter IRigProgressReporter) (*MirrorResult, error) {
	opposite, ok := key.Side.Opposite()
	mirrorErr := func(err error) error {
		return &merrors.MirrorError{MuscleType: string(key.Type), From: key.Side.String(), To: opposite.String(), Err: err}
	}

	source, exists := session.registry.Get(key)
	if !exists {
		return nil, mirrorErr(&merrors.InstanceNotFoundError{Key: key.String()})
	}
	if !ok {
		return nil, mirrorErr(fmt.Errorf("中央の筋肉には反対側がありません"))
	}

	created, err := uc.createLocked(session, CreateRequest{
		Type:             key.Type,
		Side:             opposite,
		Compression:      source.Compression(),
		Stretch:          source.Stretch(),
		ProgressReporter: reporter,
	})
	if err != nil {
		uc.log().Warn("筋肉リグのミラーに失敗しました", zap.Stringer("key", key), zap.Error(err))
		return nil, mirrorErr(err)
	}

	reportRigProgress(reporter, RigProgressEvent{Type: RigProgressEventTypeInstanceMirrored, Key: created.Instance.Key, NodeCount: created.CreatedNodeCount})
	uc.log().Info("筋肉リグをミラーしました", zap.Stringer("from", key), zap.Stringer("to", created.Instance.Key))
	return &MirrorResult{Source: key, Created: created}, nil
}
