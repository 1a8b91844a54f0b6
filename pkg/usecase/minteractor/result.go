// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_muscle/pkg/domain/model"

// RigProgressEventType は筋肉リグ操作の進捗イベント種別を表す。
type RigProgressEventType string

const (
	// RigProgressEventTypeAnchorsResolved はアンカー解決完了イベントを表す。
	RigProgressEventTypeAnchorsResolved RigProgressEventType = "anchors_resolved"
	// RigProgressEventTypePrimitiveBuilt はプリミティブ構築完了イベントを表す。
	RigProgressEventTypePrimitiveBuilt RigProgressEventType = "primitive_built"
	// RigProgressEventTypeInstanceReplaced は既存インスタンス置換イベントを表す。
	RigProgressEventTypeInstanceReplaced RigProgressEventType = "instance_replaced"
	// RigProgressEventTypeInstanceRegistered はインスタンス登録完了イベントを表す。
	RigProgressEventTypeInstanceRegistered RigProgressEventType = "instance_registered"
	// RigProgressEventTypeInstanceMirrored はミラー完了イベントを表す。
	RigProgressEventTypeInstanceMirrored RigProgressEventType = "instance_mirrored"
	// RigProgressEventTypeInstanceFinalized は確定完了イベントを表す。
	RigProgressEventTypeInstanceFinalized RigProgressEventType = "instance_finalized"
	// RigProgressEventTypeInstanceDeleted は削除完了イベントを表す。
	RigProgressEventTypeInstanceDeleted RigProgressEventType = "instance_deleted"
)

// RigProgressEvent は筋肉リグ操作の進捗イベントを表す。
type RigProgressEvent struct {
	Type      RigProgressEventType
	Key       model.InstanceKey
	PartName  string
	NodeCount int
}

// IRigProgressReporter は筋肉リグ操作の進捗通知契約を表す。
type IRigProgressReporter interface {
	// ReportRigProgress は進捗を通知する。
	ReportRigProgress(event RigProgressEvent)
}

// CreateRequest は筋肉生成要求を表す。
type CreateRequest struct {
	Type             model.MuscleType
	Side             model.Side
	Compression      float64
	Stretch          float64
	ProgressReporter IRigProgressReporter
}

// InstanceSummary は筋肉インスタンスの要約を表す。
type InstanceSummary struct {
	Key             model.InstanceKey
	State           model.InstanceState
	Stale           bool
	PartCount       int
	NodeCount       int
	ConstraintCount int
	Compression     float64
	Stretch         float64
	PrimitiveNames  []string
}

// CreateResult は筋肉生成結果を表す。
type CreateResult struct {
	Instance               InstanceSummary
	CreatedNodeCount       int
	CreatedConstraintCount int
	Replaced               bool
	RemovedNodeCount       int
	Warnings               []string
}

// MirrorResult はミラー結果を表す。
type MirrorResult struct {
	Source  model.InstanceKey
	Created *CreateResult
}

// FinalizeResult は確定結果を表す。
type FinalizeResult struct {
	Finalized              []model.InstanceKey
	Skipped                []model.InstanceKey
	Failed                 []model.InstanceKey
	ClosingConstraintCount int
	LockedNodeCount        int
}

// DeleteResult は削除結果を表す。
type DeleteResult struct {
	Deleted                []model.InstanceKey
	RemovedNodeCount       int
	RemovedConstraintCount int
}

// StaleInstance はアンカーを失ったインスタンスを表す。
type StaleInstance struct {
	Key           model.InstanceKey
	MissingJoints []string
}

// RefreshResult は再検証結果を表す。
type RefreshResult struct {
	Checked   int
	Stale     []StaleInstance
	Recovered []model.InstanceKey
}

// ParameterResult は圧縮率・伸長率の変更結果を表す。
type ParameterResult struct {
	Key         model.InstanceKey
	Compression float64
	Stretch     float64
	Warnings    []string
}

// EvaluateResult は姿勢評価結果を表す。
type EvaluateResult struct {
	Key   model.InstanceKey
	Poses []PrimitivePose
}

// summarizeInstance はインスタンスの要約を作る。
func summarizeInstance(instance *model.MuscleInstance) InstanceSummary {
	return InstanceSummary{
		Key:             instance.Key(),
		State:           instance.State(),
		Stale:           instance.Stale(),
		PartCount:       len(instance.Parts),
		NodeCount:       instance.NodeCount(),
		ConstraintCount: instance.ConstraintCount(),
		Compression:     instance.Compression(),
		Stretch:         instance.Stretch(),
		PrimitiveNames:  instance.PrimitiveNames(),
	}
}

// reportRigProgress は通知先があれば進捗を通知する。
func reportRigProgress(reporter IRigProgressReporter, event RigProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportRigProgress(event)
}
