// 指示: miu200521358
// Package messages は結果表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "スケルトン記述を読み込み、指定した筋肉リグを生成します"

	LabelSkeletonPath = "スケルトン記述"
	LabelMuscle       = "筋肉種別"
	LabelSide         = "左右"
	LabelCompression  = "圧縮率"
	LabelStretch      = "伸長率"
	LabelAutoMirror   = "自動ミラー"
	LabelOutputPath   = "リグ出力"

	MessageLoadFailed      = "読み込み失敗"
	MessageCreateFailed    = "筋肉生成失敗"
	MessageMirrorFailed    = "ミラー失敗"
	MessageFinalizeFailed  = "確定失敗"
	MessageDeleteFailed    = "削除失敗"
	MessageExportFailed    = "保存失敗"
	MessageMuscleRequired  = "筋肉種別を指定してください"
	MessageUnknownSide     = "左右の指定が不正です: %s"
	MessageMissingJoints   = "見つからない関節: %s"
	MessageClampedValue    = "範囲外の値を補正しました: %s"
	MessageReplaced        = "既存の %s を置き換えました"
	MessageNothingToDelete = "削除対象の筋肉リグはありません"
	MessageScapulaFailed   = "肩甲骨関節追加失敗"
	MessageScapulaMissing  = "肩甲骨ロケーターがありません: %s"

	LogSkeletonLoaded    = "スケルトン読み込み成功: %s (関節 %d)"
	LogCreateSuccess     = "筋肉生成成功: %s (ノード %d / コンストレイント %d)"
	LogMirrorSuccess     = "ミラー成功: %s → %s"
	LogFinalizeSuccess   = "確定成功: %d 件 (スキップ %d / 失敗 %d)"
	LogDeleteSuccess     = "削除成功: %d 件 (ノード %d)"
	LogRefreshResult     = "再検証: %d 件 (古い状態 %d / 復帰 %d)"
	LogStaleInstance     = "古い状態: %s (見つからない関節: %s)"
	LogExportSuccess     = "リグ保存成功: %s"
	LogInstanceSummary   = "%s: %s パーツ %d ノード %d 圧縮率 %.2f 伸長率 %.2f"
	LogProgressPrimitive = "構築: %s %s (ノード %d)"
	LogScapulaAdded      = "肩甲骨関節追加成功: %s (%s)"
)
