// 指示: miu200521358
package model

const (
	// RigWarningCompressionClamped は圧縮率を範囲内へ丸めた警告。
	RigWarningCompressionClamped = "RigWarningCompressionClamped"
	// RigWarningStretchClamped は伸長率を範囲内へ丸めた警告。
	RigWarningStretchClamped = "RigWarningStretchClamped"
	// RigWarningInstanceReplaced は同一キーの既存インスタンスを置き換えた警告。
	RigWarningInstanceReplaced = "RigWarningInstanceReplaced"
	// RigWarningInstanceStale はアンカー喪失でインスタンスが古くなった警告。
	RigWarningInstanceStale = "RigWarningInstanceStale"
	// RigWarningMirrorSkipped は中央インスタンスのためミラーを行わなかった警告。
	RigWarningMirrorSkipped = "RigWarningMirrorSkipped"
)
