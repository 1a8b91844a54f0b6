// 指示: miu200521358
package model

import (
	"fmt"
	"sort"
)

// InstanceState は筋肉インスタンスの状態を表す。
type InstanceState int

const (
	// InstanceStateUninstantiated は未生成。
	InstanceStateUninstantiated InstanceState = iota
	// InstanceStateBuilding は構築中。
	InstanceStateBuilding
	// InstanceStateLive は編集可能な生成済み状態。
	InstanceStateLive
	// InstanceStateFinalized は確定済み(終端)。
	InstanceStateFinalized
	// InstanceStateDeleted は削除済み。
	InstanceStateDeleted
	// InstanceStateFailed は構築失敗(巻き戻し済み)。
	InstanceStateFailed
)

// String は文字列表現を返す。
func (s InstanceState) String() string {
	switch s {
	case InstanceStateUninstantiated:
		return "uninstantiated"
	case InstanceStateBuilding:
		return "building"
	case InstanceStateLive:
		return "live"
	case InstanceStateFinalized:
		return "finalized"
	case InstanceStateDeleted:
		return "deleted"
	case InstanceStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// instanceTransitions は許可される状態遷移。
var instanceTransitions = map[InstanceState][]InstanceState{
	InstanceStateUninstantiated: {InstanceStateBuilding},
	InstanceStateBuilding:       {InstanceStateLive, InstanceStateFailed},
	InstanceStateLive:           {InstanceStateFinalized, InstanceStateDeleted},
	InstanceStateFinalized:      {InstanceStateDeleted},
}

// InstanceKey は筋肉インスタンスの登録キーを表す。
type InstanceKey struct {
	Type MuscleType
	Side Side
}

// String は文字列表現を返す。
func (k InstanceKey) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.Side)
}

// MuscleInstance は筋肉種別と左右で一意な筋肉リグを表す。パーツを排他的に所有する。
type MuscleInstance struct {
	key                  InstanceKey
	Parts                []*MusclePrimitive
	ClosingConstraintIDs []string
	Bridges              []BridgeConfig
	state                InstanceState
	stale                bool
	missingJoints        []string
	compression          float64
	stretch              float64
}

// NewMuscleInstance は未生成状態のインスタンスを生成する。
func NewMuscleInstance(key InstanceKey, compression, stretch float64) *MuscleInstance {
	return &MuscleInstance{
		key:         key,
		state:       InstanceStateUninstantiated,
		compression: compression,
		stretch:     stretch,
	}
}

// Key は登録キーを返す。
func (i *MuscleInstance) Key() InstanceKey {
	return i.key
}

// State は状態を返す。
func (i *MuscleInstance) State() InstanceState {
	return i.state
}

// Transition は状態を遷移する。許可されない遷移はエラー。
func (i *MuscleInstance) Transition(to InstanceState) error {
	for _, allowed := range instanceTransitions[i.state] {
		if allowed == to {
			i.state = to
			return nil
		}
	}
	return fmt.Errorf("状態遷移が不正です: %s -> %s (%s)", i.state, to, i.key)
}

// IsFinalized は確定済みか判定する。
func (i *MuscleInstance) IsFinalized() bool {
	return i.state == InstanceStateFinalized
}

// IsBuilt は生成済み(編集可能または確定済み)か判定する。
func (i *MuscleInstance) IsBuilt() bool {
	return i.state == InstanceStateLive || i.state == InstanceStateFinalized
}

// Stale はアンカー喪失で古くなっているか判定する。
func (i *MuscleInstance) Stale() bool {
	return i.stale
}

// MissingJoints は古くなった原因の関節名を返す。
func (i *MuscleInstance) MissingJoints() []string {
	names := make([]string, len(i.missingJoints))
	copy(names, i.missingJoints)
	return names
}

// MarkStale はアンカー喪失を記録する。
func (i *MuscleInstance) MarkStale(missingJoints []string) {
	i.stale = true
	i.missingJoints = append([]string(nil), missingJoints...)
	sort.Strings(i.missingJoints)
}

// ClearStale はアンカー喪失の記録を消す。
func (i *MuscleInstance) ClearStale() {
	i.stale = false
	i.missingJoints = nil
}

// Compression は圧縮率を返す。
func (i *MuscleInstance) Compression() float64 {
	return i.compression
}

// Stretch は伸長率を返す。
func (i *MuscleInstance) Stretch() float64 {
	return i.stretch
}

// SetCompression は範囲に収めた圧縮率を全パーツへ設定する。
func (i *MuscleInstance) SetCompression(value float64, valueRange ValueRange) float64 {
	i.compression = valueRange.Clamp(value)
	for _, part := range i.Parts {
		part.SetCompression(i.compression, valueRange)
	}
	return i.compression
}

// SetStretch は範囲に収めた伸長率を全パーツへ設定する。
func (i *MuscleInstance) SetStretch(value float64, valueRange ValueRange) float64 {
	i.stretch = valueRange.Clamp(value)
	for _, part := range i.Parts {
		part.SetStretch(i.stretch, valueRange)
	}
	return i.stretch
}

// Part はパーツ名でプリミティブを返す。
func (i *MuscleInstance) Part(name string) (*MusclePrimitive, bool) {
	for _, part := range i.Parts {
		if part.PartName == name {
			return part, true
		}
	}
	return nil, false
}

// NodeCount は所有ノード数を返す。
func (i *MuscleInstance) NodeCount() int {
	count := 0
	for _, part := range i.Parts {
		count += len(part.NodeIDs())
	}
	return count
}

// ConstraintCount は所有コンストレイント数を返す。
func (i *MuscleInstance) ConstraintCount() int {
	count := len(i.ClosingConstraintIDs)
	for _, part := range i.Parts {
		count += len(part.ConstraintIDs)
	}
	return count
}

// AnchorJoints は全パーツが参照する関節を重複なしで返す。
func (i *MuscleInstance) AnchorJoints() []JointRef {
	seen := map[string]struct{}{}
	refs := make([]JointRef, 0, len(i.Parts)*2)
	for _, part := range i.Parts {
		for _, ref := range part.AnchorJoints() {
			if _, exists := seen[ref.Name]; exists {
				continue
			}
			seen[ref.Name] = struct{}{}
			refs = append(refs, ref)
		}
	}
	return refs
}

// PrimitiveNames はパーツのプリミティブ名を返す。
func (i *MuscleInstance) PrimitiveNames() []string {
	names := make([]string, 0, len(i.Parts))
	for _, part := range i.Parts {
		names = append(names, part.Name)
	}
	return names
}
