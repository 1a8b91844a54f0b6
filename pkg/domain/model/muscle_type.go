// 指示: miu200521358
package model

import (
	"fmt"
	"strings"
)

// MuscleType は筋肉種別を表す。
type MuscleType string

const (
	// MuscleTypeTrapezius は僧帽筋。
	MuscleTypeTrapezius MuscleType = "Trapezius"
	// MuscleTypeLatissimusDorsi は広背筋。
	MuscleTypeLatissimusDorsi MuscleType = "LatissimusDorsi"
	// MuscleTypeTeresMajor は大円筋。
	MuscleTypeTeresMajor MuscleType = "TeresMajor"
	// MuscleTypePectoralisMajor は大胸筋。
	MuscleTypePectoralisMajor MuscleType = "PectoralisMajor"
	// MuscleTypeDeltoid は三角筋。
	MuscleTypeDeltoid MuscleType = "Deltoid"
	// MuscleTypeUpperArm は上腕(二頭筋・三頭筋)。
	MuscleTypeUpperArm MuscleType = "UpperArm"
)

// AllMuscleTypes は全筋肉種別を定義順で返す。
func AllMuscleTypes() []MuscleType {
	return []MuscleType{
		MuscleTypeTrapezius,
		MuscleTypeLatissimusDorsi,
		MuscleTypeTeresMajor,
		MuscleTypePectoralisMajor,
		MuscleTypeDeltoid,
		MuscleTypeUpperArm,
	}
}

// IsValid は既知の筋肉種別か判定する。
func (t MuscleType) IsValid() bool {
	for _, known := range AllMuscleTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseMuscleType は大文字小文字を区別せずに筋肉種別を解釈する。
func ParseMuscleType(value string) (MuscleType, error) {
	normalized := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(value))
	for _, known := range AllMuscleTypes() {
		if strings.ToLower(string(known)) == normalized {
			return known, nil
		}
	}
	return "", fmt.Errorf("筋肉種別が不正です: %s", value)
}

// MuscleGroup は複数の筋肉種別をまとめた指定名を表す。
type MuscleGroup string

const (
	// MuscleGroupTorso は体幹(背部・胸部)の筋肉。
	MuscleGroupTorso MuscleGroup = "torso"
	// MuscleGroupArm は腕の筋肉。
	MuscleGroupArm MuscleGroup = "arm"
)

// Types はグループに含まれる筋肉種別を定義順で返す。
func (g MuscleGroup) Types() []MuscleType {
	switch g {
	case MuscleGroupTorso:
		return []MuscleType{MuscleTypeTrapezius, MuscleTypeLatissimusDorsi, MuscleTypeTeresMajor, MuscleTypePectoralisMajor}
	case MuscleGroupArm:
		return []MuscleType{MuscleTypeDeltoid, MuscleTypeUpperArm}
	default:
		return nil
	}
}

// ParseMuscleGroup は大文字小文字を区別せずにグループ名を解釈する。
func ParseMuscleGroup(value string) (MuscleGroup, bool) {
	switch group := MuscleGroup(strings.ToLower(strings.TrimSpace(value))); group {
	case MuscleGroupTorso, MuscleGroupArm:
		return group, true
	default:
		return "", false
	}
}
