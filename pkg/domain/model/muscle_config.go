// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
)

// MinChainLength はチェーン関節数の下限。
const MinChainLength = 2

// ValueRange は閉区間を表す。
type ValueRange struct {
	Min float64
	Max float64
}

// Clamp は値を区間内に収める。
func (r ValueRange) Clamp(value float64) float64 {
	return mmath.Clamped(value, r.Min, r.Max)
}

// Contains は値が区間内か判定する。
func (r ValueRange) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// AnchorSpec はアンカー位置の指定を表す。
// Joint から Toward へ Ratio だけ進んだ点に Offset (左側基準、右はX反転) を加えた位置になる。
type AnchorSpec struct {
	Joint  JointPattern
	Toward JointPattern
	Ratio  float64
	Offset mmath.Vec3
}

// Patterns は参照する関節名テンプレートを返す。
func (a AnchorSpec) Patterns() []JointPattern {
	if a.Toward == "" {
		return []JointPattern{a.Joint}
	}
	return []JointPattern{a.Joint, a.Toward}
}

// MusclePartConfig は筋肉パーツ1本分の定義を表す。
type MusclePartConfig struct {
	Name              string
	Origin            AnchorSpec
	Insertion         AnchorSpec
	StretchOffset     mmath.Vec3
	CompressionOffset mmath.Vec3
}

// BridgeConfig は確定時にパーツ間へ張る位置拘束の定義を表す。
type BridgeConfig struct {
	Driven  string
	Between []string
}

// MuscleConfig は筋肉種別ごとの不変な定義を表す。
type MuscleConfig struct {
	Type               MuscleType
	DisplayName        string
	ColorTag           string
	ChainLength        int
	BlendWeight        float64
	CompressionRange   ValueRange
	StretchRange       ValueRange
	DefaultCompression float64
	DefaultStretch     float64
	SideTokens         SideTokens
	Bilateral          bool
	Parts              []MusclePartConfig
	Bridges            []BridgeConfig
}

// PartCount はパーツ数を返す。
func (c *MuscleConfig) PartCount() int {
	return len(c.Parts)
}

// Part は名前でパーツ定義を返す。
func (c *MuscleConfig) Part(name string) (*MusclePartConfig, bool) {
	for i := range c.Parts {
		if c.Parts[i].Name == name {
			return &c.Parts[i], true
		}
	}
	return nil, false
}

// ClampCompression は圧縮率を範囲内に収める。
func (c *MuscleConfig) ClampCompression(value float64) float64 {
	if !mmath.IsFinite(value) {
		return c.DefaultCompression
	}
	return c.CompressionRange.Clamp(value)
}

// ClampStretch は伸長率を範囲内に収める。
func (c *MuscleConfig) ClampStretch(value float64) float64 {
	if !mmath.IsFinite(value) {
		return c.DefaultStretch
	}
	return c.StretchRange.Clamp(value)
}

// Validate は定義を検証する。
func (c *MuscleConfig) Validate() error {
	subject := string(c.Type)
	fail := func(field, reason string) error {
		return &merrors.ConfigError{Subject: subject, Field: field, Reason: reason}
	}

	if !c.Type.IsValid() {
		return fail("type", "未知の筋肉種別です")
	}
	if err := c.SideTokens.Validate(); err != nil {
		return fail("sideTokens", err.Error())
	}
	if c.ChainLength < MinChainLength {
		return fail("chainLength", fmt.Sprintf("%d 以上である必要があります: %d", MinChainLength, c.ChainLength))
	}
	if c.BlendWeight < 0 || c.BlendWeight > 1 {
		return fail("blendWeight", fmt.Sprintf("0〜1 の範囲外です: %f", c.BlendWeight))
	}
	if err := validateRange(c.CompressionRange, c.DefaultCompression); err != nil {
		return fail("compression", err.Error())
	}
	if err := validateRange(c.StretchRange, c.DefaultStretch); err != nil {
		return fail("stretch", err.Error())
	}
	if len(c.Parts) == 0 {
		return fail("parts", "パーツが定義されていません")
	}

	seen := map[string]struct{}{}
	sided := false
	for i, part := range c.Parts {
		field := fmt.Sprintf("parts[%d]", i)
		if part.Name == "" {
			return fail(field, "パーツ名が空です")
		}
		if _, exists := seen[part.Name]; exists {
			return fail(field, fmt.Sprintf("パーツ名が重複しています: %s", part.Name))
		}
		seen[part.Name] = struct{}{}
		for _, anchor := range []AnchorSpec{part.Origin, part.Insertion} {
			for _, pattern := range anchor.Patterns() {
				if err := pattern.Validate(); err != nil {
					return fail(field, err.Error())
				}
				sided = sided || pattern.IsSided()
			}
			if !mmath.IsFinite(anchor.Ratio) {
				return fail(field, "ratio が有限値ではありません")
			}
		}
	}
	if c.Bilateral != sided {
		return fail("parts", "左右指定の有無と関節名テンプレートが一致しません")
	}

	for i, bridge := range c.Bridges {
		field := fmt.Sprintf("bridges[%d]", i)
		if _, ok := seen[bridge.Driven]; !ok {
			return fail(field, fmt.Sprintf("未知のパーツです: %s", bridge.Driven))
		}
		if len(bridge.Between) == 0 {
			return fail(field, "接続先パーツがありません")
		}
		for _, name := range bridge.Between {
			if _, ok := seen[name]; !ok {
				return fail(field, fmt.Sprintf("未知のパーツです: %s", name))
			}
			if name == bridge.Driven {
				return fail(field, fmt.Sprintf("自身には接続できません: %s", name))
			}
		}
	}
	return nil
}

// validateRange は範囲と既定値を検証する。
func validateRange(r ValueRange, defaultValue float64) error {
	if !mmath.IsFinite(r.Min) || !mmath.IsFinite(r.Max) || r.Min <= 0 || r.Min > r.Max {
		return fmt.Errorf("範囲が不正です: [%f, %f]", r.Min, r.Max)
	}
	if !r.Contains(defaultValue) {
		return fmt.Errorf("既定値が範囲外です: %f", defaultValue)
	}
	return nil
}
