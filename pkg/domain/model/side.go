// 指示: miu200521358
package model

import (
	"fmt"
	"strings"
)

// Side は左右の区分を表す。
type Side int

const (
	// SideNone は中央(左右なし)を表す。
	SideNone Side = iota
	// SideLeft は左を表す。
	SideLeft
	// SideRight は右を表す。
	SideRight
)

// Name は表示名を返す。中央は空文字。
func (s Side) Name() string {
	switch s {
	case SideLeft:
		return "Left"
	case SideRight:
		return "Right"
	default:
		return ""
	}
}

// String は文字列表現を返す。
func (s Side) String() string {
	if s == SideNone {
		return "None"
	}
	return s.Name()
}

// IsSided は左右どちらかか判定する。
func (s Side) IsSided() bool {
	return s == SideLeft || s == SideRight
}

// Opposite は反対側を返す。中央には反対側がない。
func (s Side) Opposite() (Side, bool) {
	switch s {
	case SideLeft:
		return SideRight, true
	case SideRight:
		return SideLeft, true
	default:
		return SideNone, false
	}
}

// Sign はX方向オフセットの符号を返す。右のみ -1。
func (s Side) Sign() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

// ParseSide は文字列から左右区分を解釈する。
func ParseSide(value string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "l":
		return SideLeft, nil
	case "right", "r":
		return SideRight, nil
	case "", "none", "center", "centre":
		return SideNone, nil
	default:
		return SideNone, fmt.Errorf("左右指定が不正です: %s", value)
	}
}

// SideTokens は関節名テンプレートの {Side} に埋め込む左右トークンを表す。
type SideTokens struct {
	Left  string `yaml:"left" json:"left"`
	Right string `yaml:"right" json:"right"`
}

// DefaultSideTokens は既定の左右トークン。
var DefaultSideTokens = SideTokens{Left: "L", Right: "R"}

// Token は左右区分に対応するトークンを返す。
func (t SideTokens) Token(side Side) (string, bool) {
	switch side {
	case SideLeft:
		return t.Left, true
	case SideRight:
		return t.Right, true
	default:
		return "", false
	}
}

// Validate はトークンが空でなく左右で異なることを検証する。
func (t SideTokens) Validate() error {
	if t.Left == "" || t.Right == "" {
		return fmt.Errorf("左右トークンが未設定です: left=%q right=%q", t.Left, t.Right)
	}
	if t.Left == t.Right {
		return fmt.Errorf("左右トークンが重複しています: %q", t.Left)
	}
	if strings.ContainsAny(t.Left+t.Right, "{}") {
		return fmt.Errorf("左右トークンに波括弧は使用できません: left=%q right=%q", t.Left, t.Right)
	}
	return nil
}
