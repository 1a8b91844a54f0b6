// 指示: miu200521358
package model

import (
	"fmt"
	"strings"
)

// SideSlot は関節名テンプレート内の左右差し込み位置。
const SideSlot = "{Side}"

// JointPattern は関節名テンプレートを表す。例: "Clavicle_{Side}"。
type JointPattern string

// IsSided は左右差し込み位置を持つか判定する。
func (p JointPattern) IsSided() bool {
	return strings.Contains(string(p), SideSlot)
}

// Validate はテンプレートの構文を検証する。
func (p JointPattern) Validate() error {
	value := string(p)
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("関節名テンプレートが空です")
	}
	if strings.Count(value, SideSlot) > 1 {
		return fmt.Errorf("関節名テンプレートに {Side} が複数あります: %s", value)
	}
	rest := strings.Replace(value, SideSlot, "", 1)
	if strings.ContainsAny(rest, "{}") {
		return fmt.Errorf("関節名テンプレートに未知の差し込み位置があります: %s", value)
	}
	return nil
}

// Resolve は左右トークンを埋め込んだ関節名を返す。
func (p JointPattern) Resolve(side Side, tokens SideTokens) (string, error) {
	if !p.IsSided() {
		return string(p), nil
	}
	token, ok := tokens.Token(side)
	if !ok {
		return "", fmt.Errorf("左右指定なしでは関節名を解決できません: %s", string(p))
	}
	return strings.Replace(string(p), SideSlot, token, 1), nil
}
