// 指示: miu200521358
package io_config

import (
	"fmt"
	"strings"

	"gopkg.in/Knetic/govaluate.v3"
	"gopkg.in/yaml.v3"
)

// ratioExpr は割合を表す数値または四則演算式。例: 0.5, "5/6"。
type ratioExpr string

// UnmarshalYAML は数値・文字列どちらのスカラーも受け付ける。
func (r *ratioExpr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("ratio はスカラーである必要があります: line=%d", node.Line)
	}
	*r = ratioExpr(node.Value)
	return nil
}

// Evaluate は式を評価して割合を返す。未指定は0。
func (r ratioExpr) Evaluate() (float64, error) {
	text := strings.TrimSpace(string(r))
	if text == "" {
		return 0, nil
	}
	expression, err := govaluate.NewEvaluableExpression(text)
	if err != nil {
		return 0, fmt.Errorf("ratio 式の解析に失敗しました: %s: %w", text, err)
	}
	if len(expression.Vars()) > 0 {
		return 0, fmt.Errorf("ratio 式に変数は使用できません: %s", text)
	}
	result, err := expression.Evaluate(map[string]interface{}{})
	if err != nil {
		return 0, fmt.Errorf("ratio 式の評価に失敗しました: %s: %w", text, err)
	}
	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("ratio 式の結果が数値ではありません: %s", text)
	}
	return value, nil
}
