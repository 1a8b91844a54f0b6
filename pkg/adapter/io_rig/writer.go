// 指示: miu200521358
// Package io_rig は筋肉リグのスナップショットをファイルへ保存する。
package io_rig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

const (
	outputDirFileMode = 0o755
	outputFileMode    = 0o644
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RigWriter は拡張子に応じてJSONまたはYAMLでスナップショットを保存する。
type RigWriter struct{}

// NewRigWriter はリグ保存リポジトリを生成する。
func NewRigWriter() *RigWriter {
	return &RigWriter{}
}

// Save はスナップショットを保存する。出力先ディレクトリが無ければ作成する。
func (w *RigWriter) Save(path string, snapshot *model.RigSnapshot) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if snapshot == nil {
		return fmt.Errorf("保存対象のスナップショットが未設定です")
	}
	data, err := Marshal(path, snapshot)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, outputDirFileMode); err != nil {
			return fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
		}
	}
	if err := os.WriteFile(path, data, outputFileMode); err != nil {
		return fmt.Errorf("スナップショットの書き込みに失敗しました: %w", err)
	}
	return nil
}

// Marshal は拡張子に応じた形式でスナップショットを直列化する。
func Marshal(path string, snapshot *model.RigSnapshot) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("スナップショット(JSON)の変換に失敗しました: %w", err)
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(snapshot); err != nil {
			return nil, fmt.Errorf("スナップショット(YAML)の変換に失敗しました: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("スナップショット(YAML)の変換に失敗しました: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("未対応の保存形式です: %s", path)
	}
}

// Load は保存済みスナップショットを読み込む。確認用であり、セッションへは復元しない。
func Load(path string) (*model.RigSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("スナップショットの読み込みに失敗しました: %w", err)
	}
	var snapshot model.RigSnapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &snapshot)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &snapshot)
	default:
		return nil, fmt.Errorf("未対応の保存形式です: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("スナップショットの解析に失敗しました: %w", err)
	}
	return &snapshot, nil
}
