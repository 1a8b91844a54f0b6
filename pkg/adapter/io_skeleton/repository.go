// 指示: miu200521358
package io_skeleton

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed assets/biped.yaml
var embeddedBiped []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// skeletonDocument はスケルトン記述ファイルの構造を表す。
type skeletonDocument struct {
	Name    string                     `yaml:"name" json:"name"`
	Joints  []jointDocument            `yaml:"joints" json:"joints"`
	Scapula map[string]scapulaDocument `yaml:"scapula,omitempty" json:"scapula,omitempty"`
}

// scapulaDocument は肩甲骨補助関節のロケーター位置(ワールド)を表す。キーは left / right。
type scapulaDocument struct {
	Acromion [3]float64 `yaml:"acromion" json:"acromion"`
	Root     [3]float64 `yaml:"root" json:"root"`
	Tip      [3]float64 `yaml:"tip" json:"tip"`
}

// jointDocument は関節1件の記述を表す。回転はXYZ順のオイラー角(度)。
type jointDocument struct {
	Name     string     `yaml:"name" json:"name"`
	Parent   string     `yaml:"parent" json:"parent"`
	Position [3]float64 `yaml:"position" json:"position"`
	Rotation [3]float64 `yaml:"rotation" json:"rotation"`
}

// LoadEmbeddedBiped は埋め込み済みのサンプル二足スケルトンを読み込む。
func LoadEmbeddedBiped() (*model.Skeleton, error) {
	return ParseSkeletonYAML(embeddedBiped)
}

// LoadSkeleton は拡張子に応じてYAMLまたはJSONのスケルトン記述を読み込む。
func LoadSkeleton(path string) (*model.Skeleton, error) {
	document, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return document.toSkeleton()
}

// LoadScapulaLocators はスケルトン記述の scapula 節を左右別のロケーターとして読み込む。
// 節がなければ空のマップを返す。
func LoadScapulaLocators(path string) (map[model.Side]model.ScapulaLocators, error) {
	document, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return document.toScapulaLocators()
}

// readDocument は拡張子に応じて記述ファイルを解析する。
func readDocument(path string) (skeletonDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return skeletonDocument{}, fmt.Errorf("スケルトン記述の読み込みに失敗しました: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return skeletonDocument{}, fmt.Errorf("未対応のスケルトン記述形式です: %s", path)
	}
}

// ParseSkeletonYAML はYAMLのスケルトン記述を解析する。
func ParseSkeletonYAML(data []byte) (*model.Skeleton, error) {
	document, err := decodeYAML(data)
	if err != nil {
		return nil, err
	}
	return document.toSkeleton()
}

// ParseSkeletonJSON はJSONのスケルトン記述を解析する。
func ParseSkeletonJSON(data []byte) (*model.Skeleton, error) {
	document, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return document.toSkeleton()
}

func decodeYAML(data []byte) (skeletonDocument, error) {
	var document skeletonDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return skeletonDocument{}, fmt.Errorf("スケルトン記述(YAML)の解析に失敗しました: %w", err)
	}
	return document, nil
}

func decodeJSON(data []byte) (skeletonDocument, error) {
	var document skeletonDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return skeletonDocument{}, fmt.Errorf("スケルトン記述(JSON)の解析に失敗しました: %w", err)
	}
	return document, nil
}

// toScapulaLocators は scapula 節を左右区分へ変換する。
func (d skeletonDocument) toScapulaLocators() (map[model.Side]model.ScapulaLocators, error) {
	locators := make(map[model.Side]model.ScapulaLocators, len(d.Scapula))
	for key, entry := range d.Scapula {
		side, err := model.ParseSide(key)
		if err != nil {
			return nil, fmt.Errorf("肩甲骨ロケーターの左右指定の解析に失敗しました: %w", err)
		}
		if !side.IsSided() {
			return nil, fmt.Errorf("肩甲骨ロケーターは left / right で指定してください: %s", key)
		}
		locators[side] = model.ScapulaLocators{
			Acromion: mmath.NewVec3FromArray(entry.Acromion),
			Root:     mmath.NewVec3FromArray(entry.Root),
			Tip:      mmath.NewVec3FromArray(entry.Tip),
		}
	}
	return locators, nil
}

// toSkeleton は記述からスケルトンを組み立てる。親が後方に書かれていても受け付ける。
func (d skeletonDocument) toSkeleton() (*model.Skeleton, error) {
	if len(d.Joints) == 0 {
		return nil, fmt.Errorf("スケルトン記述に関節がありません: %s", d.Name)
	}
	skeleton := model.NewSkeleton()
	pending := append([]jointDocument(nil), d.Joints...)
	for len(pending) > 0 {
		next := pending[:0:0]
		for _, joint := range pending {
			if joint.Parent != "" {
				if _, ok := skeleton.JointByName(joint.Parent); !ok {
					next = append(next, joint)
					continue
				}
			}
			if err := skeleton.Append(model.NewJoint(
				joint.Name,
				joint.Parent,
				mmath.NewVec3FromArray(joint.Position),
				mmath.NewQuaternionFromDegrees(joint.Rotation[0], joint.Rotation[1], joint.Rotation[2]),
			)); err != nil {
				return nil, fmt.Errorf("関節の追加に失敗しました: %w", err)
			}
		}
		if len(next) == len(pending) {
			names := make([]string, 0, len(next))
			for _, joint := range next {
				names = append(names, fmt.Sprintf("%s(parent=%s)", joint.Name, joint.Parent))
			}
			return nil, fmt.Errorf("親関節を解決できません: %s", strings.Join(names, ", "))
		}
		pending = next
	}
	return skeleton, nil
}
