// 指示: miu200521358
package io_config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"
)

//go:embed assets/muscles.yaml
var embeddedCatalogue []byte

// MuscleCatalogue は検証済みの筋肉定義を保持する。取得時は複製を返す。
type MuscleCatalogue struct {
	configs map[model.MuscleType]*model.MuscleConfig
	order   []model.MuscleType
}

// EmbeddedCatalogueBytes は埋め込み済みカタログの内容を返す。
func EmbeddedCatalogueBytes() []byte {
	return append([]byte(nil), embeddedCatalogue...)
}

// LoadEmbeddedCatalogue は埋め込み済みカタログを読み込む。
func LoadEmbeddedCatalogue() (*MuscleCatalogue, error) {
	return ParseCatalogue(embeddedCatalogue)
}

// LoadCatalogueFile はファイルからカタログを読み込む。
func LoadCatalogueFile(path string) (*MuscleCatalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("筋肉定義ファイルの読み込みに失敗しました: %w", err)
	}
	return ParseCatalogue(data)
}

// ParseCatalogue はYAMLからカタログを生成し、全定義を検証する。
func ParseCatalogue(data []byte) (*MuscleCatalogue, error) {
	var document catalogueDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("筋肉定義の解析に失敗しました: %w", err)
	}

	tokens := model.DefaultSideTokens
	if document.SideTokens != nil {
		tokens = *document.SideTokens
	}

	catalogue := &MuscleCatalogue{configs: map[model.MuscleType]*model.MuscleConfig{}}
	for i, entry := range document.Muscles {
		cfg, err := entry.toConfig(document.Defaults, tokens)
		if err != nil {
			return nil, fmt.Errorf("筋肉定義[%d]の変換に失敗しました: %w", i, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if _, exists := catalogue.configs[cfg.Type]; exists {
			return nil, &merrors.ConfigError{Subject: string(cfg.Type), Field: "type", Reason: "筋肉種別が重複しています"}
		}
		catalogue.configs[cfg.Type] = cfg
		catalogue.order = append(catalogue.order, cfg.Type)
	}
	if len(catalogue.order) == 0 {
		return nil, &merrors.ConfigError{Subject: "catalogue", Field: "muscles", Reason: "筋肉定義がありません"}
	}
	return catalogue, nil
}

// Config は筋肉種別の定義の複製を返す。
func (c *MuscleCatalogue) Config(muscleType model.MuscleType) (*model.MuscleConfig, error) {
	cfg, ok := c.configs[muscleType]
	if !ok {
		return nil, &merrors.ConfigError{Subject: string(muscleType), Field: "type", Reason: "筋肉定義が登録されていません"}
	}
	var copied model.MuscleConfig
	if err := deepcopy.Copy(&copied, *cfg); err != nil {
		return nil, fmt.Errorf("筋肉定義の複製に失敗しました: %w", err)
	}
	return &copied, nil
}

// Types は定義順の筋肉種別を返す。
func (c *MuscleCatalogue) Types() []model.MuscleType {
	types := make([]model.MuscleType, len(c.order))
	copy(types, c.order)
	return types
}

// catalogueDocument はカタログYAMLの構造を表す。
type catalogueDocument struct {
	SideTokens *model.SideTokens `yaml:"sideTokens"`
	Defaults   defaultsDocument  `yaml:"defaults"`
	Muscles    []muscleDocument  `yaml:"muscles"`
}

// defaultsDocument は全筋肉共通の既定値を表す。
type defaultsDocument struct {
	ChainLength      int        `yaml:"chainLength"`
	BlendWeight      *float64   `yaml:"blendWeight"`
	CompressionRange [2]float64 `yaml:"compressionRange"`
	StretchRange     [2]float64 `yaml:"stretchRange"`
	Compression      float64    `yaml:"compression"`
	Stretch          float64    `yaml:"stretch"`
}

// muscleDocument は筋肉1種類分の定義を表す。未指定の値は defaults を使う。
type muscleDocument struct {
	Type             string           `yaml:"type"`
	DisplayName      string           `yaml:"displayName"`
	Color            string           `yaml:"color"`
	Bilateral        *bool            `yaml:"bilateral"`
	ChainLength      int              `yaml:"chainLength"`
	BlendWeight      *float64         `yaml:"blendWeight"`
	CompressionRange *[2]float64      `yaml:"compressionRange"`
	StretchRange     *[2]float64      `yaml:"stretchRange"`
	Compression      *float64         `yaml:"compression"`
	Stretch          *float64         `yaml:"stretch"`
	Parts            []partDocument   `yaml:"parts"`
	Bridges          []bridgeDocument `yaml:"bridges"`
}

// partDocument はパーツ定義を表す。
type partDocument struct {
	Name              string         `yaml:"name"`
	Origin            anchorDocument `yaml:"origin"`
	Insertion         anchorDocument `yaml:"insertion"`
	StretchOffset     [3]float64     `yaml:"stretchOffset"`
	CompressionOffset [3]float64     `yaml:"compressionOffset"`
}

// anchorDocument はアンカー指定を表す。
type anchorDocument struct {
	Joint  string     `yaml:"joint"`
	Toward string     `yaml:"toward"`
	Ratio  ratioExpr  `yaml:"ratio"`
	Offset [3]float64 `yaml:"offset"`
}

// bridgeDocument はパーツ間ブリッジ定義を表す。
type bridgeDocument struct {
	Driven  string   `yaml:"driven"`
	Between []string `yaml:"between"`
}

// toConfig はYAML定義をドメインの定義へ変換する。
func (d muscleDocument) toConfig(defaults defaultsDocument, tokens model.SideTokens) (*model.MuscleConfig, error) {
	muscleType, err := model.ParseMuscleType(d.Type)
	if err != nil {
		return nil, err
	}

	cfg := &model.MuscleConfig{
		Type:               muscleType,
		DisplayName:        d.DisplayName,
		ColorTag:           d.Color,
		ChainLength:        firstPositive(d.ChainLength, defaults.ChainLength),
		BlendWeight:        firstFloat(d.BlendWeight, defaults.BlendWeight, 0.75),
		CompressionRange:   toRange(d.CompressionRange, defaults.CompressionRange),
		StretchRange:       toRange(d.StretchRange, defaults.StretchRange),
		DefaultCompression: firstFloat(d.Compression, &defaults.Compression, 0),
		DefaultStretch:     firstFloat(d.Stretch, &defaults.Stretch, 0),
		SideTokens:         tokens,
		Bilateral:          d.Bilateral == nil || *d.Bilateral,
	}

	for _, part := range d.Parts {
		origin, err := part.Origin.toSpec()
		if err != nil {
			return nil, fmt.Errorf("%s.%s.origin: %w", d.Type, part.Name, err)
		}
		insertion, err := part.Insertion.toSpec()
		if err != nil {
			return nil, fmt.Errorf("%s.%s.insertion: %w", d.Type, part.Name, err)
		}
		cfg.Parts = append(cfg.Parts, model.MusclePartConfig{
			Name:              part.Name,
			Origin:            origin,
			Insertion:         insertion,
			StretchOffset:     mmath.NewVec3FromArray(part.StretchOffset),
			CompressionOffset: mmath.NewVec3FromArray(part.CompressionOffset),
		})
	}
	for _, bridge := range d.Bridges {
		cfg.Bridges = append(cfg.Bridges, model.BridgeConfig{
			Driven:  bridge.Driven,
			Between: append([]string(nil), bridge.Between...),
		})
	}
	return cfg, nil
}

// toSpec はアンカー定義をドメインのアンカー指定へ変換する。
func (d anchorDocument) toSpec() (model.AnchorSpec, error) {
	ratio := 0.0
	if d.Toward != "" {
		value, err := d.Ratio.Evaluate()
		if err != nil {
			return model.AnchorSpec{}, err
		}
		ratio = value
	}
	return model.AnchorSpec{
		Joint:  model.JointPattern(d.Joint),
		Toward: model.JointPattern(d.Toward),
		Ratio:  ratio,
		Offset: mmath.NewVec3FromArray(d.Offset),
	}, nil
}

// toRange は範囲指定を変換する。未指定なら既定値を使う。
func toRange(value *[2]float64, fallback [2]float64) model.ValueRange {
	if value != nil {
		return model.ValueRange{Min: value[0], Max: value[1]}
	}
	return model.ValueRange{Min: fallback[0], Max: fallback[1]}
}

// firstPositive は最初の正の値を返す。
func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

// firstFloat は最初に指定された値を返す。
func firstFloat(value *float64, fallback *float64, otherwise float64) float64 {
	if value != nil {
		return *value
	}
	if fallback != nil {
		return *fallback
	}
	return otherwise
}
