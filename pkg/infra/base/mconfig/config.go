// 指示: miu200521358
// Package mconfig はアプリケーション設定を読み込む。
package mconfig

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/infra/base/mlogging"
	"github.com/spf13/viper"
)

// EnvPrefix は環境変数の接頭辞。
const EnvPrefix = "MU_MUSCLE"

// RigConfig は筋肉生成の既定値を表す。
type RigConfig struct {
	Compression float64 `mapstructure:"compression"`
	Stretch     float64 `mapstructure:"stretch"`
	Side        string  `mapstructure:"side"`
	AutoMirror  bool    `mapstructure:"auto_mirror"`
	Catalogue   string  `mapstructure:"catalogue"`
}

// AppConfig はアプリケーション設定を表す。
type AppConfig struct {
	Language string             `mapstructure:"language"`
	Log      mlogging.LogConfig `mapstructure:"log"`
	Rig      RigConfig          `mapstructure:"rig"`
}

// SetDefaults は既定値を設定する。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("language", "ja")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)

	v.SetDefault("rig.compression", 0.5)
	v.SetDefault("rig.stretch", 1.5)
	v.SetDefault("rig.side", "left")
	v.SetDefault("rig.auto_mirror", true)
	v.SetDefault("rig.catalogue", "")
}

// NewViper は既定値と環境変数を設定した viper を生成する。
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load は設定ファイルを読み込む。path が空の場合は既定値と環境変数のみを使う。
func Load(path string) (*AppConfig, error) {
	v := NewViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}
	return Unmarshal(v)
}

// Unmarshal は viper の内容を設定へ展開して検証する。
func Unmarshal(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の展開に失敗しました: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値を検証する。
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Rig.Side) {
	case "left", "right", "both", "center":
	default:
		return fmt.Errorf("rig.side が不正です: %s", c.Rig.Side)
	}
	if !mmath.IsFinite(c.Rig.Compression) || c.Rig.Compression <= 0 {
		return fmt.Errorf("rig.compression は正の値である必要があります: %v", c.Rig.Compression)
	}
	if !mmath.IsFinite(c.Rig.Stretch) || c.Rig.Stretch <= 0 {
		return fmt.Errorf("rig.stretch は正の値である必要があります: %v", c.Rig.Stretch)
	}
	return nil
}
