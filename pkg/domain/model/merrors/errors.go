// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrAlreadyFinalized は確定済みインスタンスへの操作を表す。
	ErrAlreadyFinalized = errors.New("筋肉リグは確定済みです")
	// ErrNotBuilt は未構築インスタンスへの操作を表す。
	ErrNotBuilt = errors.New("筋肉リグが構築されていません")
)

// AnchorNotFoundError はアンカー関節が見つからないエラーを表す。
type AnchorNotFoundError struct {
	Name string
	Side string
}

// NewAnchorNotFoundError はアンカー未検出エラーを生成する。
func NewAnchorNotFoundError(name, side string) *AnchorNotFoundError {
	return &AnchorNotFoundError{Name: name, Side: side}
}

// Error はエラーメッセージを返す。
func (e *AnchorNotFoundError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("アンカー関節が見つかりません: %s", e.Name)
	}
	return fmt.Sprintf("アンカー関節が見つかりません: %s (side=%s)", e.Name, e.Side)
}

// BuildError はプリミティブ構築失敗を表す。
type BuildError struct {
	Primitive string
	Reason    string
	Err       error
}

// Error はエラーメッセージを返す。
func (e *BuildError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("筋肉プリミティブの構築に失敗しました: %s: %s", e.Primitive, e.Reason)
	}
	if e.Reason == "" {
		return fmt.Sprintf("筋肉プリミティブの構築に失敗しました: %s: %v", e.Primitive, e.Err)
	}
	return fmt.Sprintf("筋肉プリミティブの構築に失敗しました: %s: %s: %v", e.Primitive, e.Reason, e.Err)
}

// Unwrap は原因エラーを返す。
func (e *BuildError) Unwrap() error {
	return e.Err
}

// TemplateError は筋肉テンプレート生成失敗を表す。Err は複数原因の集約であり得る。
type TemplateError struct {
	MuscleType string
	Side       string
	Err        error
}

// Error はエラーメッセージを返す。
func (e *TemplateError) Error() string {
	return fmt.Sprintf("筋肉テンプレートの生成に失敗しました: %s/%s: %v", e.MuscleType, e.Side, e.Err)
}

// Unwrap は原因エラーを返す。
func (e *TemplateError) Unwrap() error {
	return e.Err
}

// MirrorError はミラー生成失敗を表す。
type MirrorError struct {
	MuscleType string
	From       string
	To         string
	Err        error
}

// Error はエラーメッセージを返す。
func (e *MirrorError) Error() string {
	return fmt.Sprintf("筋肉リグのミラーに失敗しました: %s %s->%s: %v", e.MuscleType, e.From, e.To, e.Err)
}

// Unwrap は原因エラーを返す。
func (e *MirrorError) Unwrap() error {
	return e.Err
}

// FinalizeError は確定処理または確定後編集の失敗を表す。
type FinalizeError struct {
	Key string
	Err error
}

// Error はエラーメッセージを返す。
func (e *FinalizeError) Error() string {
	return fmt.Sprintf("筋肉リグの確定処理に失敗しました: %s: %v", e.Key, e.Err)
}

// Unwrap は原因エラーを返す。
func (e *FinalizeError) Unwrap() error {
	return e.Err
}

// InstanceNotFoundError は登録されていないインスタンスへの操作を表す。
type InstanceNotFoundError struct {
	Key string
}

// Error はエラーメッセージを返す。
func (e *InstanceNotFoundError) Error() string {
	return fmt.Sprintf("筋肉リグが登録されていません: %s", e.Key)
}

// ConfigError は筋肉定義の検証失敗を表す。
type ConfigError struct {
	Subject string
	Field   string
	Reason  string
}

// Error はエラーメッセージを返す。
func (e *ConfigError) Error() string {
	return fmt.Sprintf("筋肉定義が不正です: %s.%s: %s", e.Subject, e.Field, e.Reason)
}

// IsAnchorNotFoundError はアンカー未検出エラーを含むか判定する。
func IsAnchorNotFoundError(err error) bool {
	var target *AnchorNotFoundError
	return errors.As(err, &target)
}

// IsBuildError は構築エラーを含むか判定する。
func IsBuildError(err error) bool {
	var target *BuildError
	return errors.As(err, &target)
}

// IsTemplateError はテンプレートエラーを含むか判定する。
func IsTemplateError(err error) bool {
	var target *TemplateError
	return errors.As(err, &target)
}

// IsMirrorError はミラーエラーを含むか判定する。
func IsMirrorError(err error) bool {
	var target *MirrorError
	return errors.As(err, &target)
}

// IsFinalizeError は確定エラーを含むか判定する。
func IsFinalizeError(err error) bool {
	var target *FinalizeError
	return errors.As(err, &target)
}

// IsConfigError は定義エラーを含むか判定する。
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsInstanceNotFoundError は未登録エラーを含むか判定する。
func IsInstanceNotFoundError(err error) bool {
	var target *InstanceNotFoundError
	return errors.As(err, &target)
}

// MissingJoints はエラーツリー全体から見つからなかった関節名を重複なしで昇順に返す。
func MissingJoints(err error) []string {
	seen := map[string]struct{}{}
	collectMissingJoints(err, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// collectMissingJoints はエラーツリーを辿ってアンカー未検出エラーを集める。
func collectMissingJoints(err error, seen map[string]struct{}) {
	if err == nil {
		return
	}
	if anchorErr, ok := err.(*AnchorNotFoundError); ok {
		seen[anchorErr.Name] = struct{}{}
		return
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, child := range wrapped.Unwrap() {
			collectMissingJoints(child, seen)
		}
	case interface{ Unwrap() error }:
		collectMissingJoints(wrapped.Unwrap(), seen)
	}
}
