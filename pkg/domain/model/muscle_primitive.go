// 指示: miu200521358
package model

import "github.com/miu200521358/mu_muscle/pkg/domain/mmath"

// JointRef は解決済み関節への参照を表す。スケルトンのデータは複製しない。
type JointRef struct {
	Name string
	Side Side
}

// AnchorRef は関節参照と、その関節のローカル空間での静止オフセットを表す。
type AnchorRef struct {
	Joint       JointRef
	LocalOffset mmath.Vec3
}

// MusclePrimitive は2アンカー間の筋肉チェーン1本を表す。
type MusclePrimitive struct {
	Name              string
	PartName          string
	Origin            AnchorRef
	Insertion         AnchorRef
	RestLength        float64
	RestChain         []mmath.Vec3
	BlendWeight       float64
	StretchOffset     mmath.Vec3
	CompressionOffset mmath.Vec3
	ChainNodeIDs      []string
	PivotID           string
	LocatorID         string
	ConstraintIDs     []string
	VolumeConstraint  string
	chainLength       int
	compression       float64
	stretch           float64
}

// NewMusclePrimitive は筋肉プリミティブを生成する。チェーン長は生成後に変更できない。
func NewMusclePrimitive(name, partName string, origin, insertion AnchorRef, chainLength int, compression, stretch float64) *MusclePrimitive {
	return &MusclePrimitive{
		Name:        name,
		PartName:    partName,
		Origin:      origin,
		Insertion:   insertion,
		chainLength: chainLength,
		compression: compression,
		stretch:     stretch,
	}
}

// ChainLength はチェーン関節数を返す。
func (p *MusclePrimitive) ChainLength() int {
	return p.chainLength
}

// Compression は圧縮率を返す。
func (p *MusclePrimitive) Compression() float64 {
	return p.compression
}

// Stretch は伸長率を返す。
func (p *MusclePrimitive) Stretch() float64 {
	return p.stretch
}

// SetCompression は範囲に収めた圧縮率を設定し、設定値を返す。
func (p *MusclePrimitive) SetCompression(value float64, valueRange ValueRange) float64 {
	p.compression = valueRange.Clamp(value)
	return p.compression
}

// SetStretch は範囲に収めた伸長率を設定し、設定値を返す。
func (p *MusclePrimitive) SetStretch(value float64, valueRange ValueRange) float64 {
	p.stretch = valueRange.Clamp(value)
	return p.stretch
}

// VolumePreserved は体積維持拘束が適用済みか判定する。
func (p *MusclePrimitive) VolumePreserved() bool {
	return p.VolumeConstraint != ""
}

// NodeIDs は所有ノードIDを生成順で返す。
func (p *MusclePrimitive) NodeIDs() []string {
	ids := make([]string, 0, len(p.ChainNodeIDs)+2)
	ids = append(ids, p.ChainNodeIDs...)
	if p.PivotID != "" {
		ids = append(ids, p.PivotID)
	}
	if p.LocatorID != "" {
		ids = append(ids, p.LocatorID)
	}
	return ids
}

// AnchorJoints は参照する関節を返す。
func (p *MusclePrimitive) AnchorJoints() []JointRef {
	if p.Origin.Joint.Name == p.Insertion.Joint.Name {
		return []JointRef{p.Origin.Joint}
	}
	return []JointRef{p.Origin.Joint, p.Insertion.Joint}
}
