// 指示: miu200521358
package model

// RigSnapshot は登録済み筋肉リグを保存用に書き出した内容を表す。
type RigSnapshot struct {
	Skeleton  string             `json:"skeleton" yaml:"skeleton"`
	Instances []InstanceSnapshot `json:"instances" yaml:"instances"`
}

// InstanceSnapshot は筋肉インスタンス1件の保存内容を表す。
type InstanceSnapshot struct {
	Type               string               `json:"type" yaml:"type"`
	Side               string               `json:"side" yaml:"side"`
	State              string               `json:"state" yaml:"state"`
	Stale              bool                 `json:"stale,omitempty" yaml:"stale,omitempty"`
	Compression        float64              `json:"compression" yaml:"compression"`
	Stretch            float64              `json:"stretch" yaml:"stretch"`
	Parts              []PartSnapshot       `json:"parts" yaml:"parts"`
	ClosingConstraints []ConstraintSnapshot `json:"closingConstraints,omitempty" yaml:"closingConstraints,omitempty"`
}

// PartSnapshot はプリミティブ1本の保存内容を表す。
type PartSnapshot struct {
	Name        string               `json:"name" yaml:"name"`
	Part        string               `json:"part" yaml:"part"`
	Origin      string               `json:"origin" yaml:"origin"`
	Insertion   string               `json:"insertion" yaml:"insertion"`
	RestLength  float64              `json:"restLength" yaml:"restLength"`
	Nodes       []NodeSnapshot       `json:"nodes" yaml:"nodes"`
	Constraints []ConstraintSnapshot `json:"constraints" yaml:"constraints"`
}

// NodeSnapshot は補助ノードの保存内容を表す。回転は x, y, z, w の順。
type NodeSnapshot struct {
	Name     string     `json:"name" yaml:"name"`
	Kind     string     `json:"kind" yaml:"kind"`
	Parent   string     `json:"parent" yaml:"parent"`
	Locked   bool       `json:"locked,omitempty" yaml:"locked,omitempty"`
	Position [3]float64 `json:"position" yaml:"position,flow"`
	Rotation [4]float64 `json:"rotation" yaml:"rotation,flow"`
	Scale    [3]float64 `json:"scale" yaml:"scale,flow"`
}

// ConstraintSnapshot はコンストレイントの保存内容を表す。ノードは名前で参照する。
type ConstraintSnapshot struct {
	Name    string           `json:"name" yaml:"name"`
	Kind    string           `json:"kind" yaml:"kind"`
	Driven  string           `json:"driven" yaml:"driven"`
	Targets []TargetSnapshot `json:"targets" yaml:"targets"`
}

// TargetSnapshot はコンストレイントターゲットの保存内容を表す。
type TargetSnapshot struct {
	Joint  string  `json:"joint,omitempty" yaml:"joint,omitempty"`
	Node   string  `json:"node,omitempty" yaml:"node,omitempty"`
	Weight float64 `json:"weight" yaml:"weight"`
}
