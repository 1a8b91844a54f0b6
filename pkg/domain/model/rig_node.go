// 指示: miu200521358
package model

import (
	"github.com/google/uuid"
	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
)

// RigNodeKind は補助ノードの種別を表す。
type RigNodeKind int

const (
	// RigNodeKindChainJoint は筋肉チェーンの関節を表す。
	RigNodeKindChainJoint RigNodeKind = iota
	// RigNodeKindPivot は筋腹のピボットを表す。
	RigNodeKindPivot
	// RigNodeKindLocator は構築専用の中心ロケーターを表す。
	RigNodeKindLocator
)

// String は文字列表現を返す。
func (k RigNodeKind) String() string {
	switch k {
	case RigNodeKindChainJoint:
		return "chain_joint"
	case RigNodeKindPivot:
		return "pivot"
	case RigNodeKindLocator:
		return "locator"
	default:
		return "unknown"
	}
}

// RigNode は筋肉リグが生成したシーン上の補助ノードを表す。
type RigNode struct {
	id          string
	Name        string
	Kind        RigNodeKind
	Owner       string
	ParentJoint string
	Locked      bool
	Transform   mmath.Transform
	Scale       mmath.Vec3
}

// NewRigNode は補助ノードを生成する。
func NewRigNode(name string, kind RigNodeKind, owner, parentJoint string) *RigNode {
	return &RigNode{
		id:          uuid.NewString(),
		Name:        name,
		Kind:        kind,
		Owner:       owner,
		ParentJoint: parentJoint,
		Transform:   mmath.NewTransform(),
		Scale:       mmath.ONE_VEC3,
	}
}

// ID はノードIDを返す。
func (n *RigNode) ID() string {
	return n.id
}

// ConstraintKind はコンストレイント種別を表す。
type ConstraintKind int

const (
	// ConstraintKindBlend は2点間のブレンド位置拘束。
	ConstraintKindBlend ConstraintKind = iota
	// ConstraintKindPoint は位置拘束。
	ConstraintKindPoint
	// ConstraintKindAim は向き拘束。
	ConstraintKindAim
	// ConstraintKindVolume は体積維持スケール拘束。
	ConstraintKindVolume
	// ConstraintKindBridge はパーツ間をつなぐ位置拘束。
	ConstraintKindBridge
)

// String は文字列表現を返す。
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintKindBlend:
		return "blend"
	case ConstraintKindPoint:
		return "point"
	case ConstraintKindAim:
		return "aim"
	case ConstraintKindVolume:
		return "volume"
	case ConstraintKindBridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// ConstraintTarget はコンストレイントのターゲットを表す。関節名かノードIDのどちらかを持つ。
type ConstraintTarget struct {
	JointName string
	NodeID    string
	Weight    float64
}

// JointTarget は関節ターゲットを生成する。
func JointTarget(name string, weight float64) ConstraintTarget {
	return ConstraintTarget{JointName: name, Weight: weight}
}

// NodeTarget はノードターゲットを生成する。
func NodeTarget(id string, weight float64) ConstraintTarget {
	return ConstraintTarget{NodeID: id, Weight: weight}
}

// Constraint はシーン上のコンストレイントを表す。
type Constraint struct {
	id       string
	Name     string
	Kind     ConstraintKind
	DrivenID string
	Targets  []ConstraintTarget
}

// NewConstraint はコンストレイントを生成する。
func NewConstraint(name string, kind ConstraintKind, drivenID string, targets ...ConstraintTarget) *Constraint {
	return &Constraint{
		id:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		DrivenID: drivenID,
		Targets:  targets,
	}
}

// ID はコンストレイントIDを返す。
func (c *Constraint) ID() string {
	return c.id
}

// References はノードを駆動対象またはターゲットとして参照しているか判定する。
func (c *Constraint) References(nodeID string) bool {
	if c.DrivenID == nodeID {
		return true
	}
	for _, target := range c.Targets {
		if target.NodeID == nodeID {
			return true
		}
	}
	return false
}

// ReferencesJoint は関節をターゲットとして参照しているか判定する。
func (c *Constraint) ReferencesJoint(name string) bool {
	for _, target := range c.Targets {
		if target.JointName == name {
			return true
		}
	}
	return false
}
