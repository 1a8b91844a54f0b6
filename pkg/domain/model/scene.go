// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
)

// Scene はスケルトンと筋肉リグの補助ノード・コンストレイントを保持するシーンを表す。
// 排他制御は呼び出し側(セッション)が行う。
type Scene struct {
	skeleton        *Skeleton
	nodes           map[string]*RigNode
	nodeOrder       []string
	constraints     map[string]*Constraint
	constraintOrder []string
}

// NewScene はシーンを生成する。
func NewScene(skeleton *Skeleton) *Scene {
	if skeleton == nil {
		skeleton = NewSkeleton()
	}
	return &Scene{
		skeleton:    skeleton,
		nodes:       map[string]*RigNode{},
		constraints: map[string]*Constraint{},
	}
}

// Skeleton はスケルトンを返す。
func (s *Scene) Skeleton() *Skeleton {
	return s.skeleton
}

// JointByName は名前完全一致で関節を返す。
func (s *Scene) JointByName(name string) (*Joint, bool) {
	return s.skeleton.JointByName(name)
}

// WorldTransform は関節のワールド変換を返す。
func (s *Scene) WorldTransform(name string) (mmath.Transform, error) {
	return s.skeleton.WorldTransform(name)
}

// AppendJoint はスケルトンへ関節を追加する。
func (s *Scene) AppendJoint(joint *Joint) error {
	return s.skeleton.Append(joint)
}

// AddNode はノードを追加する。
func (s *Scene) AddNode(node *RigNode) error {
	if node == nil {
		return fmt.Errorf("ノードがnilです")
	}
	if _, exists := s.nodes[node.ID()]; exists {
		return fmt.Errorf("ノードIDが重複しています: %s", node.ID())
	}
	if node.ParentJoint != "" {
		if _, ok := s.skeleton.JointByName(node.ParentJoint); !ok {
			return fmt.Errorf("ノードの親関節が見つかりません: %s (node=%s)", node.ParentJoint, node.Name)
		}
	}
	s.nodes[node.ID()] = node
	s.nodeOrder = append(s.nodeOrder, node.ID())
	return nil
}

// RemoveNode はノードを削除する。コンストレイントから参照されている場合は失敗する。
func (s *Scene) RemoveNode(id string) error {
	node, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("ノードが見つかりません: %s", id)
	}
	for _, constraintID := range s.constraintOrder {
		if s.constraints[constraintID].References(id) {
			return fmt.Errorf("ノードはコンストレイントから参照されています: %s (constraint=%s)", node.Name, s.constraints[constraintID].Name)
		}
	}
	delete(s.nodes, id)
	s.nodeOrder = removeID(s.nodeOrder, id)
	return nil
}

// Node はノードを返す。
func (s *Scene) Node(id string) (*RigNode, bool) {
	node, ok := s.nodes[id]
	return node, ok
}

// AddConstraint はコンストレイントを追加する。駆動対象とターゲットは存在している必要がある。
func (s *Scene) AddConstraint(constraint *Constraint) error {
	if constraint == nil {
		return fmt.Errorf("コンストレイントがnilです")
	}
	if _, exists := s.constraints[constraint.ID()]; exists {
		return fmt.Errorf("コンストレイントIDが重複しています: %s", constraint.ID())
	}
	if _, ok := s.nodes[constraint.DrivenID]; !ok {
		return fmt.Errorf("駆動対象ノードが見つかりません: %s (constraint=%s)", constraint.DrivenID, constraint.Name)
	}
	for _, target := range constraint.Targets {
		switch {
		case target.NodeID != "":
			if _, ok := s.nodes[target.NodeID]; !ok {
				return fmt.Errorf("ターゲットノードが見つかりません: %s (constraint=%s)", target.NodeID, constraint.Name)
			}
		case target.JointName != "":
			if _, ok := s.skeleton.JointByName(target.JointName); !ok {
				return fmt.Errorf("ターゲット関節が見つかりません: %s (constraint=%s)", target.JointName, constraint.Name)
			}
		default:
			return fmt.Errorf("ターゲットが空です (constraint=%s)", constraint.Name)
		}
	}
	s.constraints[constraint.ID()] = constraint
	s.constraintOrder = append(s.constraintOrder, constraint.ID())
	return nil
}

// RemoveConstraint はコンストレイントを削除する。
func (s *Scene) RemoveConstraint(id string) error {
	if _, ok := s.constraints[id]; !ok {
		return fmt.Errorf("コンストレイントが見つかりません: %s", id)
	}
	delete(s.constraints, id)
	s.constraintOrder = removeID(s.constraintOrder, id)
	return nil
}

// Constraint はコンストレイントを返す。
func (s *Scene) Constraint(id string) (*Constraint, bool) {
	constraint, ok := s.constraints[id]
	return constraint, ok
}

// LockNode はノードの編集ロック状態を設定する。
func (s *Scene) LockNode(id string, locked bool) error {
	node, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("ノードが見つかりません: %s", id)
	}
	node.Locked = locked
	return nil
}

// SetNodePose は評価結果のワールド姿勢をノードへ書き込む。
func (s *Scene) SetNodePose(id string, transform mmath.Transform, scale mmath.Vec3) error {
	node, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("ノードが見つかりません: %s", id)
	}
	node.Transform = transform
	node.Scale = scale
	return nil
}

// NodeCount はノード数を返す。
func (s *Scene) NodeCount() int {
	return len(s.nodeOrder)
}

// ConstraintCount はコンストレイント数を返す。
func (s *Scene) ConstraintCount() int {
	return len(s.constraintOrder)
}

// NodeIDs は追加順のノードIDを返す。
func (s *Scene) NodeIDs() []string {
	ids := make([]string, len(s.nodeOrder))
	copy(ids, s.nodeOrder)
	return ids
}

// ConstraintIDs は追加順のコンストレイントIDを返す。
func (s *Scene) ConstraintIDs() []string {
	ids := make([]string, len(s.constraintOrder))
	copy(ids, s.constraintOrder)
	return ids
}

// removeID は順序を保ったままIDを取り除く。
func removeID(ids []string, id string) []string {
	for i, current := range ids {
		if current == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
