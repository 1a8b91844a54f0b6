// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
)

// Joint はスケルトンの関節を表す。位置と回転は親関節からの相対値。
type Joint struct {
	name          string
	ParentName    string
	LocalPosition mmath.Vec3
	LocalRotation mmath.Quaternion
}

// NewJoint は関節を生成する。
func NewJoint(name, parentName string, localPosition mmath.Vec3, localRotation mmath.Quaternion) *Joint {
	return &Joint{
		name:          name,
		ParentName:    parentName,
		LocalPosition: localPosition,
		LocalRotation: localRotation,
	}
}

// Name は関節名を返す。
func (j *Joint) Name() string {
	return j.name
}

// LocalTransform は親からの相対変換を返す。
func (j *Joint) LocalTransform() mmath.Transform {
	return mmath.NewTransformFrom(j.LocalPosition, j.LocalRotation)
}

// Skeleton は名前で引ける関節階層を表す。
type Skeleton struct {
	joints map[string]*Joint
	order  []string
}

// NewSkeleton は空のスケルトンを生成する。
func NewSkeleton() *Skeleton {
	return &Skeleton{joints: map[string]*Joint{}}
}

// Append は関節を追加する。親は先に追加されている必要がある。
func (s *Skeleton) Append(joint *Joint) error {
	if joint == nil || joint.name == "" {
		return fmt.Errorf("関節名が空です")
	}
	if _, exists := s.joints[joint.name]; exists {
		return fmt.Errorf("関節名が重複しています: %s", joint.name)
	}
	if joint.ParentName != "" {
		if _, exists := s.joints[joint.ParentName]; !exists {
			return fmt.Errorf("親関節が見つかりません: %s (child=%s)", joint.ParentName, joint.name)
		}
	}
	s.joints[joint.name] = joint
	s.order = append(s.order, joint.name)
	return nil
}

// JointByName は名前完全一致で関節を返す。
func (s *Skeleton) JointByName(name string) (*Joint, bool) {
	joint, ok := s.joints[name]
	return joint, ok
}

// Len は関節数を返す。
func (s *Skeleton) Len() int {
	return len(s.order)
}

// Names は追加順の関節名を返す。
func (s *Skeleton) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// WorldTransform は親を辿って合成したワールド変換を返す。
func (s *Skeleton) WorldTransform(name string) (mmath.Transform, error) {
	chain := make([]*Joint, 0, 8)
	current := name
	for current != "" {
		joint, ok := s.joints[current]
		if !ok {
			return mmath.NewTransform(), fmt.Errorf("関節が見つかりません: %s", current)
		}
		chain = append(chain, joint)
		if len(chain) > len(s.joints) {
			return mmath.NewTransform(), fmt.Errorf("関節階層が循環しています: %s", name)
		}
		current = joint.ParentName
	}

	world := mmath.NewTransform()
	for i := len(chain) - 1; i >= 0; i-- {
		world = world.Composed(chain[i].LocalTransform())
	}
	return world, nil
}

// SetLocalRotation は関節の相対回転を更新する。
func (s *Skeleton) SetLocalRotation(name string, rotation mmath.Quaternion) error {
	joint, ok := s.joints[name]
	if !ok {
		return fmt.Errorf("関節が見つかりません: %s", name)
	}
	joint.LocalRotation = rotation
	return nil
}

// SetLocalPosition は関節の相対位置を更新する。
func (s *Skeleton) SetLocalPosition(name string, position mmath.Vec3) error {
	joint, ok := s.joints[name]
	if !ok {
		return fmt.Errorf("関節が見つかりません: %s", name)
	}
	joint.LocalPosition = position
	return nil
}

// Rename は関節名を変更し、子の親参照も追従させる。
func (s *Skeleton) Rename(oldName, newName string) error {
	joint, ok := s.joints[oldName]
	if !ok {
		return fmt.Errorf("関節が見つかりません: %s", oldName)
	}
	if newName == "" {
		return fmt.Errorf("関節名が空です")
	}
	if _, exists := s.joints[newName]; exists {
		return fmt.Errorf("関節名が重複しています: %s", newName)
	}
	delete(s.joints, oldName)
	joint.name = newName
	s.joints[newName] = joint
	for i, name := range s.order {
		if name == oldName {
			s.order[i] = newName
		}
	}
	for _, other := range s.joints {
		if other.ParentName == oldName {
			other.ParentName = newName
		}
	}
	return nil
}
