// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
)

// ISkeletonReader は関節の名前検索とワールド変換取得の契約を表す。
type ISkeletonReader interface {
	// JointByName は名前完全一致で関節を返す。
	JointByName(name string) (*model.Joint, bool)
	// WorldTransform は関節の現在のワールド変換を返す。
	WorldTransform(name string) (mmath.Transform, error)
}

// IScene は筋肉リグが操作するシーンの契約を表す。
type IScene interface {
	ISkeletonReader
	model.SceneMutator
	// AppendJoint はスケルトンへ関節を追加する。
	AppendJoint(joint *model.Joint) error
	// Node はノードを返す。
	Node(id string) (*model.RigNode, bool)
	// Constraint はコンストレイントを返す。
	Constraint(id string) (*model.Constraint, bool)
	// SetNodePose は評価結果の姿勢をノードへ書き込む。
	SetNodePose(id string, transform mmath.Transform, scale mmath.Vec3) error
	// NodeCount はノード数を返す。
	NodeCount() int
	// ConstraintCount はコンストレイント数を返す。
	ConstraintCount() int
}

// IMuscleCatalogue は筋肉定義の取得契約を表す。
type IMuscleCatalogue interface {
	// Config は筋肉種別の定義の複製を返す。
	Config(muscleType model.MuscleType) (*model.MuscleConfig, error)
	// Types は定義済みの筋肉種別を返す。
	Types() []model.MuscleType
}

// IRigWriter は筋肉リグのスナップショット保存契約を表す。
type IRigWriter interface {
	// Save はスナップショットをパスへ保存する。
	Save(path string, snapshot *model.RigSnapshot) error
}
