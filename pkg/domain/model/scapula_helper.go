// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"go.uber.org/multierr"
)

// ScapulaLocators は肩甲骨補助関節を置くワールド位置を表す。
type ScapulaLocators struct {
	Acromion mmath.Vec3
	Root     mmath.Vec3
	Tip      mmath.Vec3
}

// MirroredX はX成分を反転した位置を返す。
func (l ScapulaLocators) MirroredX() ScapulaLocators {
	return ScapulaLocators{
		Acromion: l.Acromion.MirroredX(),
		Root:     l.Root.MirroredX(),
		Tip:      l.Tip.MirroredX(),
	}
}

// Validate は全位置が有限値か検証する。
func (l ScapulaLocators) Validate() error {
	for name, position := range map[string]mmath.Vec3{"acromion": l.Acromion, "root": l.Root, "tip": l.Tip} {
		if !mmath.IsFinite(position.X) || !mmath.IsFinite(position.Y) || !mmath.IsFinite(position.Z) {
			return fmt.Errorf("肩甲骨ロケーターが有限値ではありません: %s=%v", name, position)
		}
	}
	return nil
}

// SkeletonEditor は関節の参照と追加を行う契約を表す。
type SkeletonEditor interface {
	JointByName(name string) (*Joint, bool)
	WorldTransform(name string) (mmath.Transform, error)
	AppendJoint(joint *Joint) error
}

// ScapulaRig は肩甲骨補助関節の名前と参照関節を表す。
// 階層は 鎖骨 → 肩峰(駆動) → 肩甲骨根元 → 下角。
// 肩峰はY軸を首へ、X軸を背骨のY軸側へ向ける。
type ScapulaRig struct {
	Neck     JointPattern
	Back     JointPattern
	Clavicle JointPattern
	Acromion JointPattern
	Root     JointPattern
	Tip      JointPattern
	Tokens   SideTokens
}

// DefaultScapulaRig はサンプル二足の命名に合わせた既定値。
var DefaultScapulaRig = ScapulaRig{
	Neck:     "Neck",
	Back:     "Spine3",
	Clavicle: "Clavicle_{Side}",
	Acromion: "Acromion_{Side}",
	Root:     "Scapula_{Side}",
	Tip:      "ScapulaTip_{Side}",
	Tokens:   DefaultSideTokens,
}

// scapulaNames は左右を埋め込んだ関節名を表す。
type scapulaNames struct {
	neck, back, clavicle string
	acromion, root, tip  string
}

// resolve は左右を埋め込んだ関節名を返す。
func (r ScapulaRig) resolve(side Side) (scapulaNames, error) {
	if !side.IsSided() {
		return scapulaNames{}, fmt.Errorf("肩甲骨補助関節は左右指定が必要です: %s", side)
	}
	var names scapulaNames
	var err error
	for _, slot := range []struct {
		pattern JointPattern
		target  *string
	}{
		{r.Neck, &names.neck},
		{r.Back, &names.back},
		{r.Clavicle, &names.clavicle},
		{r.Acromion, &names.acromion},
		{r.Root, &names.root},
		{r.Tip, &names.tip},
	} {
		name, resolveErr := slot.pattern.Resolve(side, r.Tokens)
		err = multierr.Append(err, resolveErr)
		*slot.target = name
	}
	return names, err
}

// JointNames は追加される関節名を親から順に返す。
func (r ScapulaRig) JointNames(side Side) ([]string, error) {
	names, err := r.resolve(side)
	if err != nil {
		return nil, err
	}
	return []string{names.acromion, names.root, names.tip}, nil
}

// AddJoints はロケーター位置に肩甲骨補助関節を追加し、追加した関節名を返す。
// 参照関節の欠落や同名関節の存在を先に検証し、途中まで追加された状態は残さない。
func (r ScapulaRig) AddJoints(skeleton SkeletonEditor, side Side, locators ScapulaLocators) ([]string, error) {
	names, err := r.resolve(side)
	if err != nil {
		return nil, err
	}
	if err := locators.Validate(); err != nil {
		return nil, err
	}
	for _, name := range []string{names.neck, names.back, names.clavicle} {
		if _, ok := skeleton.JointByName(name); !ok {
			err = multierr.Append(err, merrors.NewAnchorNotFoundError(name, side.Name()))
		}
	}
	for _, name := range []string{names.acromion, names.root, names.tip} {
		if _, ok := skeleton.JointByName(name); ok {
			err = multierr.Append(err, fmt.Errorf("肩甲骨補助関節が既に存在します: %s", name))
		}
	}
	if err != nil {
		return nil, err
	}

	neck, err := skeleton.WorldTransform(names.neck)
	if err != nil {
		return nil, err
	}
	back, err := skeleton.WorldTransform(names.back)
	if err != nil {
		return nil, err
	}
	clavicle, err := skeleton.WorldTransform(names.clavicle)
	if err != nil {
		return nil, err
	}

	aimRotation := mmath.NewQuaternionFromAim(neck.Position.Subed(locators.Acromion), back.AxisY())
	acromionLocal := mmath.NewTransformFrom(
		clavicle.InverseApply(locators.Acromion),
		clavicle.Rotation.Inverted().Muled(aimRotation).Normalized(),
	)
	acromionWorld := clavicle.Composed(acromionLocal)
	rootLocal := mmath.NewTransformFrom(acromionWorld.InverseApply(locators.Root), mmath.NewQuaternion())
	rootWorld := acromionWorld.Composed(rootLocal)
	tipLocal := mmath.NewTransformFrom(rootWorld.InverseApply(locators.Tip), mmath.NewQuaternion())

	joints := []*Joint{
		NewJoint(names.acromion, names.clavicle, acromionLocal.Position, acromionLocal.Rotation),
		NewJoint(names.root, names.acromion, rootLocal.Position, rootLocal.Rotation),
		NewJoint(names.tip, names.root, tipLocal.Position, tipLocal.Rotation),
	}
	created := make([]string, 0, len(joints))
	for _, joint := range joints {
		if err := skeleton.AppendJoint(joint); err != nil {
			return created, fmt.Errorf("肩甲骨補助関節の追加に失敗しました: %w", err)
		}
		created = append(created, joint.Name())
	}
	return created, nil
}

// Locators は既存の肩甲骨補助関節のワールド位置を名前で読み取る。
func (r ScapulaRig) Locators(skeleton SkeletonEditor, side Side) (ScapulaLocators, error) {
	names, err := r.resolve(side)
	if err != nil {
		return ScapulaLocators{}, err
	}
	positions := make([]mmath.Vec3, 0, 3)
	for _, name := range []string{names.acromion, names.root, names.tip} {
		if _, ok := skeleton.JointByName(name); !ok {
			err = multierr.Append(err, merrors.NewAnchorNotFoundError(name, side.Name()))
			continue
		}
		world, worldErr := skeleton.WorldTransform(name)
		if worldErr != nil {
			err = multierr.Append(err, worldErr)
			continue
		}
		positions = append(positions, world.Position)
	}
	if err != nil {
		return ScapulaLocators{}, err
	}
	return ScapulaLocators{Acromion: positions[0], Root: positions[1], Tip: positions[2]}, nil
}

// MirrorJoints は元側の肩甲骨補助関節を名前で読み直し、X反転した位置で反対側に追加する。
// 肩峰の向きは反対側の首と背骨から求め直す。
func (r ScapulaRig) MirrorJoints(skeleton SkeletonEditor, source Side) (Side, []string, error) {
	target, ok := source.Opposite()
	if !ok {
		return SideNone, nil, fmt.Errorf("肩甲骨補助関節のミラー元は左右どちらかを指定してください: %s", source)
	}
	locators, err := r.Locators(skeleton, source)
	if err != nil {
		return target, nil, fmt.Errorf("ミラー元の肩甲骨補助関節の取得に失敗しました: %w", err)
	}
	created, err := r.AddJoints(skeleton, target, locators.MirroredX())
	return target, created, err
}
