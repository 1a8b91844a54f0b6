// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_muscle/pkg/adapter/io_config"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_skeleton"
	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
)

type fakeCatalogue struct {
	configs map[model.MuscleType]*model.MuscleConfig
}

func (f *fakeCatalogue) Config(muscleType model.MuscleType) (*model.MuscleConfig, error) {
	cfg, ok := f.configs[muscleType]
	if !ok {
		return nil, &merrors.ConfigError{Subject: string(muscleType), Field: "type", Reason: "not registered"}
	}
	copied := *cfg
	copied.Parts = append([]model.MusclePartConfig(nil), cfg.Parts...)
	copied.Bridges = append([]model.BridgeConfig(nil), cfg.Bridges...)
	return &copied, nil
}

func (f *fakeCatalogue) Types() []model.MuscleType {
	types := make([]model.MuscleType, 0, len(f.configs))
	for muscleType := range f.configs {
		types = append(types, muscleType)
	}
	return types
}

type recordingReporter struct {
	events []RigProgressEvent
}

func (r *recordingReporter) ReportRigProgress(event RigProgressEvent) {
	r.events = append(r.events, event)
}

func (r *recordingReporter) count(eventType RigProgressEventType) int {
	count := 0
	for _, event := range r.events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

func newEmbeddedUsecase(t *testing.T) *MuscleRigUsecase {
	t.Helper()
	catalogue, err := io_config.LoadEmbeddedCatalogue()
	if err != nil {
		t.Fatalf("load catalogue failed: %v", err)
	}
	return NewMuscleRigUsecase(MuscleRigUsecaseDeps{Catalogue: catalogue})
}

func newBipedSession(t *testing.T) (*RigSession, *model.Scene) {
	t.Helper()
	skeleton, err := io_skeleton.LoadEmbeddedBiped()
	if err != nil {
		t.Fatalf("load biped failed: %v", err)
	}
	scene := model.NewScene(skeleton)
	return NewRigSession(scene), scene
}

func newShoulderOnlySession(t *testing.T) (*RigSession, *model.Scene) {
	t.Helper()
	skeleton := model.NewSkeleton()
	joints := []*model.Joint{
		model.NewJoint("Clavicle_L", "", mmath.NewVec3(0.03, 1.46, 0.02), mmath.NewQuaternion()),
		model.NewJoint("Shoulder_L", "Clavicle_L", mmath.NewVec3(0.15, 0, -0.03), mmath.NewQuaternion()),
		model.NewJoint("Clavicle_R", "", mmath.NewVec3(-0.03, 1.46, 0.02), mmath.NewQuaternion()),
		model.NewJoint("Shoulder_R", "Clavicle_R", mmath.NewVec3(-0.15, 0, -0.03), mmath.NewQuaternion()),
	}
	for _, joint := range joints {
		if err := skeleton.Append(joint); err != nil {
			t.Fatalf("append joint failed: %v", err)
		}
	}
	scene := model.NewScene(skeleton)
	return NewRigSession(scene), scene
}

func mustCreate(t *testing.T, uc *MuscleRigUsecase, session *RigSession, muscleType model.MuscleType, side model.Side) *CreateResult {
	t.Helper()
	result, err := uc.Create(session, CreateRequest{Type: muscleType, Side: side, Compression: 0.5, Stretch: 1.5})
	if err != nil {
		t.Fatalf("create failed: %s/%s: %v", muscleType, side, err)
	}
	return result
}

func leftKey(muscleType model.MuscleType) model.InstanceKey {
	return model.InstanceKey{Type: muscleType, Side: model.SideLeft}
}

func rightKey(muscleType model.MuscleType) model.InstanceKey {
	return model.InstanceKey{Type: muscleType, Side: model.SideRight}
}

// scapulaFreeBiped はサンプル二足から肩甲骨関節を除いた記述。
const scapulaFreeBiped = `
name: scapula_free
joints:
  - { name: Hips, position: [0.0, 1.0, 0.0] }
  - { name: Spine1, parent: Hips, position: [0.0, 0.10, 0.0] }
  - { name: Spine2, parent: Spine1, position: [0.0, 0.12, 0.0] }
  - { name: Spine3, parent: Spine2, position: [0.0, 0.12, 0.0] }
  - { name: Neck, parent: Spine3, position: [0.0, 0.16, 0.0] }
  - { name: Clavicle_L, parent: Spine3, position: [0.03, 0.12, 0.02] }
  - { name: Shoulder_L, parent: Clavicle_L, position: [0.15, 0.0, -0.03] }
  - { name: Elbow_L, parent: Shoulder_L, position: [0.28, 0.0, 0.0] }
  - { name: Clavicle_R, parent: Spine3, position: [-0.03, 0.12, 0.02] }
  - { name: Shoulder_R, parent: Clavicle_R, position: [-0.15, 0.0, -0.03] }
  - { name: Elbow_R, parent: Shoulder_R, position: [-0.28, 0.0, 0.0] }
`

func newScapulaFreeSession(t *testing.T) (*RigSession, *model.Scene) {
	t.Helper()
	skeleton, err := io_skeleton.ParseSkeletonYAML([]byte(scapulaFreeBiped))
	if err != nil {
		t.Fatalf("parse skeleton failed: %v", err)
	}
	scene := model.NewScene(skeleton)
	return NewRigSession(scene), scene
}
