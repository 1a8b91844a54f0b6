// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
)

func TestScapulaJointsEnableScapulaMuscles(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newScapulaFreeSession(t)

	_, err := uc.Create(session, CreateRequest{Type: model.MuscleTypeTeresMajor, Side: model.SideLeft, Compression: 0.5, Stretch: 1.5})
	if diff := cmp.Diff([]string{"ScapulaTip_L", "Scapula_L"}, merrors.MissingJoints(err)); diff != "" {
		t.Fatalf("missing joints mismatch (-want +got):\n%s", diff)
	}

	added, err := uc.AddScapulaJoints(session, model.SideLeft, model.ScapulaLocators{
		Acromion: mmath.NewVec3(0.17, 1.47, -0.04),
		Root:     mmath.NewVec3(0.08, 1.41, -0.08),
		Tip:      mmath.NewVec3(0.08, 1.27, -0.07),
	})
	if err != nil {
		t.Fatalf("add scapula joints failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Acromion_L", "Scapula_L", "ScapulaTip_L"}, added.Joints); diff != "" {
		t.Fatalf("added joints mismatch (-want +got):\n%s", diff)
	}
	mirrored, err := uc.MirrorScapulaJoints(session, model.SideLeft)
	if err != nil {
		t.Fatalf("mirror scapula joints failed: %v", err)
	}
	if mirrored.Side != model.SideRight {
		t.Fatalf("mirrored side mismatch: got=%s want=%s", mirrored.Side, model.SideRight)
	}

	left, _ := scene.WorldTransform("ScapulaTip_L")
	right, _ := scene.WorldTransform("ScapulaTip_R")
	if !right.Position.NearEquals(left.Position.MirroredX(), 1e-9) {
		t.Fatalf("mirrored tip mismatch: left=%v right=%v", left.Position, right.Position)
	}

	mustCreate(t, uc, session, model.MuscleTypeTeresMajor, model.SideLeft)
	if _, err := uc.Mirror(session, leftKey(model.MuscleTypeTeresMajor), nil); err != nil {
		t.Fatalf("mirror muscle failed: %v", err)
	}
	if session.Len() != 2 {
		t.Fatalf("instance count mismatch: got=%d want=2", session.Len())
	}
}

func TestMirrorScapulaJointsRejectsCenter(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newScapulaFreeSession(t)
	before := scene.Skeleton().Len()

	if _, err := uc.MirrorScapulaJoints(session, model.SideNone); err == nil {
		t.Fatalf("mirror from center should fail")
	}
	if _, err := uc.MirrorScapulaJoints(session, model.SideLeft); err == nil {
		t.Fatalf("mirror without source joints should fail")
	}
	if scene.Skeleton().Len() != before {
		t.Fatalf("joint count mismatch: got=%d want=%d", scene.Skeleton().Len(), before)
	}
}
