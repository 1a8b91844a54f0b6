// 指示: miu200521358
package minteractor

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_muscle/pkg/shared/base/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDeltoidMirrorAndFinalizeOnShoulderOnlySkeleton(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newShoulderOnlySession(t)
	reporter := &recordingReporter{}

	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	mirrored, err := uc.Mirror(session, leftKey(model.MuscleTypeDeltoid), reporter)
	if err != nil {
		t.Fatalf("mirror failed: %v", err)
	}
	if mirrored.Created.Instance.Key != rightKey(model.MuscleTypeDeltoid) {
		t.Fatalf("mirror target mismatch: got=%s", mirrored.Created.Instance.Key)
	}

	result, err := uc.FinalizeAll(session, reporter)
	if err != nil {
		t.Fatalf("finalize all failed: %v", err)
	}
	want := []model.InstanceKey{leftKey(model.MuscleTypeDeltoid), rightKey(model.MuscleTypeDeltoid)}
	if diff := cmp.Diff(want, result.Finalized); diff != "" {
		t.Fatalf("finalized keys mismatch (-want +got):\n%s", diff)
	}
	if result.LockedNodeCount != 12 || result.ClosingConstraintCount != 8 {
		t.Fatalf("finalize count mismatch: locked=%d closing=%d", result.LockedNodeCount, result.ClosingConstraintCount)
	}
	if scene.ConstraintCount() != 38 {
		t.Fatalf("constraint count mismatch: got=%d want=38", scene.ConstraintCount())
	}
	if reporter.count(RigProgressEventTypeInstanceMirrored) != 1 || reporter.count(RigProgressEventTypeInstanceFinalized) != 2 {
		t.Fatalf("progress events mismatch: %+v", reporter.events)
	}
	for _, summary := range session.Summaries() {
		if summary.State != model.InstanceStateFinalized {
			t.Fatalf("instance should be finalized: key=%s state=%s", summary.Key, summary.State)
		}
	}
}

func TestMirrorProducesSymmetricPose(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, _ := newBipedSession(t)

	if _, err := uc.Create(session, CreateRequest{Type: model.MuscleTypeDeltoid, Side: model.SideLeft, Compression: 0.7, Stretch: 2.2}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := uc.Mirror(session, leftKey(model.MuscleTypeDeltoid), nil); err != nil {
		t.Fatalf("mirror failed: %v", err)
	}

	right, ok := session.Instance(rightKey(model.MuscleTypeDeltoid))
	if !ok {
		t.Fatalf("mirrored instance should be registered")
	}
	if right.Compression() != 0.7 || right.Stretch() != 2.2 {
		t.Fatalf("mirrored parameters mismatch: compression=%f stretch=%f", right.Compression(), right.Stretch())
	}
	for _, part := range right.Parts {
		if part.Origin.Joint.Side != model.SideRight || part.Insertion.Joint.Name != "Shoulder_R" {
			t.Fatalf("mirrored anchors mismatch: part=%s origin=%v insertion=%v", part.Name, part.Origin, part.Insertion)
		}
	}

	leftPose, err := uc.Evaluate(session, leftKey(model.MuscleTypeDeltoid))
	if err != nil {
		t.Fatalf("evaluate left failed: %v", err)
	}
	rightPose, err := uc.Evaluate(session, rightKey(model.MuscleTypeDeltoid))
	if err != nil {
		t.Fatalf("evaluate right failed: %v", err)
	}
	for i, pose := range leftPose.Poses {
		mirroredPose := rightPose.Poses[i]
		for j, position := range pose.Chain {
			if !mirroredPose.Chain[j].NearEquals(position.MirroredX(), 1e-9) {
				t.Fatalf("chain should mirror: part=%s index=%d left=%v right=%v", pose.Name, j, position, mirroredPose.Chain[j])
			}
		}
	}
}

func TestMirrorErrors(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, _ := newBipedSession(t)

	_, err := uc.Mirror(session, leftKey(model.MuscleTypeDeltoid), nil)
	if !merrors.IsMirrorError(err) || !merrors.IsInstanceNotFoundError(err) {
		t.Fatalf("mirror of unknown instance should fail: got=%v", err)
	}

	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	if err := session.Scene().(*model.Scene).Skeleton().Rename("Shoulder_R", "UpperArm_R"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	_, err = uc.Mirror(session, leftKey(model.MuscleTypeDeltoid), nil)
	if !merrors.IsMirrorError(err) || !merrors.IsAnchorNotFoundError(err) {
		t.Fatalf("mirror without opposite anchors should fail: got=%v", err)
	}
	if session.Len() != 1 {
		t.Fatalf("failed mirror should not register: got=%d", session.Len())
	}
}

func TestFinalizeIsTerminal(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newBipedSession(t)
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	key := leftKey(model.MuscleTypeDeltoid)

	result, err := uc.Finalize(session, key, nil)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if result.LockedNodeCount != 6 || result.ClosingConstraintCount != 4 {
		t.Fatalf("finalize count mismatch: locked=%d closing=%d", result.LockedNodeCount, result.ClosingConstraintCount)
	}

	instance, _ := session.Instance(key)
	for _, part := range instance.Parts {
		if !part.VolumePreserved() {
			t.Fatalf("volume constraint should be set: part=%s", part.Name)
		}
		for _, id := range []string{part.PivotID, part.LocatorID} {
			node, ok := scene.Node(id)
			if !ok || !node.Locked {
				t.Fatalf("node should be locked: part=%s node=%v", part.Name, node)
			}
		}
	}

	_, err = uc.Finalize(session, key, nil)
	if !merrors.IsFinalizeError(err) || !errors.Is(err, merrors.ErrAlreadyFinalized) {
		t.Fatalf("second finalize should fail: got=%v", err)
	}
	before := snapshotNodePoses(scene, instance)
	_, err = uc.SetCompression(session, key, 0.3)
	if !errors.Is(err, merrors.ErrAlreadyFinalized) {
		t.Fatalf("parameter change after finalize should fail: got=%v", err)
	}
	if instance.Compression() != 0.5 {
		t.Fatalf("compression should be unchanged: got=%f", instance.Compression())
	}
	if diff := cmp.Diff(before, snapshotNodePoses(scene, instance)); diff != "" {
		t.Fatalf("node poses changed after rejected update (-before +after):\n%s", diff)
	}

	all, err := uc.FinalizeAll(session, nil)
	if err != nil {
		t.Fatalf("finalize all should skip finalized instance: %v", err)
	}
	if diff := cmp.Diff([]model.InstanceKey{key}, all.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalizedPoseAppliesBridgeAndVolume(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newBipedSession(t)
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	key := leftKey(model.MuscleTypeDeltoid)
	if _, err := uc.Finalize(session, key, nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if err := scene.Skeleton().SetLocalPosition("Shoulder_L", mmath.NewVec3(0.45, 0, -0.03)); err != nil {
		t.Fatalf("move shoulder failed: %v", err)
	}
	result, err := uc.Evaluate(session, key)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	a, b, c := result.Poses[0], result.Poses[1], result.Poses[2]
	middle := a.Chain[1].Added(c.Chain[1]).MuledScalar(0.5)
	if !b.Chain[1].NearEquals(middle, 1e-12) {
		t.Fatalf("bridged joint mismatch: got=%v want=%v", b.Chain[1], middle)
	}
	for _, pose := range result.Poses {
		if pose.Ratio <= 1 || pose.ClampedRatio > 1.5 {
			t.Fatalf("stretch ratio mismatch: part=%s ratio=%f clamped=%f", pose.Name, pose.Ratio, pose.ClampedRatio)
		}
		if pose.PivotScale.Y <= 1 || pose.PivotScale.X >= 1 {
			t.Fatalf("volume preserving scale mismatch: part=%s scale=%v", pose.Name, pose.PivotScale)
		}
	}

	instance, _ := session.Instance(key)
	node, _ := scene.Node(instance.Parts[0].PivotID)
	if !node.Scale.NearEquals(a.PivotScale, 1e-12) {
		t.Fatalf("scene pivot scale mismatch: got=%v want=%v", node.Scale, a.PivotScale)
	}
}

func TestDeleteAllRemovesEverything(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newBipedSession(t)
	reporter := &recordingReporter{}
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	if _, err := uc.Mirror(session, leftKey(model.MuscleTypeDeltoid), nil); err != nil {
		t.Fatalf("mirror failed: %v", err)
	}
	mustCreate(t, uc, session, model.MuscleTypeUpperArm, model.SideLeft)
	if _, err := uc.Finalize(session, leftKey(model.MuscleTypeDeltoid), nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	deltoid, _ := session.Instance(leftKey(model.MuscleTypeDeltoid))

	result, err := uc.DeleteAll(session, reporter)
	if err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	want := []model.InstanceKey{
		leftKey(model.MuscleTypeUpperArm),
		rightKey(model.MuscleTypeDeltoid),
		leftKey(model.MuscleTypeDeltoid),
	}
	if diff := cmp.Diff(want, result.Deleted); diff != "" {
		t.Fatalf("deleted order mismatch (-want +got):\n%s", diff)
	}
	if scene.NodeCount() != 0 || scene.ConstraintCount() != 0 {
		t.Fatalf("scene should be empty: nodes=%d constraints=%d", scene.NodeCount(), scene.ConstraintCount())
	}
	if session.Len() != 0 {
		t.Fatalf("registry should be empty: got=%d", session.Len())
	}
	if deltoid.State() != model.InstanceStateDeleted {
		t.Fatalf("deleted state mismatch: got=%s", deltoid.State())
	}
	if reporter.count(RigProgressEventTypeInstanceDeleted) != 3 {
		t.Fatalf("delete events mismatch: %+v", reporter.events)
	}

	_, err = uc.Delete(session, leftKey(model.MuscleTypeDeltoid), nil)
	if !merrors.IsInstanceNotFoundError(err) {
		t.Fatalf("delete of removed instance should fail: got=%v", err)
	}
}

func TestRefreshMarksStaleWithoutDeleting(t *testing.T) {
	previous := logging.DefaultLogger()
	core, logs := observer.New(zap.WarnLevel)
	logging.SetDefaultLogger(zap.New(core))
	t.Cleanup(func() { logging.SetDefaultLogger(previous) })

	uc := newEmbeddedUsecase(t)
	session, scene := newBipedSession(t)
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	mustCreate(t, uc, session, model.MuscleTypeUpperArm, model.SideLeft)
	nodesBefore := scene.NodeCount()

	if err := scene.Skeleton().Rename("Elbow_L", "Forearm_L"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	result := uc.Refresh(session)
	if result.Checked != 2 {
		t.Fatalf("checked mismatch: got=%d want=2", result.Checked)
	}
	want := []StaleInstance{{Key: leftKey(model.MuscleTypeUpperArm), MissingJoints: []string{"Elbow_L"}}}
	if diff := cmp.Diff(want, result.Stale); diff != "" {
		t.Fatalf("stale mismatch (-want +got):\n%s", diff)
	}
	if session.Len() != 2 || scene.NodeCount() != nodesBefore {
		t.Fatalf("refresh should not delete: len=%d nodes=%d/%d", session.Len(), scene.NodeCount(), nodesBefore)
	}
	if logs.FilterMessage("筋肉リグのアンカーが見つかりません").Len() != 1 {
		t.Fatalf("stale warning should be logged: %v", logs.All())
	}

	_, err := uc.SetCompression(session, leftKey(model.MuscleTypeUpperArm), 0.3)
	if !merrors.IsAnchorNotFoundError(err) {
		t.Fatalf("parameter change on stale instance should fail: got=%v", err)
	}
	finalized, err := uc.FinalizeAll(session, nil)
	if err == nil {
		t.Fatalf("finalize all should report the stale instance")
	}
	if diff := cmp.Diff([]model.InstanceKey{leftKey(model.MuscleTypeUpperArm)}, finalized.Failed); diff != "" {
		t.Fatalf("failed keys mismatch (-want +got):\n%s", diff)
	}

	if err := scene.Skeleton().Rename("Forearm_L", "Elbow_L"); err != nil {
		t.Fatalf("rename back failed: %v", err)
	}
	recovered := uc.Refresh(session)
	if diff := cmp.Diff([]model.InstanceKey{leftKey(model.MuscleTypeUpperArm)}, recovered.Recovered); diff != "" {
		t.Fatalf("recovered mismatch (-want +got):\n%s", diff)
	}
	instance, _ := session.Instance(leftKey(model.MuscleTypeUpperArm))
	if instance.Stale() {
		t.Fatalf("instance should no longer be stale")
	}
}

func TestRigRegistryRejectsDuplicateKey(t *testing.T) {
	registry := NewRigRegistry()
	first := model.NewMuscleInstance(leftKey(model.MuscleTypeDeltoid), 0.5, 1.5)
	if err := registry.Register(first); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := registry.Register(model.NewMuscleInstance(leftKey(model.MuscleTypeDeltoid), 0.5, 1.5)); err == nil {
		t.Fatalf("duplicate key should fail")
	}
	removed, ok := registry.Unregister(leftKey(model.MuscleTypeDeltoid))
	if !ok || removed != first || registry.Len() != 0 {
		t.Fatalf("unregister mismatch: ok=%v len=%d", ok, registry.Len())
	}
}

// nodePose はノードの書き込み済み姿勢を表す。
type nodePose struct {
	Transform mmath.Transform
	Scale     mmath.Vec3
}

// snapshotNodePoses はインスタンス所有ノードの姿勢をノード名で控える。
func snapshotNodePoses(scene *model.Scene, instance *model.MuscleInstance) map[string]nodePose {
	poses := map[string]nodePose{}
	for _, part := range instance.Parts {
		for _, id := range part.NodeIDs() {
			if node, ok := scene.Node(id); ok {
				poses[node.Name] = nodePose{Transform: node.Transform, Scale: node.Scale}
			}
		}
	}
	return poses
}

func TestSetCompressionClampsToRange(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, _ := newBipedSession(t)
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	key := leftKey(model.MuscleTypeDeltoid)

	result, err := uc.SetCompression(session, key, 5.0)
	if err != nil {
		t.Fatalf("set compression failed: %v", err)
	}
	if result.Compression != 2.0 {
		t.Fatalf("compression mismatch: got=%v want=%v", result.Compression, 2.0)
	}
	if diff := cmp.Diff([]string{model.RigWarningCompressionClamped}, result.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	instance, _ := session.Instance(key)
	for _, part := range instance.Parts {
		if part.Compression() != 2.0 {
			t.Fatalf("part compression mismatch: part=%s got=%v want=%v", part.Name, part.Compression(), 2.0)
		}
	}
}

func TestSetParameterNonFiniteFallsBackToDefault(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newBipedSession(t)
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	key := leftKey(model.MuscleTypeDeltoid)
	if _, err := uc.SetCompression(session, key, 0.3); err != nil {
		t.Fatalf("set compression failed: %v", err)
	}
	if _, err := uc.SetStretch(session, key, 2.5); err != nil {
		t.Fatalf("set stretch failed: %v", err)
	}

	compressed, err := uc.SetCompression(session, key, math.NaN())
	if err != nil {
		t.Fatalf("set compression failed: %v", err)
	}
	if compressed.Compression != 0.5 {
		t.Fatalf("compression mismatch: got=%v want=%v", compressed.Compression, 0.5)
	}
	if diff := cmp.Diff([]string{model.RigWarningCompressionClamped}, compressed.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	stretched, err := uc.SetStretch(session, key, math.Inf(1))
	if err != nil {
		t.Fatalf("set stretch failed: %v", err)
	}
	if stretched.Stretch != 1.5 {
		t.Fatalf("stretch mismatch: got=%v want=%v", stretched.Stretch, 1.5)
	}

	instance, _ := session.Instance(key)
	for name, pose := range snapshotNodePoses(scene, instance) {
		if !mmath.IsFinite(pose.Scale.X) || !mmath.IsFinite(pose.Scale.Y) || !mmath.IsFinite(pose.Transform.Position.X) {
			t.Fatalf("node pose should be finite: node=%s pose=%v", name, pose)
		}
	}
}

func TestSetCompressionRestoresValueWhenPoseFails(t *testing.T) {
	uc := newEmbeddedUsecase(t)
	session, scene := newBipedSession(t)
	mustCreate(t, uc, session, model.MuscleTypeDeltoid, model.SideLeft)
	key := leftKey(model.MuscleTypeDeltoid)
	instance, _ := session.Instance(key)
	if err := scene.RemoveNode(instance.Parts[0].LocatorID); err != nil {
		t.Fatalf("remove locator failed: %v", err)
	}

	if _, err := uc.SetCompression(session, key, 1.2); err == nil {
		t.Fatalf("set compression should fail without locator")
	}
	if instance.Compression() != 0.5 {
		t.Fatalf("compression mismatch: got=%v want=%v", instance.Compression(), 0.5)
	}
	for _, part := range instance.Parts {
		if part.Compression() != 0.5 {
			t.Fatalf("part compression mismatch: part=%s got=%v want=%v", part.Name, part.Compression(), 0.5)
		}
	}
}
