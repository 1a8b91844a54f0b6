// 指示: miu200521358
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_config"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_rig"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
)

func TestRunCreatesMirrorsFinalizesAndExports(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "rig", "deltoid.json")
	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)

	err := run([]string{
		"--muscle", "deltoid",
		"--side", "left",
		"--finalize",
		"--lang", "en",
		"--log-level", "warn",
		"--out", outPath,
	}, outBuf, errBuf)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, errBuf.String())
	}

	text := outBuf.String()
	for _, want := range []string{
		"Skeleton loaded: sample_biped.yaml (18 joints)",
		"Mirrored: Deltoid/Left -> Deltoid/Right",
		"Finalized: 2 (skipped 0 / failed 0)",
		"Rig saved: " + outPath,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output should contain %q:\n%s", want, text)
		}
	}

	snapshot, err := io_rig.Load(outPath)
	if err != nil {
		t.Fatalf("load snapshot failed: %v", err)
	}
	if len(snapshot.Instances) != 2 || snapshot.Instances[1].Side != "Right" {
		t.Fatalf("snapshot mismatch: %+v", snapshot.Instances)
	}
}

func TestRunWithSkeletonFileAndBothSides(t *testing.T) {
	dir := t.TempDir()
	skeletonPath := filepath.Join(dir, "shoulders.yaml")
	data := []byte(`
name: shoulders
joints:
  - { name: Clavicle_L, position: [0.03, 1.46, 0.02] }
  - { name: Shoulder_L, parent: Clavicle_L, position: [0.15, 0.0, -0.03] }
  - { name: Clavicle_R, position: [-0.03, 1.46, 0.02] }
  - { name: Shoulder_R, parent: Clavicle_R, position: [-0.15, 0.0, -0.03] }
`)
	if err := os.WriteFile(skeletonPath, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	outBuf := bytes.NewBuffer(nil)

	err := run([]string{"--skeleton", skeletonPath, "--muscle", "Deltoid", "--side", "both", "--lang", "en", "--log-level", "error"}, outBuf, bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Count(outBuf.String(), "Muscle created") != 2 || strings.Contains(outBuf.String(), "Mirrored") {
		t.Fatalf("both should create each side once:\n%s", outBuf.String())
	}
}

func TestRunReportsMissingJoints(t *testing.T) {
	outBuf := bytes.NewBuffer(nil)
	err := run([]string{"--muscle", "UpperArm", "--skeleton", writeArmlessSkeleton(t), "--lang", "en", "--log-level", "error"}, outBuf, bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(outBuf.String(), "Missing joints: Elbow_L, Shoulder_L, Wrist_L") {
		t.Fatalf("missing joints should be listed:\n%s", outBuf.String())
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	cases := [][]string{
		{"--side", "left"},
		{"--muscle", "Soleus"},
		{"--muscle", "Deltoid", "--side", "upper"},
		{"--muscle", "Deltoid", "--out", "rig.fbx"},
	}
	for _, args := range cases {
		if err := run(append(args, "--log-level", "error"), bytes.NewBuffer(nil), bytes.NewBuffer(nil)); err == nil {
			t.Fatalf("expected error: args=%v", args)
		}
	}
}

func TestResolveMuscleTypesAll(t *testing.T) {
	catalogue, err := io_config.LoadEmbeddedCatalogue()
	if err != nil {
		t.Fatalf("load catalogue failed: %v", err)
	}
	types, err := resolveMuscleTypes([]string{"all"}, catalogue)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(types) != len(model.AllMuscleTypes()) {
		t.Fatalf("all should expand to every type: got=%v", types)
	}
}

func TestResolveMuscleTypesGroups(t *testing.T) {
	catalogue, err := io_config.LoadEmbeddedCatalogue()
	if err != nil {
		t.Fatalf("load catalogue failed: %v", err)
	}
	types, err := resolveMuscleTypes([]string{"Deltoid", "torso", "ARM"}, catalogue)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := []model.MuscleType{
		model.MuscleTypeDeltoid,
		model.MuscleTypeTrapezius,
		model.MuscleTypeLatissimusDorsi,
		model.MuscleTypeTeresMajor,
		model.MuscleTypePectoralisMajor,
		model.MuscleTypeUpperArm,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("group expansion mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAddsScapulaJointsFromSkeletonFile(t *testing.T) {
	skeletonPath := filepath.Join(t.TempDir(), "no_scapula.yaml")
	data := []byte(`
name: no_scapula
joints:
  - { name: Spine3, position: [0.0, 1.34, 0.0] }
  - { name: Neck, parent: Spine3, position: [0.0, 0.16, 0.0] }
  - { name: Clavicle_L, parent: Spine3, position: [0.03, 0.12, 0.02] }
  - { name: Shoulder_L, parent: Clavicle_L, position: [0.15, 0.0, -0.03] }
  - { name: Elbow_L, parent: Shoulder_L, position: [0.28, 0.0, 0.0] }
  - { name: Clavicle_R, parent: Spine3, position: [-0.03, 0.12, 0.02] }
  - { name: Shoulder_R, parent: Clavicle_R, position: [-0.15, 0.0, -0.03] }
  - { name: Elbow_R, parent: Shoulder_R, position: [-0.28, 0.0, 0.0] }
scapula:
  left:
    acromion: [0.17, 1.47, -0.04]
    root: [0.08, 1.41, -0.08]
    tip: [0.08, 1.27, -0.07]
`)
	if err := os.WriteFile(skeletonPath, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	outBuf := bytes.NewBuffer(nil)

	err := run([]string{"--skeleton", skeletonPath, "--add-scapula", "--muscle", "TeresMajor", "--side", "left", "--lang", "en", "--log-level", "error"}, outBuf, bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, outBuf.String())
	}
	text := outBuf.String()
	if got := strings.Count(text, "Scapula joints added"); got != 2 {
		t.Fatalf("scapula lines mismatch: got=%d want=2\n%s", got, text)
	}
	if !strings.Contains(text, "Mirrored: TeresMajor/Left -> TeresMajor/Right") {
		t.Fatalf("scapula muscle should mirror:\n%s", text)
	}

	if err := run([]string{"--add-scapula", "--muscle", "Deltoid", "--log-level", "error"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil)); err == nil {
		t.Fatalf("embedded biped has no scapula locators and should fail")
	}
}

// writeArmlessSkeleton は腕の無いスケルトン記述を書き出す。
func writeArmlessSkeleton(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "armless.json")
	data := []byte(`{"name": "armless", "joints": [{"name": "Hips", "position": [0, 1, 0]}, {"name": "ScapulaTip_L", "parent": "Hips", "position": [0.05, 0.2, -0.1]}]}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return path
}
