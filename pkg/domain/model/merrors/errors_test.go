// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
)

func TestMissingJointsCollectsFromAggregatedTree(t *testing.T) {
	aggregated := multierr.Combine(
		&BuildError{Primitive: "LeftDeltoidA", Err: NewAnchorNotFoundError("Shoulder_L", "L")},
		NewAnchorNotFoundError("Clavicle_L", "L"),
		fmt.Errorf("wrapped: %w", NewAnchorNotFoundError("Shoulder_L", "L")),
	)
	err := &MirrorError{
		MuscleType: "Deltoid",
		From:       "R",
		To:         "L",
		Err:        &TemplateError{MuscleType: "Deltoid", Side: "L", Err: aggregated},
	}

	got := MissingJoints(err)
	want := []string{"Clavicle_L", "Shoulder_L"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("missing joints mismatch (-want +got):\n%s", diff)
	}
	if !IsAnchorNotFoundError(err) {
		t.Fatalf("anchor not found should be detected through wrappers")
	}
	if !IsTemplateError(err) || !IsMirrorError(err) || !IsBuildError(err) {
		t.Fatalf("typed errors should be detected through wrappers")
	}
}

func TestMissingJointsEmptyForUnrelatedError(t *testing.T) {
	if got := MissingJoints(errors.New("other")); len(got) != 0 {
		t.Fatalf("missing joints should be empty: got=%v", got)
	}
	if got := MissingJoints(nil); len(got) != 0 {
		t.Fatalf("missing joints should be empty for nil: got=%v", got)
	}
}

func TestFinalizeErrorWrapsSentinel(t *testing.T) {
	err := fmt.Errorf("edit: %w", &FinalizeError{Key: "Deltoid/Left", Err: ErrAlreadyFinalized})
	if !IsFinalizeError(err) {
		t.Fatalf("finalize error should be detected")
	}
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("sentinel should be reachable via errors.Is")
	}
	if errors.Is(err, ErrNotBuilt) {
		t.Fatalf("unexpected sentinel match")
	}
}
