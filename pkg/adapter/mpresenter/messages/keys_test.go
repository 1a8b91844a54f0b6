// 指示: miu200521358
package messages

import "testing"

func TestEveryKeyHasEnglishMessage(t *testing.T) {
	keys := []string{
		HelpUsageTitle, HelpUsage,
		LabelSkeletonPath, LabelMuscle, LabelSide, LabelCompression, LabelStretch, LabelAutoMirror, LabelOutputPath,
		MessageLoadFailed, MessageCreateFailed, MessageMirrorFailed, MessageFinalizeFailed, MessageDeleteFailed,
		MessageExportFailed, MessageMuscleRequired, MessageUnknownSide, MessageMissingJoints, MessageClampedValue,
		MessageReplaced, MessageNothingToDelete, MessageScapulaFailed, MessageScapulaMissing,
		LogSkeletonLoaded, LogCreateSuccess, LogMirrorSuccess, LogFinalizeSuccess, LogDeleteSuccess,
		LogRefreshResult, LogStaleInstance, LogExportSuccess, LogInstanceSummary, LogProgressPrimitive,
		LogScapulaAdded,
	}

	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("key should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("key should be unique: %s", key)
		}
		seen[key] = struct{}{}
		if _, ok := englishMessages[key]; !ok {
			t.Fatalf("english message missing: %s", key)
		}
	}
	if len(englishMessages) != len(keys) {
		t.Fatalf("english message count mismatch: got=%d want=%d", len(englishMessages), len(keys))
	}
}

func TestNewPrinterTranslates(t *testing.T) {
	got := NewPrinter("en").Sprintf(LogCreateSuccess, "Deltoid/Left", 15, 15)
	if got != "Muscle created: Deltoid/Left (15 nodes / 15 constraints)" {
		t.Fatalf("english mismatch: got=%s", got)
	}
	got = NewPrinter("ja").Sprintf(LogMirrorSuccess, "Deltoid/Left", "Deltoid/Right")
	if got != "ミラー成功: Deltoid/Left → Deltoid/Right" {
		t.Fatalf("japanese mismatch: got=%s", got)
	}
	if ParseLanguage("fr") != ParseLanguage("ja") {
		t.Fatalf("unknown language should fall back to japanese")
	}
}
