// 指示: miu200521358
package messages

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// englishMessages は英語表示の対応表。日本語はキーをそのまま表示する。
var englishMessages = map[string]string{
	HelpUsageTitle:         "Usage",
	HelpUsage:              "Loads a skeleton description and builds the requested muscle rigs",
	LabelSkeletonPath:      "Skeleton",
	LabelMuscle:            "Muscle",
	LabelSide:              "Side",
	LabelCompression:       "Compression",
	LabelStretch:           "Stretch",
	LabelAutoMirror:        "Auto mirror",
	LabelOutputPath:        "Rig output",
	MessageLoadFailed:      "Load failed",
	MessageCreateFailed:    "Muscle creation failed",
	MessageMirrorFailed:    "Mirror failed",
	MessageFinalizeFailed:  "Finalize failed",
	MessageDeleteFailed:    "Delete failed",
	MessageExportFailed:    "Save failed",
	MessageMuscleRequired:  "Specify a muscle type",
	MessageUnknownSide:     "Invalid side: %s",
	MessageMissingJoints:   "Missing joints: %s",
	MessageClampedValue:    "Out-of-range value clamped: %s",
	MessageReplaced:        "Replaced existing %s",
	MessageNothingToDelete: "No muscle rigs to delete",
	MessageScapulaFailed:   "Scapula joint creation failed",
	MessageScapulaMissing:  "No scapula locators: %s",
	LogSkeletonLoaded:      "Skeleton loaded: %s (%d joints)",
	LogCreateSuccess:       "Muscle created: %s (%d nodes / %d constraints)",
	LogMirrorSuccess:       "Mirrored: %s -> %s",
	LogFinalizeSuccess:     "Finalized: %d (skipped %d / failed %d)",
	LogDeleteSuccess:       "Deleted: %d (%d nodes)",
	LogRefreshResult:       "Refreshed: %d (stale %d / recovered %d)",
	LogStaleInstance:       "Stale: %s (missing joints: %s)",
	LogExportSuccess:       "Rig saved: %s",
	LogInstanceSummary:     "%s: %s parts %d nodes %d compression %.2f stretch %.2f",
	LogProgressPrimitive:   "Built: %s %s (%d nodes)",
	LogScapulaAdded:        "Scapula joints added: %s (%s)",
}

var messageCatalog = newCatalog()

// newCatalog は日本語と英語のメッセージカタログを構築する。
func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.Japanese))
	for key, english := range englishMessages {
		_ = builder.SetString(language.Japanese, key, key)
		_ = builder.SetString(language.English, key, english)
	}
	return builder
}

// ParseLanguage は言語指定を解析する。未知の指定は日本語として扱う。
func ParseLanguage(lang string) language.Tag {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "en-us", "en_us", "english":
		return language.English
	default:
		return language.Japanese
	}
}

// NewPrinter は指定言語のメッセージプリンタを生成する。
func NewPrinter(lang string) *message.Printer {
	return message.NewPrinter(ParseLanguage(lang), message.Catalog(messageCatalog))
}
