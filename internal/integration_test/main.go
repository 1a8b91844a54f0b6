// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_muscle/pkg/adapter/io_config"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_rig"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_skeleton"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
	embeddedSkeleton   = "<embedded>"
)

// batchConfig はバッチ生成の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
	Skeletons  []string
}

// rigEntry は1スケルトン分の生成入力情報を表す。
type rigEntry struct {
	Index        int
	SkeletonPath string
	Name         string
	CaseDir      string
	OutputPath   string
}

// rigResult は1スケルトン分の生成結果を表す。
type rigResult struct {
	Entry     rigEntry
	Status    string
	Duration  time.Duration
	Err       error
	StageInfo string
}

// rigProgressCollector は進捗イベントを種別ごとに数える。
type rigProgressCollector struct {
	eventCounts map[minteractor.RigProgressEventType]int
	maxNodes    int
}

// main は全筋肉種別を左右に生成・確定・保存・削除する一括検証を実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括生成を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildRigEntries(config.OutputRoot, config.Skeletons)
	results := executeBatch(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。位置引数はスケルトン記述パス。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "生成結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "生成せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	skeletons := append([]string{embeddedSkeleton}, flag.Args()...)
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
		Skeletons:  skeletons,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// buildRigEntries はスケルトン一覧から生成対象エントリを作る。
func buildRigEntries(outputRoot string, skeletonPaths []string) []rigEntry {
	entries := make([]rigEntry, 0, len(skeletonPaths))
	for i, path := range skeletonPaths {
		name := "sample_biped"
		if path != embeddedSkeleton {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", i+1, name))
		entries = append(entries, rigEntry{
			Index:        i + 1,
			SkeletonPath: path,
			Name:         name,
			CaseDir:      caseDir,
			OutputPath:   filepath.Join(caseDir, name+"_muscle.json"),
		})
	}
	return entries
}

// executeBatch は全エントリを順次処理する。
func executeBatch(config batchConfig, entries []rigEntry) []rigResult {
	results := make([]rigResult, 0, len(entries))
	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 生成開始: skeleton=%s\n", entry.Index, total, entry.Name)
		result := processEntry(config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 生成成功: skeleton=%s output=%s elapsed=%s\n", entry.Index, total, entry.Name, entry.OutputPath, result.Duration.Round(time.Millisecond))
			fmt.Printf("[%d/%d] 進捗: %s\n", entry.Index, total, result.StageInfo)
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: skeleton=%s output=%s\n", entry.Index, total, entry.SkeletonPath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: skeleton=%s reason=%v\n", entry.Index, total, entry.SkeletonPath, result.Err)
		default:
			fmt.Printf("[%d/%d] 生成失敗: skeleton=%s reason=%v\n", entry.Index, total, entry.Name, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// processEntry は1スケルトン分の生成・ミラー・確定・保存・削除を実行する。
func processEntry(config batchConfig, entry rigEntry) rigResult {
	result := rigResult{Entry: entry, Status: "failed"}
	if entry.SkeletonPath != embeddedSkeleton {
		if _, err := os.Stat(entry.SkeletonPath); err != nil {
			result.Status = "skipped_missing"
			result.Err = err
			return result
		}
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	skeleton, err := loadSkeleton(entry.SkeletonPath)
	if err != nil {
		result.Err = err
		return result
	}
	catalogue, err := io_config.LoadEmbeddedCatalogue()
	if err != nil {
		result.Err = err
		return result
	}
	scene := model.NewScene(skeleton)
	session := minteractor.NewRigSession(scene)
	usecase := minteractor.NewMuscleRigUsecase(minteractor.MuscleRigUsecaseDeps{
		Catalogue: catalogue,
		RigWriter: io_rig.NewRigWriter(),
	})
	collector := newRigProgressCollector()

	for _, muscleType := range catalogue.Types() {
		created, err := usecase.Create(session, minteractor.CreateRequest{
			Type:             muscleType,
			Side:             model.SideLeft,
			Compression:      0.5,
			Stretch:          1.5,
			ProgressReporter: collector,
		})
		if err != nil {
			result.Err = fmt.Errorf("Createに失敗しました: %s: %w", muscleType, err)
			return result
		}
		if _, err := usecase.Mirror(session, created.Instance.Key, collector); err != nil {
			result.Err = fmt.Errorf("Mirrorに失敗しました: %s: %w", muscleType, err)
			return result
		}
	}
	if _, err := usecase.FinalizeAll(session, collector); err != nil {
		result.Err = fmt.Errorf("FinalizeAllに失敗しました: %w", err)
		return result
	}
	if _, err := usecase.Export(session, minteractor.ExportRequest{SkeletonPath: entry.Name, OutputPath: entry.OutputPath}); err != nil {
		result.Err = fmt.Errorf("Exportに失敗しました: %w", err)
		return result
	}
	if _, err := usecase.DeleteAll(session, collector); err != nil {
		result.Err = fmt.Errorf("DeleteAllに失敗しました: %w", err)
		return result
	}
	if scene.NodeCount() != 0 || scene.ConstraintCount() != 0 {
		result.Err = fmt.Errorf("削除後にノードが残っています: nodes=%d constraints=%d", scene.NodeCount(), scene.ConstraintCount())
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.StageInfo = collector.summary()
	return result
}

// loadSkeleton はスケルトン記述を読み込む。
func loadSkeleton(path string) (*model.Skeleton, error) {
	if path == embeddedSkeleton {
		return io_skeleton.LoadEmbeddedBiped()
	}
	return io_skeleton.LoadSkeleton(path)
}

// newRigProgressCollector は進捗収集器を生成する。
func newRigProgressCollector() *rigProgressCollector {
	return &rigProgressCollector{eventCounts: map[minteractor.RigProgressEventType]int{}}
}

// ReportRigProgress は進捗イベントを数える。
func (c *rigProgressCollector) ReportRigProgress(event minteractor.RigProgressEvent) {
	c.eventCounts[event.Type]++
	if event.NodeCount > c.maxNodes {
		c.maxNodes = event.NodeCount
	}
}

// summary は収集結果を1行にまとめる。
func (c *rigProgressCollector) summary() string {
	keys := make([]string, 0, len(c.eventCounts))
	for eventType := range c.eventCounts {
		keys = append(keys, string(eventType))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", key, c.eventCounts[minteractor.RigProgressEventType(key)]))
	}
	parts = append(parts, fmt.Sprintf("maxNodes=%d", c.maxNodes))
	return strings.Join(parts, " ")
}

// printBatchSummary は状態ごとの件数を表示する。
func printBatchSummary(results []rigResult) {
	counts := map[string]int{}
	for _, result := range results {
		counts[result.Status]++
	}
	fmt.Printf("完了: succeeded=%d failed=%d dry_run=%d skipped_missing=%d\n",
		counts["succeeded"], counts["failed"], counts["dry_run"], counts["skipped_missing"])
}
