// 指示: miu200521358
// Package controller は利用者の指示を筋肉リグユースケースへ振り分ける。
package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/miu200521358/mu_muscle/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/domain/model/merrors"
	"github.com/miu200521358/mu_muscle/pkg/shared/base/logging"
	"github.com/miu200521358/mu_muscle/pkg/usecase/minteractor"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

// SideChoice は利用者が選ぶ左右指定を表す。
type SideChoice string

const (
	SideChoiceLeft   SideChoice = "left"
	SideChoiceRight  SideChoice = "right"
	SideChoiceBoth   SideChoice = "both"
	SideChoiceCenter SideChoice = "center"
)

// ParseSideChoice は左右指定を解析する。
func ParseSideChoice(value string) (SideChoice, error) {
	switch choice := SideChoice(strings.ToLower(strings.TrimSpace(value))); choice {
	case SideChoiceLeft, SideChoiceRight, SideChoiceBoth, SideChoiceCenter:
		return choice, nil
	default:
		return "", fmt.Errorf("左右の指定が不正です: %s", value)
	}
}

// sides は生成対象の左右区分を返す。both は両側を個別に生成する。
func (c SideChoice) sides() []model.Side {
	switch c {
	case SideChoiceLeft:
		return []model.Side{model.SideLeft}
	case SideChoiceRight:
		return []model.Side{model.SideRight}
	case SideChoiceBoth:
		return []model.Side{model.SideLeft, model.SideRight}
	default:
		return []model.Side{model.SideNone}
	}
}

// CreateOptions は生成指示を表す。
type CreateOptions struct {
	Types       []model.MuscleType
	Side        SideChoice
	Compression float64
	Stretch     float64
	AutoMirror  bool
}

// RigControllerDeps はコントローラーの依存を表す。
type RigControllerDeps struct {
	Usecase *minteractor.MuscleRigUsecase
	Session *minteractor.RigSession
	Printer *message.Printer
	Out     io.Writer
	Logger  *zap.Logger
}

// RigController は生成・ミラー・確定・削除・再検証の指示を振り分ける。
type RigController struct {
	usecase *minteractor.MuscleRigUsecase
	session *minteractor.RigSession
	printer *message.Printer
	out     io.Writer
	logger  *zap.Logger
}

// NewRigController はコントローラーを生成する。
func NewRigController(deps RigControllerDeps) *RigController {
	printer := deps.Printer
	if printer == nil {
		printer = messages.NewPrinter("ja")
	}
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &RigController{
		usecase: deps.Usecase,
		session: deps.Session,
		printer: printer,
		out:     out,
		logger:  logger,
	}
}

// ReportRigProgress はプリミティブ構築の進捗をデバッグログへ流す。
func (c *RigController) ReportRigProgress(event minteractor.RigProgressEvent) {
	if event.Type != minteractor.RigProgressEventTypePrimitiveBuilt {
		return
	}
	c.logger.Debug(c.printer.Sprintf(messages.LogProgressPrimitive, event.Key, event.PartName, event.NodeCount))
}

// Create は筋肉種別ごとに生成する。both は左右を個別に生成し、ミラーは行わない。
// 片側指定で自動ミラーが有効な場合は生成後に反対側へミラーする。
func (c *RigController) Create(options CreateOptions) error {
	if len(options.Types) == 0 {
		return fmt.Errorf("%s", c.printer.Sprintf(messages.MessageMuscleRequired))
	}
	mirror := options.AutoMirror && (options.Side == SideChoiceLeft || options.Side == SideChoiceRight)
	if options.AutoMirror && options.Side == SideChoiceCenter {
		c.logger.Warn("中央指定のためミラーを行いません", zap.String("warning", model.RigWarningMirrorSkipped))
	}

	var err error
	for _, muscleType := range options.Types {
		for _, side := range options.Side.sides() {
			result, createErr := c.usecase.Create(c.session, minteractor.CreateRequest{
				Type:             muscleType,
				Side:             side,
				Compression:      options.Compression,
				Stretch:          options.Stretch,
				ProgressReporter: c,
			})
			if createErr != nil {
				c.printFailure(messages.MessageCreateFailed, createErr)
				err = multierr.Append(err, createErr)
				continue
			}
			c.printCreated(result)

			if !mirror {
				continue
			}
			mirrored, mirrorErr := c.usecase.Mirror(c.session, result.Instance.Key, c)
			if mirrorErr != nil {
				c.printFailure(messages.MessageMirrorFailed, mirrorErr)
				err = multierr.Append(err, mirrorErr)
				continue
			}
			c.println(messages.LogMirrorSuccess, mirrored.Source, mirrored.Created.Instance.Key)
			c.printCreated(mirrored.Created)
		}
	}
	return err
}

// AddScapula は肩甲骨補助関節を追加する。片側指定で自動ミラーが有効なら反対側へミラーする。
func (c *RigController) AddScapula(side SideChoice, locators map[model.Side]model.ScapulaLocators, autoMirror bool) error {
	mirror := autoMirror && (side == SideChoiceLeft || side == SideChoiceRight)
	var err error
	for _, current := range side.sides() {
		locator, ok := locators[current]
		if !ok {
			missing := fmt.Errorf("%s", c.printer.Sprintf(messages.MessageScapulaMissing, current))
			c.printFailure(messages.MessageScapulaFailed, missing)
			err = multierr.Append(err, missing)
			continue
		}
		added, addErr := c.usecase.AddScapulaJoints(c.session, current, locator)
		if addErr != nil {
			c.printFailure(messages.MessageScapulaFailed, addErr)
			err = multierr.Append(err, addErr)
			continue
		}
		c.println(messages.LogScapulaAdded, added.Side, strings.Join(added.Joints, ", "))
		if !mirror {
			continue
		}
		mirrored, mirrorErr := c.usecase.MirrorScapulaJoints(c.session, current)
		if mirrorErr != nil {
			c.printFailure(messages.MessageScapulaFailed, mirrorErr)
			err = multierr.Append(err, mirrorErr)
			continue
		}
		c.println(messages.LogScapulaAdded, mirrored.Side, strings.Join(mirrored.Joints, ", "))
	}
	return err
}

// FinalizeAll は全インスタンスを確定する。
func (c *RigController) FinalizeAll() error {
	result, err := c.usecase.FinalizeAll(c.session, c)
	if err != nil {
		c.printFailure(messages.MessageFinalizeFailed, err)
	}
	if result != nil {
		c.println(messages.LogFinalizeSuccess, len(result.Finalized), len(result.Skipped), len(result.Failed))
	}
	return err
}

// DeleteAll は全インスタンスを削除する。
func (c *RigController) DeleteAll() error {
	if c.session.Len() == 0 {
		c.println(messages.MessageNothingToDelete)
		return nil
	}
	result, err := c.usecase.DeleteAll(c.session, c)
	if err != nil {
		c.printFailure(messages.MessageDeleteFailed, err)
	}
	if result != nil {
		c.println(messages.LogDeleteSuccess, len(result.Deleted), result.RemovedNodeCount)
	}
	return err
}

// Refresh は全インスタンスを再検証し、古い状態のものを表示する。
func (c *RigController) Refresh() *minteractor.RefreshResult {
	result := c.usecase.Refresh(c.session)
	for _, stale := range result.Stale {
		c.println(messages.LogStaleInstance, stale.Key, strings.Join(stale.MissingJoints, ", "))
	}
	c.println(messages.LogRefreshResult, result.Checked, len(result.Stale), len(result.Recovered))
	return result
}

// Export はスナップショットを保存する。
func (c *RigController) Export(skeletonPath, outputPath string) (string, error) {
	result, err := c.usecase.Export(c.session, minteractor.ExportRequest{SkeletonPath: skeletonPath, OutputPath: outputPath})
	if err != nil {
		c.printFailure(messages.MessageExportFailed, err)
		return "", err
	}
	c.println(messages.LogExportSuccess, result.OutputPath)
	return result.OutputPath, nil
}

// PrintSummary は登録済みインスタンスの一覧を表示する。
func (c *RigController) PrintSummary() {
	for _, summary := range c.session.Summaries() {
		c.println(messages.LogInstanceSummary,
			summary.Key, summary.State, summary.PartCount, summary.NodeCount, summary.Compression, summary.Stretch)
	}
}

// printCreated は生成結果と警告を表示する。
func (c *RigController) printCreated(result *minteractor.CreateResult) {
	c.println(messages.LogCreateSuccess, result.Instance.Key, result.CreatedNodeCount, result.CreatedConstraintCount)
	for _, warning := range result.Warnings {
		switch warning {
		case model.RigWarningInstanceReplaced:
			c.println(messages.MessageReplaced, result.Instance.Key)
		case model.RigWarningCompressionClamped, model.RigWarningStretchClamped:
			c.println(messages.MessageClampedValue, warning)
		}
	}
}

// printFailure は失敗の見出しと見つからない関節を表示する。
func (c *RigController) printFailure(titleKey string, err error) {
	title := c.printer.Sprintf(titleKey)
	c.logger.Error(title, zap.Error(err))
	fmt.Fprintf(c.out, "%s: %v\n", title, err)
	if missing := merrors.MissingJoints(err); len(missing) > 0 {
		c.println(messages.MessageMissingJoints, strings.Join(missing, ", "))
	}
}

// println は翻訳済みの1行を出力する。
func (c *RigController) println(key string, args ...any) {
	fmt.Fprintln(c.out, c.printer.Sprintf(key, args...))
}
