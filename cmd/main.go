// 指示: miu200521358
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/miu200521358/mu_muscle/pkg/adapter/io_config"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_rig"
	"github.com/miu200521358/mu_muscle/pkg/adapter/io_skeleton"
	"github.com/miu200521358/mu_muscle/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/infra/base/mconfig"
	"github.com/miu200521358/mu_muscle/pkg/infra/base/mlogging"
	"github.com/miu200521358/mu_muscle/pkg/infra/controller"
	"github.com/miu200521358/mu_muscle/pkg/shared/base/logging"
	"github.com/miu200521358/mu_muscle/pkg/usecase/minteractor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const embeddedSkeletonName = "sample_biped.yaml"

// options は設定ファイルに載らないCLI引数を保持する。
type options struct {
	configPath   string
	skeletonPath string
	muscles      []string
	finalize     bool
	outputPath   string
	export       bool
	addScapula   bool
}

// main は筋肉リグ生成を実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	cmd := newRootCommand(out, errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// newRootCommand はルートコマンドを生成する。
func newRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &options{}
	v := mconfig.NewViper()

	cmd := &cobra.Command{
		Use:           "mu_muscle",
		Short:         messages.HelpUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.configPath != "" {
				v.SetConfigFile(opts.configPath)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
				}
			}
			cfg, err := mconfig.Unmarshal(v)
			if err != nil {
				return err
			}
			return execute(cfg, opts, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "設定ファイルパス")
	flags.StringVar(&opts.skeletonPath, "skeleton", "", "スケルトン記述パス (未指定時はサンプル二足)")
	flags.StringSliceVar(&opts.muscles, "muscle", nil, "筋肉種別 (複数指定可、all で全種別、torso / arm でグループ)")
	flags.BoolVar(&opts.finalize, "finalize", false, "生成後にすべて確定する")
	flags.StringVar(&opts.outputPath, "out", "", "リグ保存パス (.json / .yaml)")
	flags.BoolVar(&opts.export, "export", false, "既定の保存パスへリグを保存する")
	flags.BoolVar(&opts.addScapula, "add-scapula", false, "スケルトン記述の scapula 節から肩甲骨関節を追加する")

	flags.String("side", "left", "左右 (left / right / both / center)")
	flags.Float64("compression", 0.5, "圧縮率")
	flags.Float64("stretch", 1.5, "伸長率")
	flags.Bool("auto-mirror", true, "片側指定時に反対側へミラーする")
	flags.String("catalogue", "", "筋肉定義カタログパス")
	flags.String("lang", "ja", "表示言語 (ja / en)")
	flags.String("log-level", "info", "ログレベル")
	flags.String("log-file", "", "ログファイルパス")
	bindFlags(v, cmd)
	return cmd
}

// bindFlags はフラグを設定キーへ結び付ける。
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	bindings := map[string]string{
		"rig.side":        "side",
		"rig.compression": "compression",
		"rig.stretch":     "stretch",
		"rig.auto_mirror": "auto-mirror",
		"rig.catalogue":   "catalogue",
		"language":        "lang",
		"log.level":       "log-level",
		"log.file":        "log-file",
	}
	for key, name := range bindings {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

// execute は設定に従って筋肉リグを生成し、確定・保存する。
func execute(cfg *mconfig.AppConfig, opts *options, out io.Writer, errOut io.Writer) (err error) {
	logger, err := mlogging.NewLogger(cfg.Log, errOut)
	if err != nil {
		return err
	}
	previous := logging.DefaultLogger()
	logging.SetDefaultLogger(logger)
	defer func() {
		_ = logger.Sync()
		logging.SetDefaultLogger(previous)
	}()

	printer := messages.NewPrinter(cfg.Language)
	side, err := controller.ParseSideChoice(cfg.Rig.Side)
	if err != nil {
		return err
	}

	skeletonName := embeddedSkeletonName
	skeleton, err := loadSkeleton(opts.skeletonPath)
	if err != nil {
		return fmt.Errorf("%s: %w", printer.Sprintf(messages.MessageLoadFailed), err)
	}
	if opts.skeletonPath != "" {
		skeletonName = opts.skeletonPath
	}
	fmt.Fprintln(out, printer.Sprintf(messages.LogSkeletonLoaded, skeletonName, skeleton.Len()))

	catalogue, err := loadCatalogue(cfg.Rig.Catalogue)
	if err != nil {
		return fmt.Errorf("%s: %w", printer.Sprintf(messages.MessageLoadFailed), err)
	}
	types, err := resolveMuscleTypes(opts.muscles, catalogue)
	if err != nil {
		return err
	}

	session := minteractor.NewRigSession(model.NewScene(skeleton))
	rigController := controller.NewRigController(controller.RigControllerDeps{
		Usecase: minteractor.NewMuscleRigUsecase(minteractor.MuscleRigUsecaseDeps{
			Catalogue: catalogue,
			RigWriter: io_rig.NewRigWriter(),
			Logger:    logger,
		}),
		Session: session,
		Printer: printer,
		Out:     out,
		Logger:  logger,
	})

	if opts.addScapula {
		locators, loadErr := loadScapulaLocators(opts.skeletonPath)
		if loadErr != nil {
			return fmt.Errorf("%s: %w", printer.Sprintf(messages.MessageLoadFailed), loadErr)
		}
		if scapulaErr := rigController.AddScapula(side, locators, cfg.Rig.AutoMirror); scapulaErr != nil {
			return scapulaErr
		}
	}

	err = rigController.Create(controller.CreateOptions{
		Types:       types,
		Side:        side,
		Compression: cfg.Rig.Compression,
		Stretch:     cfg.Rig.Stretch,
		AutoMirror:  cfg.Rig.AutoMirror,
	})
	if opts.finalize && session.Len() > 0 {
		err = multierr.Append(err, rigController.FinalizeAll())
	}
	rigController.PrintSummary()

	if opts.export || strings.TrimSpace(opts.outputPath) != "" {
		if _, exportErr := rigController.Export(skeletonName, opts.outputPath); exportErr != nil {
			err = multierr.Append(err, exportErr)
		}
	}
	return err
}

// loadSkeleton はスケルトン記述を読み込む。未指定時は埋め込みのサンプル二足を使う。
func loadSkeleton(path string) (*model.Skeleton, error) {
	if strings.TrimSpace(path) == "" {
		return io_skeleton.LoadEmbeddedBiped()
	}
	return io_skeleton.LoadSkeleton(path)
}

// loadScapulaLocators はスケルトン記述の肩甲骨ロケーターを読み込む。埋め込みのサンプル二足には無い。
func loadScapulaLocators(path string) (map[model.Side]model.ScapulaLocators, error) {
	if strings.TrimSpace(path) == "" {
		return map[model.Side]model.ScapulaLocators{}, nil
	}
	return io_skeleton.LoadScapulaLocators(path)
}

// loadCatalogue は筋肉定義カタログを読み込む。未指定時は埋め込みカタログを使う。
func loadCatalogue(path string) (*io_config.MuscleCatalogue, error) {
	if strings.TrimSpace(path) == "" {
		return io_config.LoadEmbeddedCatalogue()
	}
	return io_config.LoadCatalogueFile(path)
}

// resolveMuscleTypes は筋肉種別の指定を解析する。all はカタログの全種別、torso / arm はグループ展開。
// 重複は最初の出現順で1つにまとめる。
func resolveMuscleTypes(values []string, catalogue *io_config.MuscleCatalogue) ([]model.MuscleType, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("筋肉種別を指定してください (--muscle)")
	}
	types := make([]model.MuscleType, 0, len(values))
	seen := map[model.MuscleType]struct{}{}
	appendType := func(muscleType model.MuscleType) {
		if _, exists := seen[muscleType]; exists {
			return
		}
		seen[muscleType] = struct{}{}
		types = append(types, muscleType)
	}
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), "all") {
			for _, muscleType := range catalogue.Types() {
				appendType(muscleType)
			}
			continue
		}
		if group, ok := model.ParseMuscleGroup(value); ok {
			for _, muscleType := range group.Types() {
				appendType(muscleType)
			}
			continue
		}
		muscleType, err := model.ParseMuscleType(value)
		if err != nil {
			return nil, err
		}
		appendType(muscleType)
	}
	return types, nil
}
