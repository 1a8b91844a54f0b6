// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/miu200521358/mu_muscle/pkg/domain/mmath"
	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/usecase/port/moutput"
	"go.uber.org/zap"
)

var nowFunc = time.Now

// ExportRequest はリグ保存要求を表す。
type ExportRequest struct {
	SkeletonPath string
	OutputPath   string
	Writer       moutput.IRigWriter
}

// ExportResult はリグ保存結果を表す。
type ExportResult struct {
	OutputPath    string
	InstanceCount int
	Snapshot      *model.RigSnapshot
}

// BuildDefaultOutputPath はスケルトン記述パスから既定のリグ保存パスを生成する。
func BuildDefaultOutputPath(skeletonPath string) string {
	return buildDefaultOutputPathAt(skeletonPath, nowFunc())
}

// buildDefaultOutputPathAt は指定時刻で既定のリグ保存パスを生成する。
func buildDefaultOutputPathAt(skeletonPath string, now time.Time) string {
	dir := filepath.Dir(skeletonPath)
	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(skeletonPath), filepath.Ext(skeletonPath)))
	if base == "" || base == "." {
		base = "muscle"
	}
	stamp := now.Format("20060102150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s", base, stamp), base+"_muscle.json")
}

// resolveRigOutputPath は保存先パスを解決し、拡張子を検証する。
func resolveRigOutputPath(skeletonPath, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(skeletonPath)
	}
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".json", ".yaml", ".yml":
		return resolved, nil
	default:
		return "", fmt.Errorf("保存先拡張子が .json / .yaml ではありません: %s", resolved)
	}
}

// Snapshot は登録済みインスタンスを登録順に書き出す。
func (uc *MuscleRigUsecase) Snapshot(session *RigSession, skeletonName string) (*model.RigSnapshot, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return buildSnapshot(session.scene, session.registry.Instances(), skeletonName)
}

// Export は登録済みインスタンスのスナップショットを保存する。
func (uc *MuscleRigUsecase) Export(session *RigSession, request ExportRequest) (*ExportResult, error) {
	writer := request.Writer
	if writer == nil {
		writer = uc.rigWriter
	}
	if writer == nil {
		return nil, fmt.Errorf("リグ保存リポジトリが設定されていません")
	}
	outputPath, err := resolveRigOutputPath(request.SkeletonPath, request.OutputPath)
	if err != nil {
		return nil, err
	}

	skeletonName := strings.TrimSuffix(filepath.Base(request.SkeletonPath), filepath.Ext(request.SkeletonPath))
	snapshot, err := uc.Snapshot(session, skeletonName)
	if err != nil {
		return nil, err
	}
	if err := writer.Save(outputPath, snapshot); err != nil {
		return nil, fmt.Errorf("リグの保存に失敗しました: %w", err)
	}
	uc.log().Info("筋肉リグを保存しました",
		zap.String("path", outputPath),
		zap.Int("instances", len(snapshot.Instances)))
	return &ExportResult{OutputPath: outputPath, InstanceCount: len(snapshot.Instances), Snapshot: snapshot}, nil
}

// buildSnapshot はシーンのノードとコンストレイントを名前参照に置き換えて書き出す。
func buildSnapshot(scene moutput.IScene, instances []*model.MuscleInstance, skeletonName string) (*model.RigSnapshot, error) {
	snapshot := &model.RigSnapshot{Skeleton: skeletonName, Instances: make([]model.InstanceSnapshot, 0, len(instances))}
	for _, instance := range instances {
		key := instance.Key()
		instanceSnapshot := model.InstanceSnapshot{
			Type:        string(key.Type),
			Side:        key.Side.String(),
			State:       instance.State().String(),
			Stale:       instance.Stale(),
			Compression: instance.Compression(),
			Stretch:     instance.Stretch(),
			Parts:       make([]model.PartSnapshot, 0, len(instance.Parts)),
		}
		for _, part := range instance.Parts {
			partSnapshot := model.PartSnapshot{
				Name:       part.Name,
				Part:       part.PartName,
				Origin:     part.Origin.Joint.Name,
				Insertion:  part.Insertion.Joint.Name,
				RestLength: part.RestLength,
			}
			for _, id := range part.NodeIDs() {
				node, ok := scene.Node(id)
				if !ok {
					return nil, fmt.Errorf("ノードが見つかりません: %s: %s", part.Name, id)
				}
				partSnapshot.Nodes = append(partSnapshot.Nodes, snapshotNode(node))
			}
			constraints, err := snapshotConstraints(scene, part.ConstraintIDs)
			if err != nil {
				return nil, fmt.Errorf("コンストレイントの書き出しに失敗しました: %s: %w", part.Name, err)
			}
			partSnapshot.Constraints = constraints
			instanceSnapshot.Parts = append(instanceSnapshot.Parts, partSnapshot)
		}
		closing, err := snapshotConstraints(scene, instance.ClosingConstraintIDs)
		if err != nil {
			return nil, fmt.Errorf("コンストレイントの書き出しに失敗しました: %s: %w", key, err)
		}
		instanceSnapshot.ClosingConstraints = closing
		snapshot.Instances = append(snapshot.Instances, instanceSnapshot)
	}
	return snapshot, nil
}

// snapshotNode はノードを保存形式へ変換する。
func snapshotNode(node *model.RigNode) model.NodeSnapshot {
	rotation := node.Transform.Rotation
	return model.NodeSnapshot{
		Name:     node.Name,
		Kind:     node.Kind.String(),
		Parent:   node.ParentJoint,
		Locked:   node.Locked,
		Position: vecArray(node.Transform.Position),
		Rotation: [4]float64{rotation.V[0], rotation.V[1], rotation.V[2], rotation.W},
		Scale:    vecArray(node.Scale),
	}
}

// snapshotConstraints はコンストレイントを保存形式へ変換する。
func snapshotConstraints(scene moutput.IScene, ids []string) ([]model.ConstraintSnapshot, error) {
	nodeName := func(id string) (string, error) {
		node, ok := scene.Node(id)
		if !ok {
			return "", fmt.Errorf("ノードが見つかりません: %s", id)
		}
		return node.Name, nil
	}

	snapshots := make([]model.ConstraintSnapshot, 0, len(ids))
	for _, id := range ids {
		constraint, ok := scene.Constraint(id)
		if !ok {
			return nil, fmt.Errorf("コンストレイントが見つかりません: %s", id)
		}
		driven, err := nodeName(constraint.DrivenID)
		if err != nil {
			return nil, err
		}
		targets := make([]model.TargetSnapshot, 0, len(constraint.Targets))
		for _, target := range constraint.Targets {
			snapshotTarget := model.TargetSnapshot{Joint: target.JointName, Weight: target.Weight}
			if target.NodeID != "" {
				if snapshotTarget.Node, err = nodeName(target.NodeID); err != nil {
					return nil, err
				}
			}
			targets = append(targets, snapshotTarget)
		}
		snapshots = append(snapshots, model.ConstraintSnapshot{
			Name:    constraint.Name,
			Kind:    constraint.Kind.String(),
			Driven:  driven,
			Targets: targets,
		})
	}
	return snapshots, nil
}

// vecArray はベクトルを配列へ変換する。
func vecArray(v mmath.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
