// 指示: miu200521358
package model

import (
	"fmt"

	"go.uber.org/multierr"
)

// SceneMutator はトランザクションが操作するシーン変更契約を表す。
type SceneMutator interface {
	AddNode(node *RigNode) error
	RemoveNode(id string) error
	AddConstraint(constraint *Constraint) error
	RemoveConstraint(id string) error
	LockNode(id string, locked bool) error
}

// sceneOperationKind はトランザクションに記録する操作種別。
type sceneOperationKind int

const (
	sceneOperationAddNode sceneOperationKind = iota
	sceneOperationAddConstraint
	sceneOperationLockNode
)

// sceneOperation はトランザクションに記録する操作。
type sceneOperation struct {
	kind sceneOperationKind
	id   string
}

// SceneSavepoint はトランザクション内の巻き戻し位置を表す。
type SceneSavepoint int

// SceneTransaction はシーン変更を記録し、失敗時に逆順で取り消す。
type SceneTransaction struct {
	scene      SceneMutator
	operations []sceneOperation
	closed     bool
}

// NewSceneTransaction はトランザクションを開始する。
func NewSceneTransaction(scene SceneMutator) *SceneTransaction {
	return &SceneTransaction{scene: scene}
}

// AddNode はノードを追加して記録する。
func (tx *SceneTransaction) AddNode(node *RigNode) error {
	if err := tx.ensureOpen(); err != nil {
		return err
	}
	if err := tx.scene.AddNode(node); err != nil {
		return err
	}
	tx.operations = append(tx.operations, sceneOperation{kind: sceneOperationAddNode, id: node.ID()})
	return nil
}

// AddConstraint はコンストレイントを追加して記録する。
func (tx *SceneTransaction) AddConstraint(constraint *Constraint) error {
	if err := tx.ensureOpen(); err != nil {
		return err
	}
	if err := tx.scene.AddConstraint(constraint); err != nil {
		return err
	}
	tx.operations = append(tx.operations, sceneOperation{kind: sceneOperationAddConstraint, id: constraint.ID()})
	return nil
}

// LockNode はノードをロックして記録する。取り消し時はロックを解除する。
func (tx *SceneTransaction) LockNode(id string) error {
	if err := tx.ensureOpen(); err != nil {
		return err
	}
	if err := tx.scene.LockNode(id, true); err != nil {
		return err
	}
	tx.operations = append(tx.operations, sceneOperation{kind: sceneOperationLockNode, id: id})
	return nil
}

// Savepoint は現在の巻き戻し位置を返す。
func (tx *SceneTransaction) Savepoint() SceneSavepoint {
	return SceneSavepoint(len(tx.operations))
}

// RollbackTo は巻き戻し位置以降の操作を逆順で取り消す。
func (tx *SceneTransaction) RollbackTo(savepoint SceneSavepoint) error {
	if savepoint < 0 || int(savepoint) > len(tx.operations) {
		return fmt.Errorf("巻き戻し位置が不正です: %d", savepoint)
	}
	var err error
	for i := len(tx.operations) - 1; i >= int(savepoint); i-- {
		operation := tx.operations[i]
		switch operation.kind {
		case sceneOperationAddConstraint:
			err = multierr.Append(err, tx.scene.RemoveConstraint(operation.id))
		case sceneOperationAddNode:
			err = multierr.Append(err, tx.scene.RemoveNode(operation.id))
		case sceneOperationLockNode:
			err = multierr.Append(err, tx.scene.LockNode(operation.id, false))
		}
	}
	tx.operations = tx.operations[:savepoint]
	return err
}

// Rollback は全操作を取り消してトランザクションを閉じる。
func (tx *SceneTransaction) Rollback() error {
	if tx.closed {
		return nil
	}
	err := tx.RollbackTo(0)
	tx.closed = true
	return err
}

// Commit は変更を確定してトランザクションを閉じる。
func (tx *SceneTransaction) Commit() {
	tx.closed = true
	tx.operations = nil
}

// NodeCount は記録済みのノード追加数を返す。
func (tx *SceneTransaction) NodeCount() int {
	return tx.countOperations(sceneOperationAddNode)
}

// ConstraintCount は記録済みのコンストレイント追加数を返す。
func (tx *SceneTransaction) ConstraintCount() int {
	return tx.countOperations(sceneOperationAddConstraint)
}

func (tx *SceneTransaction) countOperations(kind sceneOperationKind) int {
	count := 0
	for _, operation := range tx.operations {
		if operation.kind == kind {
			count++
		}
	}
	return count
}

func (tx *SceneTransaction) ensureOpen() error {
	if tx.closed {
		return fmt.Errorf("トランザクションは既に終了しています")
	}
	return nil
}
