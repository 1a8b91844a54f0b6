// 指示: miu200521358
package minteractor

import (
	"fmt"
	"sync"

	"github.com/miu200521358/mu_muscle/pkg/domain/model"
	"github.com/miu200521358/mu_muscle/pkg/usecase/port/moutput"
)

// RigRegistry は (筋肉種別, 左右) をキーに筋肉インスタンスを生成順で保持する。
type RigRegistry struct {
	entries map[model.InstanceKey]*model.MuscleInstance
	order   []model.InstanceKey
}

// NewRigRegistry は空のレジストリを生成する。
func NewRigRegistry() *RigRegistry {
	return &RigRegistry{entries: map[model.InstanceKey]*model.MuscleInstance{}}
}

// Register はインスタンスを登録する。同一キーが登録済みならエラー。
func (r *RigRegistry) Register(instance *model.MuscleInstance) error {
	key := instance.Key()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("筋肉リグは既に登録されています: %s", key)
	}
	r.entries[key] = instance
	r.order = append(r.order, key)
	return nil
}

// Unregister は登録を解除し、解除したインスタンスを返す。
func (r *RigRegistry) Unregister(key model.InstanceKey) (*model.MuscleInstance, bool) {
	instance, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	delete(r.entries, key)
	for i, current := range r.order {
		if current == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return instance, true
}

// Get はキーに対応するインスタンスを返す。
func (r *RigRegistry) Get(key model.InstanceKey) (*model.MuscleInstance, bool) {
	instance, ok := r.entries[key]
	return instance, ok
}

// Keys は生成順のキーを返す。
func (r *RigRegistry) Keys() []model.InstanceKey {
	keys := make([]model.InstanceKey, len(r.order))
	copy(keys, r.order)
	return keys
}

// Instances は生成順のインスタンスを返す。
func (r *RigRegistry) Instances() []*model.MuscleInstance {
	instances := make([]*model.MuscleInstance, 0, len(r.order))
	for _, key := range r.order {
		instances = append(instances, r.entries[key])
	}
	return instances
}

// Len は登録数を返す。
func (r *RigRegistry) Len() int {
	return len(r.order)
}

// RigSession はシーンとレジストリをまとめたセッション文脈を表す。
// すべての変更操作は単一のミューテックスで直列化する。
type RigSession struct {
	mu       sync.Mutex
	scene    moutput.IScene
	registry *RigRegistry
}

// NewRigSession はセッションを生成する。
func NewRigSession(scene moutput.IScene) *RigSession {
	return &RigSession{scene: scene, registry: NewRigRegistry()}
}

// Scene はセッションのシーンを返す。
func (s *RigSession) Scene() moutput.IScene {
	return s.scene
}

// Instance はキーに対応するインスタンスを返す。
func (s *RigSession) Instance(key model.InstanceKey) (*model.MuscleInstance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(key)
}

// Keys は生成順のキーを返す。
func (s *RigSession) Keys() []model.InstanceKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Keys()
}

// Len は登録数を返す。
func (s *RigSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Len()
}

// Summaries は生成順のインスタンス要約を返す。
func (s *RigSession) Summaries() []InstanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]InstanceSummary, 0, s.registry.Len())
	for _, instance := range s.registry.Instances() {
		summaries = append(summaries, summarizeInstance(instance))
	}
	return summaries
}
