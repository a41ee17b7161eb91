package missionclaim

import (
	"context"
	"fmt"
	"sync"
)

type ActionForClaim interface {
	Name() string
	Message() string
	Is(ActionForClaim) bool
	WithMessage(m string, a ...any) ActionForClaim
}

type actionForClaim struct {
	name    string
	message string
}

func (a actionForClaim) Name() string {
	return a.name
}

func (a actionForClaim) Message() string {
	return a.message
}

func (a actionForClaim) WithMessage(m string, args ...any) ActionForClaim {
	a.message = fmt.Sprintf(m, args...)
	return a
}

func (a actionForClaim) Is(another ActionForClaim) bool {
	return a.Name() == another.Name()
}

var (
	Accepted         = actionForClaim{name: "accepted"}
	Rejected         = actionForClaim{name: "rejected"}
	NeedManualReview = actionForClaim{name: "need_manual_review"}
)

const (
	AutoPolicy           = "auto"
	ManualPolicy         = "manual"
	ValidationDataPolicy = "validation_data"
)

// Policy verifies the action behind a standard mission.
type Policy interface {
	// Always return errorx in this method.
	GetActionForClaim(ctx context.Context, validationData map[string]any) (ActionForClaim, error)
}

// Registry holds policies by name. The empty name resolves to the auto
// policy.
type Registry struct {
	mutex    sync.RWMutex
	policies map[string]Policy
}

func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]Policy)}
	r.Register(AutoPolicy, autoPolicy{})
	r.Register(ManualPolicy, manualPolicy{})
	r.Register(ValidationDataPolicy, validationDataPolicy{})
	return r
}

func (r *Registry) Register(name string, policy Policy) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.policies[name] = policy
}

func (r *Registry) Get(name string) (Policy, error) {
	if name == "" {
		name = AutoPolicy
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	policy, ok := r.policies[name]
	if !ok {
		return nil, fmt.Errorf("invalid verification policy %s", name)
	}

	return policy, nil
}

type autoPolicy struct{}

func (autoPolicy) GetActionForClaim(context.Context, map[string]any) (ActionForClaim, error) {
	return Accepted, nil
}

type manualPolicy struct{}

func (manualPolicy) GetActionForClaim(context.Context, map[string]any) (ActionForClaim, error) {
	return NeedManualReview.WithMessage("Mission submitted for verification."), nil
}

type validationDataPolicy struct{}

func (validationDataPolicy) GetActionForClaim(_ context.Context, data map[string]any) (ActionForClaim, error) {
	if len(data) == 0 {
		return Rejected.WithMessage("Validation data is required for this mission."), nil
	}

	return Accepted, nil
}
