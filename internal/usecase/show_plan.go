package usecase

import (
	"context"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
)

// PlanStepInfo is a plan step together with the artifact it resolves to
type PlanStepInfo struct {
	Step    domain.PlanStep
	Factory *models.ContractFactory
	Error   error
}

// PlanInfo is the result of inspecting a plan
type PlanInfo struct {
	Plan    *domain.Plan
	Source  string
	Steps   []PlanStepInfo
	Invalid error
}

// Ready reports whether the plan validates and every artifact resolves
func (p *PlanInfo) Ready() bool {
	if p.Invalid != nil {
		return false
	}
	for _, s := range p.Steps {
		if s.Error != nil {
			return false
		}
	}
	return true
}

// ShowPlan loads the active plan and resolves its artifacts without
// touching the network.
type ShowPlan struct {
	config    *config.RuntimeConfig
	factories ContractFactoryResolver
}

// NewShowPlan creates a new ShowPlan use case
func NewShowPlan(cfg *config.RuntimeConfig, factories ContractFactoryResolver) *ShowPlan {
	return &ShowPlan{config: cfg, factories: factories}
}

// Run executes the show plan use case
func (uc *ShowPlan) Run(ctx context.Context) (*PlanInfo, error) {
	plan := uc.config.Plan
	if plan == nil {
		return nil, domain.ErrInvalidPlan
	}

	info := &PlanInfo{
		Plan:    plan,
		Source:  uc.config.PlanSource,
		Invalid: plan.Validate(),
		Steps:   make([]PlanStepInfo, 0, len(plan.Steps)),
	}

	for _, step := range plan.Steps {
		si := PlanStepInfo{Step: step}
		if step.Contract != "" {
			si.Factory, si.Error = uc.factories.Resolve(ctx, step.Contract)
		}
		info.Steps = append(info.Steps, si)
	}

	return info, nil
}
