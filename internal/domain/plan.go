package domain

import (
	"fmt"
	"strings"
)

// RefPrefix marks a constructor argument that refers to an earlier step.
const RefPrefix = "@"

// Plan is an ordered list of contracts to deploy.
type Plan struct {
	Name  string     `json:"name" yaml:"name" toml:"name"`
	Steps []PlanStep `json:"steps" yaml:"steps" toml:"steps"`
}

// PlanStep describes a single contract deployment.
type PlanStep struct {
	// ID names the step for references; defaults to Contract
	ID string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	// Contract is the artifact name ("Name" or "path/File.sol:Name")
	Contract string `json:"contract" yaml:"contract" toml:"contract"`
	// Args are constructor arguments; "@id" refers to an earlier step's address
	Args []string `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	// Value is the wei amount sent with the creation transaction
	Value string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	// GasLimit overrides gas estimation when non-zero
	GasLimit uint64 `json:"gasLimit,omitempty" yaml:"gas_limit,omitempty" toml:"gas_limit,omitempty"`
	// Wait controls confirmation waiting; nil means wait
	Wait *bool `json:"wait,omitempty" yaml:"wait,omitempty" toml:"wait,omitempty"`
}

// StepID returns the identifier used to reference this step.
func (s PlanStep) StepID() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Contract
}

// WaitsForConfirmation reports whether the step is configured to wait.
func (s PlanStep) WaitsForConfirmation() bool {
	return s.Wait == nil || *s.Wait
}

// References returns the step IDs this step's arguments point at, in order.
func (s PlanStep) References() []string {
	var refs []string
	for _, arg := range s.Args {
		if ref, ok := ParseRef(arg); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// ParseRef returns the referenced step ID when arg is a reference.
func ParseRef(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, RefPrefix) || len(arg) == len(RefPrefix) {
		return "", false
	}
	return arg[len(RefPrefix):], true
}

// Validate checks the plan before anything touches the network.
//
// A step that is referenced by a later one must wait for confirmation:
// its address is only final once the creation transaction is mined.
func (p *Plan) Validate() error {
	if p == nil || len(p.Steps) == 0 {
		return fmt.Errorf("%w: no contracts to deploy", ErrInvalidPlan)
	}

	seen := make(map[string]int, len(p.Steps))
	referenced := make(map[string]string)

	for i, step := range p.Steps {
		if strings.TrimSpace(step.Contract) == "" {
			return fmt.Errorf("%w: step %d has no contract", ErrInvalidPlan, i+1)
		}
		id := step.StepID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate step id %q", ErrInvalidPlan, id)
		}
		for _, ref := range step.References() {
			if _, ok := seen[ref]; !ok {
				if ref == id {
					return fmt.Errorf("%w: step %q references itself", ErrInvalidPlan, id)
				}
				return fmt.Errorf("%w: step %q references %q, which is not deployed before it", ErrInvalidPlan, id, ref)
			}
			if _, ok := referenced[ref]; !ok {
				referenced[ref] = id
			}
		}
		seen[id] = i
	}

	for ref, by := range referenced {
		if !p.Steps[seen[ref]].WaitsForConfirmation() {
			return fmt.Errorf("%w: step %q sets wait = false but its address is used by %q", ErrInvalidPlan, ref, by)
		}
	}

	return nil
}

// Contracts returns the contract names of the plan in order.
func (p *Plan) Contracts() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Contract
	}
	return names
}

const (
	DefaultPlanName = "default"
	BasicPlanName   = "basic"
)

// DefaultPlan deploys the credit contracts and the token manager that wires them.
func DefaultPlan() *Plan {
	return &Plan{
		Name: DefaultPlanName,
		Steps: []PlanStep{
			{Contract: "ETHCredit"},
			{Contract: "ECreds"},
			{Contract: "TokenManagerETH", Args: []string{"@ECreds", "@ETHCredit"}},
		},
	}
}

// BasicPlan deploys the placeholder contract only.
func BasicPlan() *Plan {
	return &Plan{
		Name:  BasicPlanName,
		Steps: []PlanStep{{Contract: "BasicContract"}},
	}
}

// BuiltinPlan returns a built-in plan by name.
func BuiltinPlan(name string) (*Plan, bool) {
	switch name {
	case "", DefaultPlanName:
		return DefaultPlan(), true
	case BasicPlanName:
		return BasicPlan(), true
	}
	return nil, false
}
