package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the RPC endpoint reports a different chain than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrContractNotFound is returned when no artifact exists for a contract name
	ErrContractNotFound = errors.New("contract not found")

	// ErrNoSigner is returned when the signer provider yields no account
	ErrNoSigner = errors.New("no signer available")

	// ErrInvalidPlan is returned when a deployment plan fails validation
	ErrInvalidPlan = errors.New("invalid deployment plan")

	// ErrDeploymentReverted is returned when a creation transaction was mined with status 0
	ErrDeploymentReverted = errors.New("deployment reverted")

	// ErrNoCode is returned when a confirmed deployment left no code at its address
	ErrNoCode = errors.New("no code at address")

	// ErrUnlinkedBytecode is returned for artifacts that still carry library placeholders
	ErrUnlinkedBytecode = errors.New("bytecode has unlinked libraries")
)

// DeploymentStage names the part of the procedure an error came from.
type DeploymentStage string

const (
	StageSigner  DeploymentStage = "signer"
	StageConnect DeploymentStage = "connect"
	StageBalance DeploymentStage = "balance"
	StageFactory DeploymentStage = "factory"
	StageEncode  DeploymentStage = "encode"
	StageSubmit  DeploymentStage = "submit"
	StageConfirm DeploymentStage = "confirm"
	StageRecord  DeploymentStage = "record"
)

// DeploymentError wraps the first failure of a deployment run.
// Step and Contract are empty for failures that happen before the first step.
type DeploymentError struct {
	Step     string
	Contract string
	Stage    DeploymentStage
	Err      error
}

func (e *DeploymentError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("deployment failed at %s: %v", e.Stage, e.Err)
	}
	if e.Step != e.Contract && e.Contract != "" {
		return fmt.Sprintf("deployment of %s (%s) failed at %s: %v", e.Step, e.Contract, e.Stage, e.Err)
	}
	return fmt.Sprintf("deployment of %s failed at %s: %v", e.Step, e.Stage, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// AmbiguousContractErr is returned when a contract name matches more than one artifact.
type AmbiguousContractErr struct {
	Name    string
	Matches []string
}

func (e AmbiguousContractErr) Error() string {
	matches := make([]string, len(e.Matches))
	copy(matches, e.Matches)
	sort.Strings(matches)

	var suggestions []string
	for _, m := range matches {
		suggestions = append(suggestions, "  - "+m)
	}

	return fmt.Sprintf("multiple artifacts found for contract %s - use path:contract format to disambiguate:\n%s",
		e.Name, strings.Join(suggestions, "\n"))
}
