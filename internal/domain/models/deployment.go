package models

import (
	"fmt"
	"time"
)

// DeploymentStatus represents how far a deployment got
type DeploymentStatus string

const (
	// DeploymentStatusConfirmed means the creation receipt was observed with status 1
	DeploymentStatusConfirmed DeploymentStatus = "CONFIRMED"
	// DeploymentStatusSubmitted means the transaction was sent but not awaited
	DeploymentStatusSubmitted DeploymentStatus = "SUBMITTED"
	// DeploymentStatusSimulated means a dry run estimated the deployment
	DeploymentStatusSimulated DeploymentStatus = "SIMULATED"
)

// Deployment represents a contract deployment record
type Deployment struct {
	ID              string           `json:"id"` // e.g., "localhost/31337/ECreds"
	Network         string           `json:"network"`
	ChainID         uint64           `json:"chainId"`
	StepID          string           `json:"stepId"`
	Contract        string           `json:"contract"`
	Artifact        string           `json:"artifact,omitempty"`
	Address         string           `json:"address"`
	Deployer        string           `json:"deployer"`
	TxHash          string           `json:"txHash,omitempty"`
	Nonce           uint64           `json:"nonce"`
	BlockNumber     uint64           `json:"blockNumber,omitempty"`
	GasUsed         uint64           `json:"gasUsed,omitempty"`
	ConstructorArgs string           `json:"constructorArgs,omitempty"` // hex encoded
	Status          DeploymentStatus `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// DeploymentID builds the registry key for a step on a network
func DeploymentID(network string, chainID uint64, stepID string) string {
	return fmt.Sprintf("%s/%d/%s", network, chainID, stepID)
}

// IsConfirmed reports whether the address is final
func (d *Deployment) IsConfirmed() bool {
	return d.Status == DeploymentStatusConfirmed
}

// DisplayName returns the step id, with the contract when they differ
func (d *Deployment) DisplayName() string {
	if d.StepID != "" && d.StepID != d.Contract {
		return fmt.Sprintf("%s (%s)", d.StepID, d.Contract)
	}
	return d.Contract
}
