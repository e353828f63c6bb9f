package domain

import (
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
)

// DeploymentFilter defines filtering options for deployments
type DeploymentFilter struct {
	Network  string
	ChainID  uint64
	Contract string
	Status   models.DeploymentStatus
}

// Matches reports whether a deployment passes every set field of the filter
func (f DeploymentFilter) Matches(dep *models.Deployment) bool {
	if f.Network != "" && dep.Network != f.Network {
		return false
	}
	if f.ChainID != 0 && dep.ChainID != f.ChainID {
		return false
	}
	if f.Contract != "" && !strings.EqualFold(dep.Contract, f.Contract) && !strings.EqualFold(dep.StepID, f.Contract) {
		return false
	}
	if f.Status != "" && dep.Status != f.Status {
		return false
	}
	return true
}
