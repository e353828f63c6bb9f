package render

import (
	"fmt"
	"io"

	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
)

// DeploymentRenderer prints a single registry record
type DeploymentRenderer struct {
	out      io.Writer
	explorer string
}

// NewDeploymentRenderer creates a new deployment renderer. explorer may be
// empty.
func NewDeploymentRenderer(out io.Writer, explorer string) *DeploymentRenderer {
	return &DeploymentRenderer{out: out, explorer: explorer}
}

// Render renders the deployment
func (r *DeploymentRenderer) Render(dep *models.Deployment) error {
	fmt.Fprintln(r.out, headerStyle.Sprint(dep.DisplayName()))

	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-13s", label+":"), value)
	}
	line("ID", dep.ID)
	line("Network", fmt.Sprintf("%s (chain %d)", dep.Network, dep.ChainID))
	line("Address", addressStyle.Sprint(dep.Address))
	line("Status", statusCell(dep.Status))
	line("Deployer", dep.Deployer)
	line("Nonce", fmt.Sprintf("%d", dep.Nonce))
	line("Transaction", dep.TxHash)
	if dep.BlockNumber > 0 {
		line("Block", fmt.Sprintf("%d", dep.BlockNumber))
	}
	if dep.GasUsed > 0 {
		line("Gas used", fmt.Sprintf("%d", dep.GasUsed))
	}
	line("Artifact", dep.Artifact)
	line("Constructor", dep.ConstructorArgs)
	line("Deployed at", timestampStyle.Sprint(dep.CreatedAt.Format("2006-01-02 15:04:05")))
	if r.explorer != "" {
		line("Explorer", fmt.Sprintf("%s/address/%s", r.explorer, dep.Address))
	}
	return nil
}

var _ Renderer[*models.Deployment] = (*DeploymentRenderer)(nil)
