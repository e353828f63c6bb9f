package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DeployRenderer prints the summary of a deployment run. Per-step
// addresses were already printed by the progress sink.
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render renders the deployment result
func (r *DeployRenderer) Render(result *usecase.DeployResult) error {
	if result == nil || len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "Nothing deployed")
		return nil
	}

	network := "unknown"
	explorer := ""
	if result.Network != nil {
		network = result.Network.Name
		explorer = result.Network.ExplorerURL
	}

	fmt.Fprintln(r.out)
	if result.DryRun {
		fmt.Fprintln(r.out, headerStyle.Sprintf("Dry run: %d contracts would be deployed to %s (chain %d)", len(result.Deployments), network, result.ChainID))
	} else {
		fmt.Fprintln(r.out, headerStyle.Sprintf("Deployed %d contracts to %s (chain %d)", len(result.Deployments), network, result.ChainID))
	}

	t := newTable(r.out)
	header := table.Row{"Step", "Contract", "Address", "Status"}
	if result.DryRun {
		header = append(header, "Gas")
	} else {
		header = append(header, "Tx", "Block")
	}
	t.AppendHeader(header)

	for _, dep := range result.Deployments {
		row := table.Row{dep.StepID, dep.Contract, addressStyle.Sprint(dep.Address), statusCell(dep.Status)}
		if result.DryRun {
			row = append(row, dep.GasUsed)
		} else {
			row = append(row, shortHash(dep.TxHash), blockCell(dep))
		}
		t.AppendRow(row)
	}
	t.Render()

	if explorer != "" && !result.DryRun {
		fmt.Fprintln(r.out)
		for _, dep := range result.Deployments {
			fmt.Fprintf(r.out, "%s %s/address/%s\n", labelStyle.Sprintf("%-16s", dep.StepID), explorer, dep.Address)
		}
	}
	return nil
}

func blockCell(dep *models.Deployment) string {
	if dep.BlockNumber == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", dep.BlockNumber)
}

var _ Renderer[*usecase.DeployResult] = (*DeployRenderer)(nil)

type deployJSON struct {
	Network     string               `json:"network,omitempty"`
	ChainID     uint64               `json:"chainId,omitempty"`
	Deployer    string               `json:"deployer,omitempty"`
	Balance     string               `json:"balance,omitempty"`
	DryRun      bool                 `json:"dryRun"`
	Deployments []*models.Deployment `json:"deployments"`
	Error       *deployErrorJSON     `json:"error,omitempty"`
}

type deployErrorJSON struct {
	Message string `json:"message"`
	Step    string `json:"step,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

// DeployResultJSON builds the JSON document for a run, including a
// partial result and the error when the run failed
func DeployResultJSON(result *usecase.DeployResult, err error) any {
	doc := deployJSON{Deployments: []*models.Deployment{}}
	if result != nil {
		if result.Network != nil {
			doc.Network = result.Network.Name
		}
		doc.ChainID = result.ChainID
		doc.Deployer = result.Deployer.Hex()
		if result.Balance != nil {
			doc.Balance = result.Balance.String()
		}
		doc.DryRun = result.DryRun
		if result.Deployments != nil {
			doc.Deployments = result.Deployments
		}
	}
	if err != nil {
		doc.Error = &deployErrorJSON{Message: err.Error()}
		var de *domain.DeploymentError
		if errors.As(err, &de) {
			doc.Error.Step = de.Step
			doc.Error.Stage = string(de.Stage)
		}
	}
	return doc
}
