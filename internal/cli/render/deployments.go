package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
)

// DeploymentsRenderer renders deployment lists grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// Render renders the deployment list
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	groups := lo.GroupBy(result.Deployments, func(d *models.Deployment) string {
		return fmt.Sprintf("%s/%d", d.Network, d.ChainID)
	})
	keys := lo.Keys(groups)
	sort.Strings(keys)

	for _, key := range keys {
		deployments := groups[key]
		first := deployments[0]

		fmt.Fprintf(r.out, "%s%s\n",
			networkBg.Sprintf(" ◎ %-10s", "network:"),
			networkBold.Sprintf("%-24s", fmt.Sprintf("%s (chain %d)", first.Network, first.ChainID)))

		t := newTable(r.out)
		t.AppendHeader(table.Row{"Contract", "Address", "Status", "Block", "Deployed"})
		for _, dep := range deployments {
			t.AppendRow(table.Row{
				dep.DisplayName(),
				addressStyle.Sprint(dep.Address),
				statusCell(dep.Status),
				blockCell(dep),
				timestampStyle.Sprint(dep.CreatedAt.Format("2006-01-02 15:04:05")),
			})
		}
		t.Render()
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "Total deployments: %d\n", result.Summary.Total)
	return nil
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)

type deploymentListJSON struct {
	Deployments []*models.Deployment `json:"deployments"`
	Total       int                  `json:"total"`
	ByNetwork   map[string]int       `json:"byNetwork"`
}

// DeploymentListJSON builds the JSON document for a deployment list
func DeploymentListJSON(result *usecase.DeploymentListResult) any {
	deployments := result.Deployments
	if deployments == nil {
		deployments = []*models.Deployment{}
	}
	return deploymentListJSON{
		Deployments: deployments,
		Total:       result.Summary.Total,
		ByNetwork:   result.Summary.ByNetwork,
	}
}
