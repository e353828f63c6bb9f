package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// PlanRenderer prints a plan and the artifacts its steps resolve to
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// Render renders the plan info
func (r *PlanRenderer) Render(info *usecase.PlanInfo) error {
	fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprintf("Plan %s", info.Plan.Name), labelStyle.Sprintf("(%s)", info.Source))

	t := newTable(r.out)
	t.AppendHeader(table.Row{"#", "Step", "Contract", "Args", "Wait", "Artifact"})
	for i, s := range info.Steps {
		artifact := ""
		switch {
		case s.Error != nil:
			artifact = errorStyle.Sprint(s.Error.Error())
		case s.Factory != nil:
			artifact = s.Factory.ArtifactPath
		}
		wait := "yes"
		if !s.Step.WaitsForConfirmation() {
			wait = pendingStyle.Sprint("no")
		}
		t.AppendRow(table.Row{i + 1, s.Step.StepID(), s.Step.Contract, strings.Join(s.Step.Args, ", "), wait, artifact})
	}
	t.Render()
	fmt.Fprintln(r.out)

	if info.Invalid != nil {
		fmt.Fprintln(r.out, FormatError(info.Invalid.Error()))
	}
	if info.Ready() {
		fmt.Fprintln(r.out, FormatSuccess("Plan is ready to deploy"))
	}
	return nil
}

var _ Renderer[*usecase.PlanInfo] = (*PlanRenderer)(nil)

type planStepJSON struct {
	ID       string   `json:"id"`
	Contract string   `json:"contract"`
	Args     []string `json:"args,omitempty"`
	Value    string   `json:"value,omitempty"`
	Wait     bool     `json:"wait"`
	Artifact string   `json:"artifact,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type planJSON struct {
	Name   string         `json:"name"`
	Source string         `json:"source"`
	Ready  bool           `json:"ready"`
	Error  string         `json:"error,omitempty"`
	Steps  []planStepJSON `json:"steps"`
}

// PlanJSON builds the JSON document for a plan
func PlanJSON(info *usecase.PlanInfo) any {
	doc := planJSON{
		Name:   info.Plan.Name,
		Source: info.Source,
		Ready:  info.Ready(),
		Steps:  make([]planStepJSON, 0, len(info.Steps)),
	}
	if info.Invalid != nil {
		doc.Error = info.Invalid.Error()
	}
	for _, s := range info.Steps {
		step := planStepJSON{
			ID:       s.Step.StepID(),
			Contract: s.Step.Contract,
			Args:     s.Step.Args,
			Value:    s.Step.Value,
			Wait:     s.Step.WaitsForConfirmation(),
		}
		if s.Factory != nil {
			step.Artifact = s.Factory.ArtifactPath
		}
		if s.Error != nil {
			step.Error = s.Error.Error()
		}
		doc.Steps = append(doc.Steps, step)
	}
	return doc
}
