package interactive

import (
	"context"
	"testing"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzySearch(t *testing.T) {
	items := []string{
		"ECreds at 0x5FbDB2315678afecb367f032d93F642f64180aa3 [localhost]",
		"TokenManagerETH at 0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0 [localhost]",
	}
	search := createFuzzySearchFunc(items)

	tests := []struct {
		input string
		index int
		want  bool
	}{
		{"", 0, true},
		{"ecreds", 0, true},
		{"tkmgr", 1, true},
		{"tkmgr", 0, false},
		{"0x9fe4", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, search(tt.input, tt.index))
		})
	}
}

func TestSelectorNonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	deps := []*models.Deployment{{StepID: "a"}, {StepID: "b"}}

	_, err := s.SelectDeployment(context.Background(), deps, "pick")
	assert.ErrorContains(t, err, "non-interactive")

	_, err = s.Confirm(context.Background(), "continue")
	assert.ErrorContains(t, err, "non-interactive")
}

func TestSelectorSingleChoice(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})
	dep := &models.Deployment{StepID: "ECreds"}

	got, err := s.SelectDeployment(context.Background(), []*models.Deployment{dep}, "pick")
	require.NoError(t, err)
	assert.Same(t, dep, got)
}

func TestFormatDeploymentOptions(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	options := formatDeploymentOptions([]*models.Deployment{
		{StepID: "tokenA", Contract: "Token", Address: "0x01", Network: "localhost"},
	})
	assert.Equal(t, []string{"tokenA (Token) at 0x01 [localhost]"}, options)
}
