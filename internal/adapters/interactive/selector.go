package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
)

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectDeployment selects a deployment from a list
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(deployments) == 0 {
		return nil, fmt.Errorf("no deployments provided for selection")
	}
	if len(deployments) == 1 {
		return deployments[0], nil
	}

	options := formatDeploymentOptions(deployments)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return deployments[index], nil
}

// Confirm asks a yes/no question; anything but yes declines
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return false, fmt.Errorf("confirmation not available in non-interactive mode")
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// formatDeploymentOptions renders "StepID (Contract) at 0x... [network]"
func formatDeploymentOptions(deployments []*models.Deployment) []string {
	options := make([]string, len(deployments))
	for i, dep := range deployments {
		name := color.New(color.FgWhite, color.Bold).Sprint(dep.DisplayName())
		addr := color.New(color.FgBlue).Sprint(dep.Address)
		network := color.New(color.FgYellow).Sprintf("[%s]", dep.Network)
		options[i] = fmt.Sprintf("%s at %s %s", name, addr, network)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var (
	_ usecase.DeploymentSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer          = (*SelectorAdapter)(nil)
)
