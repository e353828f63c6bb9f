package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// LoadPlan resolves a plan reference: a plan file path, a [plan.<name>]
// section of the project config, or a built-in plan name. It returns the
// plan and a description of where it came from.
func LoadPlan(ref, projectRoot string, project *config.ProjectConfig) (*domain.Plan, string, error) {
	if ref == "" {
		ref = domain.DefaultPlanName
	}

	if looksLikeFile(ref) {
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectRoot, path)
		}
		plan, err := LoadPlanFile(path)
		if err != nil {
			return nil, "", err
		}
		if plan.Name == "" {
			plan.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return plan, path, nil
	}

	if project != nil {
		if steps, ok := project.Plan[ref]; ok {
			return &domain.Plan{Name: ref, Steps: steps}, ProjectFile, nil
		}
	}

	if plan, ok := domain.BuiltinPlan(ref); ok {
		return plan, "builtin", nil
	}

	return nil, "", fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidPlan, ref)
}

// LoadPlanFile decodes a plan file by extension: .toml, .yaml/.yml or .json
func LoadPlanFile(path string) (*domain.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan domain.Plan
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &plan)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &plan)
	case ".json":
		err = json.Unmarshal(data, &plan)
	default:
		return nil, fmt.Errorf("unsupported plan file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	for i := range plan.Steps {
		for j, arg := range plan.Steps[i].Args {
			plan.Steps[i].Args[j] = os.ExpandEnv(arg)
		}
		plan.Steps[i].Value = os.ExpandEnv(plan.Steps[i].Value)
	}
	return &plan, nil
}

func looksLikeFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".toml", ".yaml", ".yml", ".json":
		return true
	}
	return strings.ContainsRune(ref, os.PathSeparator)
}
