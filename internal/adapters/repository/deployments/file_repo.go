package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/samber/lo"
)

const (
	DataDir         = ".ecreds"
	DeploymentsFile = "deployments.json"
)

// FileRepository stores deployments in a JSON file under the data directory
type FileRepository struct {
	dir         string
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
	byAddress   map[string]string // lower-cased "chainId:address" -> id
}

// NewFileRepository opens (and creates, if needed) the registry
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	dir := cfg.DataDir
	if dir == "" {
		dir = filepath.Join(cfg.ProjectRoot, DataDir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	r := &FileRepository{
		dir:         dir,
		deployments: make(map[string]*models.Deployment),
		byAddress:   make(map[string]string),
	}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return r, nil
}

func (r *FileRepository) path() string {
	return filepath.Join(r.dir, DeploymentsFile)
}

func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.deployments); err != nil {
		return fmt.Errorf("failed to parse %s: %w", r.path(), err)
	}
	if r.deployments == nil {
		r.deployments = make(map[string]*models.Deployment)
	}
	r.rebuildLookups()
	return nil
}

// save writes the registry through a temp file and an atomic rename.
// Callers hold the write lock.
func (r *FileRepository) save() error {
	data, err := json.MarshalIndent(r.deployments, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := r.path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, r.path())
}

func addressKey(chainID uint64, address string) string {
	return fmt.Sprintf("%d:%s", chainID, strings.ToLower(address))
}

func (r *FileRepository) rebuildLookups() {
	r.byAddress = make(map[string]string, len(r.deployments))
	for id, dep := range r.deployments {
		if dep.Address != "" {
			r.byAddress[addressKey(dep.ChainID, dep.Address)] = id
		}
	}
}

// GetDeployment looks a deployment up by id
func (r *FileRepository) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if dep, ok := r.deployments[id]; ok {
		return dep, nil
	}
	return nil, fmt.Errorf("%w: deployment %s", domain.ErrNotFound, id)
}

// GetDeploymentByAddress looks a deployment up by chain and address
func (r *FileRepository) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byAddress[addressKey(chainID, address)]; ok {
		return r.deployments[id], nil
	}
	return nil, fmt.Errorf("%w: no deployment at %s on chain %d", domain.ErrNotFound, address, chainID)
}

// ListDeployments returns the deployments matching filter, ordered by id
func (r *FileRepository) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := lo.Filter(lo.Values(r.deployments), func(dep *models.Deployment, _ int) bool {
		return filter.Matches(dep)
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SaveDeployment inserts or replaces a deployment and persists the registry.
// Redeploying a step on the same network overwrites the previous record.
func (r *FileRepository) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	if deployment.ID == "" {
		return fmt.Errorf("deployment has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, existed := r.deployments[deployment.ID]
	r.deployments[deployment.ID] = deployment
	r.rebuildLookups()

	if err := r.save(); err != nil {
		if existed {
			r.deployments[deployment.ID] = previous
		} else {
			delete(r.deployments, deployment.ID)
		}
		r.rebuildLookups()
		return fmt.Errorf("failed to save deployments: %w", err)
	}
	return nil
}

var _ usecase.DeploymentStore = (*FileRepository)(nil)
