package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// DefaultPaths are searched when no [artifacts] paths are configured:
// Hardhat's artifacts/ and Foundry's out/.
var DefaultPaths = []string{"artifacts", "out"}

type entry struct {
	name     string
	source   string
	path     string // relative to the project root
	artifact *models.Artifact
}

func (e *entry) fullName() string {
	if e.source == "" {
		return e.name
	}
	return e.source + ":" + e.name
}

// Repository indexes compiled artifacts and turns them into contract factories
type Repository struct {
	projectRoot string
	paths       []string
	log         *slog.Logger

	mu        sync.RWMutex
	indexed   bool
	byFull    map[string]*entry   // key: "source:Name"
	byName    map[string][]*entry // key: contract name
	factories map[string]*models.ContractFactory
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	paths := cfg.ArtifactPaths
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	return &Repository{
		projectRoot: cfg.ProjectRoot,
		paths:       paths,
		log:         log.With("component", "artifacts"),
		byFull:      make(map[string]*entry),
		byName:      make(map[string][]*entry),
		factories:   make(map[string]*models.ContractFactory),
	}
}

// Index walks the artifact directories once
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	for _, dir := range r.paths {
		root := dir
		if !filepath.IsAbs(root) {
			root = filepath.Join(r.projectRoot, dir)
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			r.log.Debug("artifact directory not found", "path", root)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}
			return r.processArtifact(path)
		})
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", root, err)
		}
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "contracts", len(r.byFull))
	return nil
}

func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil || len(artifact.ABI) == 0 {
		// not an artifact
		return nil
	}

	source, name := artifact.Target()
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
		source = filepath.Base(filepath.Dir(path))
	}

	rel, err := filepath.Rel(r.projectRoot, path)
	if err != nil {
		rel = path
	}

	e := &entry{name: name, source: source, path: rel, artifact: &artifact}
	if existing, ok := r.byFull[e.fullName()]; ok {
		r.log.Debug("duplicate artifact ignored", "contract", e.fullName(), "kept", existing.path, "ignored", rel)
		return nil
	}
	r.byFull[e.fullName()] = e
	r.byName[name] = append(r.byName[name], e)
	return nil
}

// Resolve returns the factory for "Name" or "source:Name"
func (r *Repository) Resolve(ctx context.Context, name string) (*models.ContractFactory, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	if f, ok := r.factories[name]; ok {
		r.mu.RUnlock()
		return f, nil
	}
	e, err := r.lookup(name)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	factory, err := buildFactory(e)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
	return factory, nil
}

func (r *Repository) lookup(name string) (*entry, error) {
	if strings.Contains(name, ":") {
		if e, ok := r.byFull[name]; ok {
			return e, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, name)
	}

	matches := r.byName[name]
	switch len(matches) {
	case 0:
		if suggestion := r.suggest(name); suggestion != "" {
			return nil, fmt.Errorf("%w: %s (did you mean %s?)", domain.ErrContractNotFound, name, suggestion)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, name)
	case 1:
		return matches[0], nil
	}
	return nil, domain.AmbiguousContractErr{
		Name:    name,
		Matches: lo.Map(matches, func(e *entry, _ int) string { return e.fullName() }),
	}
}

// suggest returns the closest indexed contract name, if any is close
func (r *Repository) suggest(name string) string {
	names := lo.Keys(r.byName)
	found := fuzzy.Find(strings.ToLower(name), lo.Map(names, func(n string, _ int) string { return strings.ToLower(n) }))
	if len(found) == 0 {
		return ""
	}
	return names[found[0].Index]
}

// Names returns every indexed "source:Name"
func (r *Repository) Names() ([]string, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.byFull), nil
}

func buildFactory(e *entry) (*models.ContractFactory, error) {
	code, err := e.artifact.BytecodeHex()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.path, err)
	}
	if !e.artifact.IsDeployable() {
		return nil, fmt.Errorf("%s has no creation bytecode (abstract contract or interface?)", e.fullName())
	}
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnlinkedBytecode, e.fullName())
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid bytecode: %w", e.path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(e.artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid ABI: %w", e.path, err)
	}

	return &models.ContractFactory{
		Name:         e.name,
		SourcePath:   e.source,
		ArtifactPath: e.path,
		ABI:          &parsed,
		Bytecode:     bytecode,
	}, nil
}

var _ usecase.ContractFactoryResolver = (*Repository)(nil)
