package usecase

import (
	"context"
	"math/big"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Signer is an account credential able to sign transactions
type Signer interface {
	Name() string
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// SignerProvider yields the configured signers, first one preferred
type SignerProvider interface {
	Signers(ctx context.Context) ([]Signer, error)
}

// ContractFactoryResolver maps a contract name to a deployable unit
type ContractFactoryResolver interface {
	Resolve(ctx context.Context, name string) (*models.ContractFactory, error)
}

// ChainConnector opens a connection to a configured network
type ChainConnector interface {
	Connect(ctx context.Context, network *config.Network) (Chain, error)
}

// CreateTx is a contract creation request
type CreateTx struct {
	Nonce    uint64
	Data     []byte // creation bytecode followed by encoded constructor arguments
	Value    *big.Int
	GasLimit uint64 // 0 means estimate
}

// PendingDeployment is a submitted, not yet confirmed, creation transaction
type PendingDeployment struct {
	TxHash   common.Hash
	Address  common.Address // derived from sender and nonce
	Nonce    uint64
	GasLimit uint64
}

// Confirmation is the outcome of a mined creation transaction
type Confirmation struct {
	Address     common.Address
	BlockNumber uint64
	GasUsed     uint64
}

// Chain is the network submission and confirmation service
type Chain interface {
	ChainID() uint64
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	PendingNonce(ctx context.Context, account common.Address) (uint64, error)
	EstimateCreate(ctx context.Context, from common.Address, tx CreateTx) (uint64, error)
	SendCreate(ctx context.Context, signer Signer, tx CreateTx) (*PendingDeployment, error)
	WaitConfirmed(ctx context.Context, pending *PendingDeployment) (*Confirmation, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	Close()
}

// DeploymentStore handles persistence of deployments
type DeploymentStore interface {
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
}

// NetworkResolver resolves network names to connection settings
type NetworkResolver interface {
	Names() []string
	Resolve(name string) (*config.Network, error)
}

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// Confirmer asks the user to approve an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
