package usecase_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDeploymentStore is a mock implementation of DeploymentStore
type MockDeploymentStore struct {
	mock.Mock
}

func (m *MockDeploymentStore) GetDeployment(ctx context.Context, id string) (*models.Deployment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentStore) GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

func (m *MockDeploymentStore) ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deployment), args.Error(1)
}

func (m *MockDeploymentStore) SaveDeployment(ctx context.Context, deployment *models.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

// MockFactoryResolver is a mock implementation of ContractFactoryResolver
type MockFactoryResolver struct {
	mock.Mock
}

func (m *MockFactoryResolver) Resolve(ctx context.Context, name string) (*models.ContractFactory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContractFactory), args.Error(1)
}

// MockSelector is a mock implementation of DeploymentSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error) {
	args := m.Called(ctx, deployments, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deployment), args.Error(1)
}

// MockProgressSink records progress events and messages
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockProgressSink) Error(message string) { m.errors = append(m.errors, message) }

type fakeSigner struct {
	name string
	addr common.Address
}

func (s *fakeSigner) Name() string            { return s.name }
func (s *fakeSigner) Address() common.Address { return s.addr }
func (s *fakeSigner) SignTx(tx *types.Transaction, _ *big.Int) (*types.Transaction, error) {
	return tx, nil
}

type fakeSignerProvider struct {
	signers []usecase.Signer
	err     error
	calls   int
}

func (p *fakeSignerProvider) Signers(context.Context) ([]usecase.Signer, error) {
	p.calls++
	return p.signers, p.err
}

// fakeChain is a stateful in-memory chain: addresses follow CREATE rules
// and every submitted transaction confirms immediately unless told otherwise.
type fakeChain struct {
	chainID    uint64
	balance    *big.Int
	nonce      uint64
	sent       []usecase.CreateTx
	sendErr    map[int]error // by submission index
	confirmErr error
	estimates  int
	callOutput []byte
	calledTo   common.Address
	closed     bool
}

func (c *fakeChain) ChainID() uint64 { return c.chainID }

func (c *fakeChain) Balance(context.Context, common.Address) (*big.Int, error) {
	return c.balance, nil
}

func (c *fakeChain) PendingNonce(context.Context, common.Address) (uint64, error) {
	return c.nonce, nil
}

func (c *fakeChain) EstimateCreate(_ context.Context, _ common.Address, tx usecase.CreateTx) (uint64, error) {
	c.estimates++
	return 100000 + uint64(len(tx.Data)), nil
}

func (c *fakeChain) SendCreate(_ context.Context, signer usecase.Signer, tx usecase.CreateTx) (*usecase.PendingDeployment, error) {
	idx := len(c.sent)
	c.sent = append(c.sent, tx)
	if err := c.sendErr[idx]; err != nil {
		return nil, err
	}
	return &usecase.PendingDeployment{
		TxHash:   common.BigToHash(new(big.Int).SetUint64(tx.Nonce + 1)),
		Address:  crypto.CreateAddress(signer.Address(), tx.Nonce),
		Nonce:    tx.Nonce,
		GasLimit: 3_000_000,
	}, nil
}

func (c *fakeChain) WaitConfirmed(_ context.Context, pending *usecase.PendingDeployment) (*usecase.Confirmation, error) {
	if c.confirmErr != nil {
		return nil, c.confirmErr
	}
	return &usecase.Confirmation{
		Address:     pending.Address,
		BlockNumber: pending.Nonce + 1,
		GasUsed:     50000,
	}, nil
}

func (c *fakeChain) Call(_ context.Context, to common.Address, _ []byte) ([]byte, error) {
	c.calledTo = to
	return c.callOutput, nil
}

func (c *fakeChain) Close() { c.closed = true }

type fakeConnector struct {
	chain *fakeChain
	err   error
	calls int
}

func (f *fakeConnector) Connect(context.Context, *config.Network) (usecase.Chain, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

const (
	noConstructorABI   = `[]`
	tokenManagerABI    = `[{"type":"constructor","inputs":[{"name":"creds","type":"address"},{"name":"credit","type":"address"}],"stateMutability":"nonpayable"}]`
	returnsTrueABI     = `[{"type":"function","name":"returnsTrue","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"}]`
	mixedConstructorAB = `[{"type":"constructor","inputs":[{"name":"owner","type":"address"},{"name":"supply","type":"uint256"},{"name":"decimals","type":"uint8"},{"name":"enabled","type":"bool"},{"name":"salt","type":"bytes32"},{"name":"label","type":"string"},{"name":"delta","type":"int64"}],"stateMutability":"nonpayable"}]`
)

func newFactory(t *testing.T, name, abiJSON string, code ...byte) *models.ContractFactory {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)
	if len(code) == 0 {
		code = []byte{0x60, 0x00}
	}
	return &models.ContractFactory{
		Name:         name,
		ArtifactPath: "artifacts/" + name + ".json",
		ABI:          &parsed,
		Bytecode:     code,
	}
}

func localNetwork() *config.Network {
	return &config.Network{Name: "localhost", ChainID: 31337, RPCURL: "http://127.0.0.1:8545", Local: true}
}
