package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var deployer = common.HexToAddress("0x00000000000000000000000000000000000000aa")

type deployFixture struct {
	cfg       *config.RuntimeConfig
	signers   *fakeSignerProvider
	chain     *fakeChain
	connector *fakeConnector
	factories *MockFactoryResolver
	store     *MockDeploymentStore
	sink      *MockProgressSink
}

func newDeployFixture(t *testing.T) *deployFixture {
	chain := &fakeChain{chainID: 31337, balance: big.NewInt(1_000_000_000), nonce: 5}
	f := &deployFixture{
		cfg: &config.RuntimeConfig{
			Network: localNetwork(),
			Plan:    domain.DefaultPlan(),
		},
		signers:   &fakeSignerProvider{signers: []usecase.Signer{&fakeSigner{name: "deployer", addr: deployer}}},
		chain:     chain,
		connector: &fakeConnector{chain: chain},
		factories: new(MockFactoryResolver),
		store:     new(MockDeploymentStore),
		sink:      &MockProgressSink{},
	}
	return f
}

func (f *deployFixture) useCase() *usecase.DeployContracts {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return usecase.NewDeployContracts(f.cfg, f.signers, f.connector, f.factories, f.store, f.sink, logger)
}

func (f *deployFixture) expectDefaultFactories(t *testing.T) {
	f.factories.On("Resolve", mock.Anything, "ETHCredit").Return(newFactory(t, "ETHCredit", noConstructorABI), nil)
	f.factories.On("Resolve", mock.Anything, "ECreds").Return(newFactory(t, "ECreds", noConstructorABI), nil)
	f.factories.On("Resolve", mock.Anything, "TokenManagerETH").Return(newFactory(t, "TokenManagerETH", tokenManagerABI), nil)
}

func TestDeployContracts(t *testing.T) {
	ctx := context.Background()

	t.Run("deploys the default plan in order", func(t *testing.T) {
		f := newDeployFixture(t)
		f.expectDefaultFactories(t)
		f.store.On("SaveDeployment", mock.Anything, mock.AnythingOfType("*models.Deployment")).Return(nil)

		result, err := f.useCase().Run(ctx, usecase.DeployParams{})
		require.NoError(t, err)

		ethCredit := crypto.CreateAddress(deployer, 5)
		eCreds := crypto.CreateAddress(deployer, 6)
		manager := crypto.CreateAddress(deployer, 7)

		require.Len(t, result.Deployments, 3)
		assert.Equal(t, deployer, result.Deployer)
		assert.Equal(t, uint64(31337), result.ChainID)
		assert.Equal(t, ethCredit.Hex(), result.Deployments[0].Address)
		assert.Equal(t, eCreds.Hex(), result.Deployments[1].Address)
		assert.Equal(t, manager.Hex(), result.Deployments[2].Address)
		for _, dep := range result.Deployments {
			assert.Equal(t, models.DeploymentStatusConfirmed, dep.Status)
			assert.Equal(t, "localhost", dep.Network)
		}
		assert.Equal(t, "localhost/31337/TokenManagerETH", result.Deployments[2].ID)

		// nonces are tracked locally after a single read
		require.Len(t, f.chain.sent, 3)
		for i, tx := range f.chain.sent {
			assert.Equal(t, uint64(5+i), tx.Nonce)
		}

		// the token manager is constructed with the confirmed addresses
		data := f.chain.sent[2].Data
		require.Len(t, data, 2+64)
		assert.Equal(t, common.LeftPadBytes(eCreds.Bytes(), 32), data[2:34])
		assert.Equal(t, common.LeftPadBytes(ethCredit.Bytes(), 32), data[34:66])

		assert.Equal(t, []string{
			"Deploying contracts with account: " + deployer.Hex(),
			"Account balance: 1000000000",
			"ETHCredit address: " + ethCredit.Hex(),
			"ECreds address: " + eCreds.Hex(),
			"TokenManagerETH address: " + manager.Hex(),
		}, f.sink.infos)

		assert.True(t, f.chain.closed)
		f.store.AssertNumberOfCalls(t, "SaveDeployment", 3)
		f.factories.AssertExpectations(t)
	})

	t.Run("stops at the first failing step", func(t *testing.T) {
		f := newDeployFixture(t)
		f.chain.sendErr = map[int]error{1: errors.New("insufficient funds for gas * price + value")}
		f.factories.On("Resolve", mock.Anything, "ETHCredit").Return(newFactory(t, "ETHCredit", noConstructorABI), nil)
		f.factories.On("Resolve", mock.Anything, "ECreds").Return(newFactory(t, "ECreds", noConstructorABI), nil)
		f.store.On("SaveDeployment", mock.Anything, mock.AnythingOfType("*models.Deployment")).Return(nil)

		result, err := f.useCase().Run(ctx, usecase.DeployParams{})
		require.Error(t, err)

		var depErr *domain.DeploymentError
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, "ECreds", depErr.Step)
		assert.Equal(t, domain.StageSubmit, depErr.Stage)
		assert.Contains(t, err.Error(), "insufficient funds")

		require.NotNil(t, result)
		assert.Len(t, result.Deployments, 1)
		assert.Len(t, f.chain.sent, 2)
		f.factories.AssertNotCalled(t, "Resolve", mock.Anything, "TokenManagerETH")
		f.store.AssertNumberOfCalls(t, "SaveDeployment", 1)
		assert.NotContains(t, f.sink.infos, fmt.Sprintf("ECreds address: %s", crypto.CreateAddress(deployer, 6).Hex()))
	})

	t.Run("reverted deployment fails at confirm", func(t *testing.T) {
		f := newDeployFixture(t)
		f.cfg.Plan = domain.BasicPlan()
		f.chain.confirmErr = fmt.Errorf("%w: status 0", domain.ErrDeploymentReverted)
		f.factories.On("Resolve", mock.Anything, "BasicContract").Return(newFactory(t, "BasicContract", returnsTrueABI), nil)

		_, err := f.useCase().Run(ctx, usecase.DeployParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDeploymentReverted)

		var depErr *domain.DeploymentError
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, domain.StageConfirm, depErr.Stage)
		f.store.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("missing artifact fails before submission", func(t *testing.T) {
		f := newDeployFixture(t)
		f.factories.On("Resolve", mock.Anything, "ETHCredit").Return(nil, fmt.Errorf("%w: ETHCredit", domain.ErrContractNotFound))

		_, err := f.useCase().Run(ctx, usecase.DeployParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
		assert.Empty(t, f.chain.sent)
	})

	t.Run("no signer", func(t *testing.T) {
		f := newDeployFixture(t)
		f.signers.signers = nil

		_, err := f.useCase().Run(ctx, usecase.DeployParams{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNoSigner)
		assert.Equal(t, 0, f.connector.calls)
	})

	t.Run("connection failure", func(t *testing.T) {
		f := newDeployFixture(t)
		f.connector.err = errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")

		_, err := f.useCase().Run(ctx, usecase.DeployParams{})
		require.Error(t, err)

		var depErr *domain.DeploymentError
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, domain.StageConnect, depErr.Stage)
	})

	t.Run("invalid plan is rejected before any network call", func(t *testing.T) {
		f := newDeployFixture(t)
		plan := &domain.Plan{Steps: []domain.PlanStep{
			{Contract: "TokenManagerETH", Args: []string{"@ECreds", "@ETHCredit"}},
		}}

		_, err := f.useCase().Run(ctx, usecase.DeployParams{Plan: plan})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPlan)
		assert.Equal(t, 0, f.signers.calls)
		assert.Equal(t, 0, f.connector.calls)
	})

	t.Run("dry run predicts addresses without sending", func(t *testing.T) {
		f := newDeployFixture(t)
		f.expectDefaultFactories(t)

		result, err := f.useCase().Run(ctx, usecase.DeployParams{DryRun: true})
		require.NoError(t, err)

		assert.True(t, result.DryRun)
		require.Len(t, result.Deployments, 3)
		assert.Empty(t, f.chain.sent)
		assert.Equal(t, 3, f.chain.estimates)
		assert.Equal(t, crypto.CreateAddress(deployer, 7).Hex(), result.Deployments[2].Address)
		assert.Equal(t, models.DeploymentStatusSimulated, result.Deployments[2].Status)
		f.store.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("no record skips the registry", func(t *testing.T) {
		f := newDeployFixture(t)
		f.expectDefaultFactories(t)

		_, err := f.useCase().Run(ctx, usecase.DeployParams{NoRecord: true})
		require.NoError(t, err)
		assert.Len(t, f.chain.sent, 3)
		f.store.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("unawaited step is recorded as submitted", func(t *testing.T) {
		f := newDeployFixture(t)
		noWait := false
		plan := &domain.Plan{Steps: []domain.PlanStep{
			{Contract: "BasicContract", Wait: &noWait},
		}}
		f.factories.On("Resolve", mock.Anything, "BasicContract").Return(newFactory(t, "BasicContract", returnsTrueABI), nil)
		f.store.On("SaveDeployment", mock.Anything, mock.MatchedBy(func(d *models.Deployment) bool {
			return d.Status == models.DeploymentStatusSubmitted && d.TxHash != ""
		})).Return(nil)

		result, err := f.useCase().Run(ctx, usecase.DeployParams{Plan: plan})
		require.NoError(t, err)
		assert.Equal(t, models.DeploymentStatusSubmitted, result.Deployments[0].Status)
		f.store.AssertExpectations(t)
	})

	t.Run("registry failure is reported at record", func(t *testing.T) {
		f := newDeployFixture(t)
		f.cfg.Plan = domain.BasicPlan()
		f.factories.On("Resolve", mock.Anything, "BasicContract").Return(newFactory(t, "BasicContract", returnsTrueABI), nil)
		f.store.On("SaveDeployment", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := f.useCase().Run(ctx, usecase.DeployParams{})
		var depErr *domain.DeploymentError
		require.True(t, errors.As(err, &depErr))
		assert.Equal(t, domain.StageRecord, depErr.Stage)
	})
}
