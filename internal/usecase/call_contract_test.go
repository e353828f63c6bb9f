package usecase_test

import (
	"context"
	"testing"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func trueWord() []byte {
	return common.LeftPadBytes([]byte{1}, 32)
}

func TestCallContract(t *testing.T) {
	ctx := context.Background()
	basic := &models.Deployment{
		ID:       "localhost/31337/BasicContract",
		Network:  "localhost",
		ChainID:  31337,
		StepID:   "BasicContract",
		Contract: "BasicContract",
		Address:  "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		Status:   models.DeploymentStatusConfirmed,
	}

	setup := func(t *testing.T) (*config.RuntimeConfig, *MockDeploymentStore, *MockFactoryResolver, *fakeChain, *MockSelector) {
		factories := new(MockFactoryResolver)
		factories.On("Resolve", mock.Anything, "BasicContract").Return(newFactory(t, "BasicContract", returnsTrueABI), nil)
		chain := &fakeChain{chainID: 31337, callOutput: trueWord()}
		return &config.RuntimeConfig{Network: localNetwork()}, new(MockDeploymentStore), factories, chain, new(MockSelector)
	}

	t.Run("calls returnsTrue on a recorded deployment", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		store.On("GetDeployment", ctx, "BasicContract").Return(nil, domain.ErrNotFound)
		store.On("ListDeployments", ctx, domain.DeploymentFilter{Network: "localhost", Contract: "BasicContract"}).
			Return([]*models.Deployment{basic}, nil)

		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)
		result, err := uc.Run(ctx, usecase.CallContractParams{Target: "BasicContract", Method: "returnsTrue"})

		require.NoError(t, err)
		assert.Equal(t, []any{true}, result.Outputs)
		assert.Equal(t, common.HexToAddress(basic.Address), chain.calledTo)
		assert.Same(t, basic, result.Deployment)
		assert.True(t, chain.closed)
	})

	t.Run("calls by deployment id", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		store.On("GetDeployment", ctx, basic.ID).Return(basic, nil)

		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)
		result, err := uc.Run(ctx, usecase.CallContractParams{Target: basic.ID, Method: "returnsTrue"})

		require.NoError(t, err)
		assert.Equal(t, []any{true}, result.Outputs)
		store.AssertNotCalled(t, "ListDeployments", mock.Anything, mock.Anything)
	})

	t.Run("raw address needs an artifact", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)

		_, err := uc.Run(ctx, usecase.CallContractParams{Target: basic.Address, Method: "returnsTrue"})
		require.Error(t, err)

		result, err := uc.Run(ctx, usecase.CallContractParams{Target: basic.Address, Method: "returnsTrue", Artifact: "BasicContract"})
		require.NoError(t, err)
		assert.Nil(t, result.Deployment)
		assert.Equal(t, []any{true}, result.Outputs)
	})

	t.Run("unknown method", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		store.On("GetDeployment", ctx, basic.ID).Return(basic, nil)

		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)
		_, err := uc.Run(ctx, usecase.CallContractParams{Target: basic.ID, Method: "returnsFalse"})
		assert.ErrorContains(t, err, `has no method "returnsFalse"`)
	})

	t.Run("ambiguous target uses the selector", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		other := *basic
		other.ID = "localhost/31337/basic2"
		other.StepID = "basic2"
		matches := []*models.Deployment{basic, &other}

		store.On("GetDeployment", ctx, "BasicContract").Return(nil, domain.ErrNotFound)
		store.On("ListDeployments", ctx, mock.Anything).Return(matches, nil)
		selector.On("SelectDeployment", ctx, matches, mock.Anything).Return(&other, nil)

		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)
		result, err := uc.Run(ctx, usecase.CallContractParams{Target: "BasicContract", Method: "returnsTrue"})

		require.NoError(t, err)
		assert.Equal(t, "basic2", result.Deployment.StepID)
		selector.AssertExpectations(t)
	})

	t.Run("ambiguous target fails when non-interactive", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		cfg.NonInteractive = true
		store.On("GetDeployment", ctx, "BasicContract").Return(nil, domain.ErrNotFound)
		store.On("ListDeployments", ctx, mock.Anything).Return([]*models.Deployment{basic, basic}, nil)

		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)
		_, err := uc.Run(ctx, usecase.CallContractParams{Target: "BasicContract", Method: "returnsTrue"})
		assert.ErrorContains(t, err, "2 deployments match")
		selector.AssertNotCalled(t, "SelectDeployment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nothing recorded", func(t *testing.T) {
		cfg, store, factories, chain, selector := setup(t)
		store.On("GetDeployment", ctx, "ECreds").Return(nil, domain.ErrNotFound)
		store.On("ListDeployments", ctx, mock.Anything).Return([]*models.Deployment{}, nil)

		uc := usecase.NewCallContract(cfg, store, factories, &fakeConnector{chain: chain}, selector)
		_, err := uc.Run(ctx, usecase.CallContractParams{Target: "ECreds", Method: "returnsTrue"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
