package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethereum/go-ethereum/common"
)

// AccountInfo describes the deploying account on the configured network
type AccountInfo struct {
	Name    string
	Address common.Address
	Network *config.Network
	ChainID uint64
	Balance *big.Int
	Nonce   uint64
}

// ShowAccount resolves the deployer and reads its on-chain state
type ShowAccount struct {
	config    *config.RuntimeConfig
	signers   SignerProvider
	connector ChainConnector
	sink      ProgressSink
}

// NewShowAccount creates a new ShowAccount use case
func NewShowAccount(cfg *config.RuntimeConfig, signers SignerProvider, connector ChainConnector, sink ProgressSink) *ShowAccount {
	return &ShowAccount{
		config:    cfg,
		signers:   signers,
		connector: connector,
		sink:      sink,
	}
}

// Run executes the show account use case
func (uc *ShowAccount) Run(ctx context.Context) (*AccountInfo, error) {
	signers, err := uc.signers.Signers(ctx)
	if err != nil {
		return nil, err
	}
	if len(signers) == 0 {
		return nil, domain.ErrNoSigner
	}
	signer := signers[0]

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "connecting",
		Message: fmt.Sprintf("Connecting to %s", uc.config.Network.Name),
		Spinner: true,
	})

	chain, err := uc.connector.Connect(ctx, uc.config.Network)
	if err != nil {
		return nil, err
	}
	defer chain.Close()

	balance, err := chain.Balance(ctx, signer.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	nonce, err := chain.PendingNonce(ctx, signer.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})

	return &AccountInfo{
		Name:    signer.Name(),
		Address: signer.Address(),
		Network: uc.config.Network,
		ChainID: chain.ChainID(),
		Balance: balance,
		Nonce:   nonce,
	}, nil
}
