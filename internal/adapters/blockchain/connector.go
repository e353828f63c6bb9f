package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Connector dials networks over JSON-RPC using ethclient
type Connector struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
}

// NewConnector creates a new connector
func NewConnector(cfg *config.RuntimeConfig, log *slog.Logger) *Connector {
	return &Connector{cfg: cfg, log: log}
}

// Connect establishes connection to the network and verifies its chain ID
func (c *Connector) Connect(ctx context.Context, network *config.Network) (usecase.Chain, error) {
	if network == nil || network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC URL configured for network")
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := VerifyChainID(ctx, client, network.ChainID)
	if err != nil {
		client.Close()
		return nil, err
	}

	c.log.Debug("connected", "network", network.Name, "chainId", chainID)
	return NewClient(client, chainID, c.cfg.ConfirmInterval, client.Close, c.log), nil
}

// VerifyChainID returns the chain ID the backend reports, failing when it
// differs from a non-zero expected value.
func VerifyChainID(ctx context.Context, backend Backend, expected uint64) (uint64, error) {
	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}

	actual := networkChainID.Uint64()
	if expected != 0 && actual != expected {
		return 0, fmt.Errorf("%w: expected chain %d, got %d", domain.ErrNetworkMismatch, expected, actual)
	}
	return actual, nil
}

var _ usecase.ChainConnector = (*Connector)(nil)
