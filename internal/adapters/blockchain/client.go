package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultConfirmInterval is the receipt polling period
const DefaultConfirmInterval = 2 * time.Second

// gasMarginPercent is added on top of estimated gas
const gasMarginPercent = 20

// Backend is the subset of the JSON-RPC API the client needs. Both
// *ethclient.Client and the simulated backend's client satisfy it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client submits creation transactions and waits for their receipts
type Client struct {
	backend  Backend
	chainID  *big.Int
	interval time.Duration
	closer   func()
	log      *slog.Logger
}

// NewClient wraps a backend already known to serve chainID
func NewClient(backend Backend, chainID uint64, interval time.Duration, closer func(), log *slog.Logger) *Client {
	if interval <= 0 {
		interval = DefaultConfirmInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		backend:  backend,
		chainID:  new(big.Int).SetUint64(chainID),
		interval: interval,
		closer:   closer,
		log:      log.With("component", "blockchain"),
	}
}

func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (c *Client) PendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	return c.backend.PendingNonceAt(ctx, account)
}

// EstimateCreate returns the gas a creation transaction would use
func (c *Client) EstimateCreate(ctx context.Context, from common.Address, tx usecase.CreateTx) (uint64, error) {
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		Value: tx.Value,
		Data:  tx.Data,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return gas, nil
}

// SendCreate signs and submits a creation transaction. EIP-1559 fees are
// used when the chain reports a base fee, legacy pricing otherwise.
func (c *Client) SendCreate(ctx context.Context, signer usecase.Signer, tx usecase.CreateTx) (*usecase.PendingDeployment, error) {
	gas := tx.GasLimit
	if gas == 0 {
		estimated, err := c.EstimateCreate(ctx, signer.Address(), tx)
		if err != nil {
			return nil, err
		}
		gas = estimated + estimated*gasMarginPercent/100
	}

	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	var data types.TxData
	if head.BaseFee != nil {
		tip, err := c.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas tip: %w", err)
		}
		feeCap := new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
		data = &types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     tx.Nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			Value:     value,
			Data:      tx.Data,
		}
	} else {
		price, err := c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		data = &types.LegacyTx{
			Nonce:    tx.Nonce,
			GasPrice: price,
			Gas:      gas,
			Value:    value,
			Data:     tx.Data,
		}
	}

	signed, err := signer.SignTx(types.NewTx(data), c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.log.Debug("creation transaction sent", "hash", signed.Hash().Hex(), "nonce", tx.Nonce, "gas", gas, "type", signed.Type())

	return &usecase.PendingDeployment{
		TxHash:   signed.Hash(),
		Address:  crypto.CreateAddress(signer.Address(), tx.Nonce),
		Nonce:    tx.Nonce,
		GasLimit: gas,
	}, nil
}

// WaitConfirmed polls for the receipt until it appears or ctx is done, then
// checks the status and that code was left at the address.
func (c *Client) WaitConfirmed(ctx context.Context, pending *usecase.PendingDeployment) (*usecase.Confirmation, error) {
	receipt, err := c.waitReceipt(ctx, pending.TxHash)
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction %s in block %s", domain.ErrDeploymentReverted, pending.TxHash.Hex(), receipt.BlockNumber)
	}

	addr := receipt.ContractAddress
	if addr == (common.Address{}) {
		addr = pending.Address
	}

	code, err := c.backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get code at %s: %w", addr.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoCode, addr.Hex())
	}

	conf := &usecase.Confirmation{
		Address: addr,
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		conf.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return conf, nil
}

func (c *Client) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Call executes a read-only call against the latest block
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

var _ usecase.Chain = (*Client)(nil)
