package signers

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
)

// DevPrivateKey is the first account of the standard development mnemonic
// (anvil, hardhat). It is only ever used on local networks.
const DevPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// PrivateKeyEnvVars are consulted, in order, when no account is configured
var PrivateKeyEnvVars = []string{"DEPLOYER_PRIVATE_KEY", "PRIVATE_KEY"}

// KeySigner signs with an in-memory secp256k1 key
type KeySigner struct {
	name    string
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner creates a signer from a parsed key
func NewKeySigner(name string, key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{
		name:    name,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (s *KeySigner) Name() string            { return s.name }
func (s *KeySigner) Address() common.Address { return s.address }

func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

// Provider loads the configured accounts into signers. The first signer
// is the deployer.
type Provider struct {
	cfg       *config.RuntimeConfig
	log       *slog.Logger
	lookupEnv func(string) (string, bool)

	once    sync.Once
	signers []usecase.Signer
	err     error
}

// NewProvider creates a new signer provider
func NewProvider(cfg *config.RuntimeConfig, log *slog.Logger) *Provider {
	return &Provider{
		cfg:       cfg,
		log:       log.With("component", "signers"),
		lookupEnv: os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup
func (p *Provider) WithEnv(lookup func(string) (string, bool)) *Provider {
	p.lookupEnv = lookup
	return p
}

// Signers returns the signers ordered by their configured order, then name
func (p *Provider) Signers(ctx context.Context) ([]usecase.Signer, error) {
	p.once.Do(func() {
		p.signers, p.err = p.load()
	})
	return p.signers, p.err
}

func (p *Provider) load() ([]usecase.Signer, error) {
	accounts := p.configuredAccounts()

	signers := make([]usecase.Signer, 0, len(accounts)+1)
	for _, acct := range accounts {
		s, err := loadAccount(acct)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acct.Name, err)
		}
		p.log.Debug("loaded account", "name", acct.Name, "type", acct.Type, "address", s.Address().Hex())
		signers = append(signers, s)
	}
	if len(signers) > 0 {
		return signers, nil
	}

	for _, name := range PrivateKeyEnvVars {
		if raw, ok := p.lookupEnv(name); ok && strings.TrimSpace(raw) != "" {
			key, err := ParsePrivateKey(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			p.log.Debug("using private key from environment", "var", name)
			return []usecase.Signer{NewKeySigner(strings.ToLower(name), key)}, nil
		}
	}

	if p.cfg.Network != nil && p.cfg.Network.Local {
		key, err := ParsePrivateKey(DevPrivateKey)
		if err != nil {
			return nil, err
		}
		p.log.Debug("using development account", "network", p.cfg.Network.Name)
		return []usecase.Signer{NewKeySigner("dev", key)}, nil
	}

	return nil, nil
}

func (p *Provider) configuredAccounts() []config.NamedAccount {
	if p.cfg.ProjectConfig == nil {
		return nil
	}
	accounts := lo.MapToSlice(p.cfg.ProjectConfig.Accounts, func(name string, acct config.AccountConfig) config.NamedAccount {
		return config.NamedAccount{Name: name, AccountConfig: acct}
	})
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Order != accounts[j].Order {
			return accounts[i].Order < accounts[j].Order
		}
		return accounts[i].Name < accounts[j].Name
	})
	return accounts
}

func loadAccount(acct config.NamedAccount) (usecase.Signer, error) {
	var key *ecdsa.PrivateKey

	switch acct.Type {
	case config.AccountTypePrivateKey, "":
		if acct.PrivateKey == "" {
			return nil, fmt.Errorf("private key not configured")
		}
		parsed, err := ParsePrivateKey(acct.PrivateKey)
		if err != nil {
			return nil, err
		}
		key = parsed

	case config.AccountTypeKeystore:
		if acct.Keystore == "" {
			return nil, fmt.Errorf("keystore path not configured")
		}
		data, err := os.ReadFile(acct.Keystore)
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore: %w", err)
		}
		decrypted, err := keystore.DecryptKey(data, acct.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
		}
		key = decrypted.PrivateKey

	default:
		return nil, fmt.Errorf("unsupported account type: %s", acct.Type)
	}

	signer := NewKeySigner(acct.Name, key)
	if acct.Address != "" && !strings.EqualFold(common.HexToAddress(acct.Address).Hex(), signer.Address().Hex()) {
		return nil, fmt.Errorf("key derives %s, configured address is %s", signer.Address().Hex(), acct.Address)
	}
	return signer, nil
}

// ParsePrivateKey parses a hex private key with or without 0x prefix
func ParsePrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

var _ usecase.SignerProvider = (*Provider)(nil)
