package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeployParams contains parameters for a deployment run
type DeployParams struct {
	Plan     *domain.Plan
	DryRun   bool
	NoRecord bool
}

// DeployResult contains the outcome of a deployment run
type DeployResult struct {
	Network     *config.Network
	ChainID     uint64
	Deployer    common.Address
	Balance     *big.Int
	DryRun      bool
	Deployments []*models.Deployment
}

// DeployContracts deploys the steps of a plan strictly in order and stops
// at the first failure. Nothing already deployed is rolled back.
type DeployContracts struct {
	config    *config.RuntimeConfig
	signers   SignerProvider
	connector ChainConnector
	factories ContractFactoryResolver
	store     DeploymentStore
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	signers SignerProvider,
	connector ChainConnector,
	factories ContractFactoryResolver,
	store DeploymentStore,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	if progress == nil {
		progress = NopProgress{}
	}
	return &DeployContracts{
		config:    cfg,
		signers:   signers,
		connector: connector,
		factories: factories,
		store:     store,
		progress:  progress,
		log:       log.With("component", "DeployContracts"),
		now:       time.Now,
	}
}

// deployRun carries the state of one execution
type deployRun struct {
	chain     Chain
	signer    Signer
	nonce     uint64
	addresses map[string]common.Address
	result    *DeployResult
}

// Run executes the plan
func (uc *DeployContracts) Run(ctx context.Context, params DeployParams) (*DeployResult, error) {
	plan := params.Plan
	if plan == nil {
		plan = uc.config.Plan
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network configured")
	}

	signers, err := uc.signers.Signers(ctx)
	if err != nil {
		return nil, &domain.DeploymentError{Stage: domain.StageSigner, Err: err}
	}
	if len(signers) == 0 {
		return nil, &domain.DeploymentError{Stage: domain.StageSigner, Err: domain.ErrNoSigner}
	}
	signer := signers[0]

	chain, err := uc.connector.Connect(ctx, uc.config.Network)
	if err != nil {
		return nil, &domain.DeploymentError{Stage: domain.StageConnect, Err: err}
	}
	defer chain.Close()

	balance, err := chain.Balance(ctx, signer.Address())
	if err != nil {
		return nil, &domain.DeploymentError{Stage: domain.StageBalance, Err: err}
	}

	uc.progress.Info(fmt.Sprintf("Deploying contracts with account: %s", signer.Address().Hex()))
	uc.progress.Info(fmt.Sprintf("Account balance: %s", balance.String()))
	uc.log.Debug("starting deployment",
		"plan", plan.Name, "network", uc.config.Network.Name, "chainId", chain.ChainID(),
		"deployer", signer.Address().Hex(), "steps", len(plan.Steps), "dryRun", params.DryRun)

	nonce, err := chain.PendingNonce(ctx, signer.Address())
	if err != nil {
		return nil, &domain.DeploymentError{Stage: domain.StageSubmit, Err: fmt.Errorf("failed to read nonce: %w", err)}
	}

	run := &deployRun{
		chain:     chain,
		signer:    signer,
		nonce:     nonce,
		addresses: make(map[string]common.Address, len(plan.Steps)),
		result: &DeployResult{
			Network:  uc.config.Network,
			ChainID:  chain.ChainID(),
			Deployer: signer.Address(),
			Balance:  balance,
			DryRun:   params.DryRun,
		},
	}

	for i, step := range plan.Steps {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "deploy",
			Current: i + 1,
			Total:   len(plan.Steps),
			Message: fmt.Sprintf("Deploying %s", step.StepID()),
			Spinner: true,
		})

		dep, err := uc.deployStep(ctx, run, step, params)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: "failed", Current: i + 1, Total: len(plan.Steps)})
			return run.result, err
		}
		run.result.Deployments = append(run.result.Deployments, dep)
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "deployed", Current: i + 1, Total: len(plan.Steps)})

		switch dep.Status {
		case models.DeploymentStatusConfirmed:
			uc.progress.Info(fmt.Sprintf("%s address: %s", step.StepID(), dep.Address))
		case models.DeploymentStatusSubmitted:
			uc.progress.Info(fmt.Sprintf("%s address: %s (pending %s)", step.StepID(), dep.Address, dep.TxHash))
		default:
			uc.progress.Info(fmt.Sprintf("%s address: %s (predicted, gas %d)", step.StepID(), dep.Address, dep.GasUsed))
		}
	}

	return run.result, nil
}

func (uc *DeployContracts) deployStep(ctx context.Context, run *deployRun, step domain.PlanStep, params DeployParams) (*models.Deployment, error) {
	id := step.StepID()
	fail := func(stage domain.DeploymentStage, err error) error {
		return &domain.DeploymentError{Step: id, Contract: step.Contract, Stage: stage, Err: err}
	}

	factory, err := uc.factories.Resolve(ctx, step.Contract)
	if err != nil {
		return nil, fail(domain.StageFactory, err)
	}

	args, err := EncodeConstructorArgs(factory, step.Args, run.addresses)
	if err != nil {
		return nil, fail(domain.StageEncode, err)
	}
	value, err := ParseWei(step.Value)
	if err != nil {
		return nil, fail(domain.StageEncode, err)
	}

	data := make([]byte, 0, len(factory.Bytecode)+len(args))
	data = append(data, factory.Bytecode...)
	data = append(data, args...)

	tx := CreateTx{
		Nonce:    run.nonce,
		Data:     data,
		Value:    value,
		GasLimit: step.GasLimit,
	}

	dep := &models.Deployment{
		ID:              models.DeploymentID(uc.config.Network.Name, run.chain.ChainID(), id),
		Network:         uc.config.Network.Name,
		ChainID:         run.chain.ChainID(),
		StepID:          id,
		Contract:        factory.Name,
		Artifact:        factory.ArtifactPath,
		Deployer:        run.signer.Address().Hex(),
		Nonce:           run.nonce,
		ConstructorArgs: hexOrEmpty(args),
		CreatedAt:       uc.now(),
	}

	if params.DryRun {
		gas, err := run.chain.EstimateCreate(ctx, run.signer.Address(), tx)
		if err != nil {
			return nil, fail(domain.StageSubmit, err)
		}
		addr := crypto.CreateAddress(run.signer.Address(), run.nonce)
		run.addresses[id] = addr
		run.nonce++
		dep.Address = addr.Hex()
		dep.GasUsed = gas
		dep.Status = models.DeploymentStatusSimulated
		return dep, nil
	}

	pending, err := run.chain.SendCreate(ctx, run.signer, tx)
	if err != nil {
		return nil, fail(domain.StageSubmit, err)
	}
	run.nonce++
	dep.TxHash = pending.TxHash.Hex()
	dep.Address = pending.Address.Hex()
	dep.Status = models.DeploymentStatusSubmitted

	uc.log.Debug("deployment submitted", "step", id, "tx", pending.TxHash.Hex(), "nonce", pending.Nonce, "gas", pending.GasLimit)

	// Validation guarantees no later step references an unawaited one.
	if step.WaitsForConfirmation() {
		conf, err := run.chain.WaitConfirmed(ctx, pending)
		if err != nil {
			return nil, fail(domain.StageConfirm, err)
		}
		dep.Address = conf.Address.Hex()
		dep.BlockNumber = conf.BlockNumber
		dep.GasUsed = conf.GasUsed
		dep.Status = models.DeploymentStatusConfirmed
		run.addresses[id] = conf.Address
	}

	if !params.NoRecord && uc.store != nil {
		if err := uc.store.SaveDeployment(ctx, dep); err != nil {
			return nil, fail(domain.StageRecord, err)
		}
	}

	return dep, nil
}

func hexOrEmpty(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return "0x" + hex.EncodeToString(b)
}
