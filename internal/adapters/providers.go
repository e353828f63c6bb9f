package adapters

import (
	"github.com/ethcredit/ecreds-deploy/internal/adapters/artifacts"
	"github.com/ethcredit/ecreds-deploy/internal/adapters/blockchain"
	"github.com/ethcredit/ecreds-deploy/internal/adapters/interactive"
	"github.com/ethcredit/ecreds-deploy/internal/adapters/progress"
	"github.com/ethcredit/ecreds-deploy/internal/adapters/repository/deployments"
	"github.com/ethcredit/ecreds-deploy/internal/adapters/signers"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/google/wire"
)

// StorageSet provides the file backed deployment registry
var StorageSet = wire.NewSet(
	deployments.NewFileRepository,
	wire.Bind(new(usecase.DeploymentStore), new(*deployments.FileRepository)),
)

// ArtifactSet provides compiled contract lookup
var ArtifactSet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ContractFactoryResolver), new(*artifacts.Repository)),
)

// BlockchainSet provides network access and signing
var BlockchainSet = wire.NewSet(
	blockchain.NewConnector,
	wire.Bind(new(usecase.ChainConnector), new(*blockchain.Connector)),

	signers.NewProvider,
	wire.Bind(new(usecase.SignerProvider), new(*signers.Provider)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// ProgressSet provides the progress sink matching the output mode
var ProgressSet = wire.NewSet(
	progress.NewSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	ArtifactSet,
	BlockchainSet,
	InteractiveSet,
	ProgressSet,
)
