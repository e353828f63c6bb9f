package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "BasicContract",
  "sourceName": "contracts/BasicContract.sol",
  "abi": [{"type":"function","name":"returnsTrue","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"}],
  "bytecode": "0x600a600c600039600a6000f3600160005260206000f3",
  "linkReferences": {}
}`

// newProject creates a project holding the BasicContract artifact and
// points the CLI at it
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "artifacts", "contracts", "BasicContract.sol", "BasicContract.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(basicArtifact), 0644))

	t.Setenv("ECREDS_PROJECT_ROOT", root)
	t.Setenv("DEPLOYER_PRIVATE_KEY", "")
	t.Setenv("PRIVATE_KEY", "")
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"deploy", "call", "account", "plan", "list", "show", "networks", "version"})

	for _, flag := range []string{"network", "config", "debug", "json", "non-interactive", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	// the bare command deploys, so it carries the deploy flags
	for _, flag := range []string{"plan", "dry-run", "no-record", "yes"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, cmd.RunE)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ecreds-deploy version dev")
}

func TestPlanCommandJSON(t *testing.T) {
	newProject(t)

	out, err := execute(t, "plan", "--plan", "basic", "--json")
	require.NoError(t, err)

	var doc struct {
		Name   string `json:"name"`
		Source string `json:"source"`
		Ready  bool   `json:"ready"`
		Steps  []struct {
			ID       string `json:"id"`
			Artifact string `json:"artifact"`
		} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "basic", doc.Name)
	assert.Equal(t, "builtin", doc.Source)
	assert.True(t, doc.Ready)
	require.Len(t, doc.Steps, 1)
	assert.Equal(t, "BasicContract", doc.Steps[0].ID)
	assert.Contains(t, doc.Steps[0].Artifact, "BasicContract.json")
}

func TestPlanCommandMissingArtifacts(t *testing.T) {
	newProject(t)

	out, err := execute(t, "plan", "--json")
	assert.ErrorIs(t, err, errPlanNotReady)
	assert.Contains(t, out, `"ready": false`)
	assert.Contains(t, out, "ETHCredit")
}

func TestUnknownPlanFails(t *testing.T) {
	newProject(t)

	_, err := execute(t, "plan", "--plan", "staging")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestListCommandEmpty(t *testing.T) {
	newProject(t)

	out, err := execute(t, "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deployments":[],"total":0,"byNetwork":{}}`, out)

	_, err = execute(t, "list", "--status", "reverted")
	assert.ErrorContains(t, err, "invalid status")
}

func TestNetworksCommandJSON(t *testing.T) {
	newProject(t)
	t.Setenv("SEPOLIA_RPC_URL", "https://sepolia.example.org")

	out, err := execute(t, "networks", "--json")
	require.NoError(t, err)

	var doc struct {
		Current  string `json:"current"`
		Networks []struct {
			Name    string `json:"name"`
			ChainID uint64 `json:"chainId"`
			Error   string `json:"error"`
		} `json:"networks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "localhost", doc.Current)

	byName := make(map[string]uint64)
	for _, n := range doc.Networks {
		byName[n.Name] = n.ChainID
	}
	assert.Equal(t, uint64(31337), byName["anvil"])
	assert.Equal(t, uint64(11155111), byName["sepolia"])
}

func TestShowUnknownDeployment(t *testing.T) {
	newProject(t)

	_, err := execute(t, "show", "ECreds", "--non-interactive")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCallRawAddressNeedsArtifact(t *testing.T) {
	newProject(t)

	_, err := execute(t, "call", "0x5FbDB2315678afecb367f032d93F642f64180aa3", "returnsTrue")
	assert.ErrorContains(t, err, "an artifact is required")
}

func TestDeployUnreachableNetwork(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, "deploy", "--plan", "basic", "--network", "http://127.0.0.1:1", "--non-interactive", "--json", "--timeout", "5s")
	require.Error(t, err)

	var de *domain.DeploymentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.StageConnect, de.Stage)

	var doc struct {
		Deployments []any `json:"deployments"`
		Error       struct {
			Stage string `json:"stage"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Empty(t, doc.Deployments)
	assert.Equal(t, "connect", doc.Error.Stage)

	_, statErr := os.Stat(filepath.Join(root, ".ecreds", "deployments.json"))
	assert.True(t, os.IsNotExist(statErr))
}
