package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractFactory is a deployable unit: creation bytecode plus its interface.
type ContractFactory struct {
	Name         string   `json:"name"`
	SourcePath   string   `json:"sourcePath,omitempty"`
	ArtifactPath string   `json:"artifactPath"`
	ABI          *abi.ABI `json:"-"`
	Bytecode     []byte   `json:"-"`
}

// FullName returns "source:Name", or just the name when the source is unknown
func (c *ContractFactory) FullName() string {
	if c.SourcePath == "" {
		return c.Name
	}
	return fmt.Sprintf("%s:%s", c.SourcePath, c.Name)
}

// BytecodeObject represents bytecode information in a Foundry artifact
type BytecodeObject struct {
	Object         string         `json:"object"`
	SourceMap      string         `json:"sourceMap"`
	LinkReferences map[string]any `json:"linkReferences"`
}

// Artifact is the union of Hardhat and Foundry artifact layouts.
//
// Hardhat stores bytecode as a hex string next to contractName/sourceName;
// Foundry stores an object and keeps the names in metadata.
type Artifact struct {
	Format       string          `json:"_format,omitempty"`
	ContractName string          `json:"contractName,omitempty"`
	SourceName   string          `json:"sourceName,omitempty"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// ArtifactMetadata represents the metadata section of a Foundry artifact
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// BytecodeHex returns the creation bytecode as hex, whichever layout the artifact uses.
func (a *Artifact) BytecodeHex() (string, error) {
	if len(a.Bytecode) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(a.Bytecode, &s); err == nil {
		return s, nil
	}
	var obj BytecodeObject
	if err := json.Unmarshal(a.Bytecode, &obj); err != nil {
		return "", fmt.Errorf("unrecognized bytecode field: %w", err)
	}
	return obj.Object, nil
}

// Target returns the source path and contract name the artifact was compiled from.
func (a *Artifact) Target() (source, name string) {
	if a.ContractName != "" {
		return a.SourceName, a.ContractName
	}
	if len(a.Metadata) == 0 || a.Metadata[0] != '{' {
		return "", ""
	}
	var meta ArtifactMetadata
	if err := json.Unmarshal(a.Metadata, &meta); err != nil {
		return "", ""
	}
	for src, contract := range meta.Settings.CompilationTarget {
		return src, contract
	}
	return "", ""
}

// IsDeployable reports whether there is creation code to send
func (a *Artifact) IsDeployable() bool {
	code, err := a.BytecodeHex()
	if err != nil {
		return false
	}
	code = strings.TrimPrefix(code, "0x")
	return code != ""
}
