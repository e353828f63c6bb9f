package render

import (
	"fmt"
	"io"

	"github.com/ethcredit/ecreds-deploy/internal/usecase"
)

// AccountRenderer prints the deploying account
type AccountRenderer struct {
	out io.Writer
}

// NewAccountRenderer creates a new account renderer
func NewAccountRenderer(out io.Writer) *AccountRenderer {
	return &AccountRenderer{out: out}
}

// Render renders the account info
func (r *AccountRenderer) Render(info *usecase.AccountInfo) error {
	network := "unknown"
	if info.Network != nil {
		network = info.Network.Name
	}

	line := func(label, value string) {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprintf("%-9s", label+":"), value)
	}
	line("Account", info.Name)
	line("Address", addressStyle.Sprint(info.Address.Hex()))
	line("Network", fmt.Sprintf("%s (chain %d)", network, info.ChainID))
	line("Balance", fmt.Sprintf("%s (%s wei)", FormatEther(info.Balance), info.Balance))
	line("Nonce", fmt.Sprintf("%d", info.Nonce))

	if info.Balance == nil || info.Balance.Sign() == 0 {
		fmt.Fprintln(r.out, FormatWarning("account has no funds to pay for deployments"))
	}
	return nil
}

var _ Renderer[*usecase.AccountInfo] = (*AccountRenderer)(nil)

// AccountJSON builds the JSON document for an account
func AccountJSON(info *usecase.AccountInfo) any {
	doc := map[string]any{
		"name":    info.Name,
		"address": info.Address.Hex(),
		"chainId": info.ChainID,
		"nonce":   info.Nonce,
		"balance": "0",
	}
	if info.Network != nil {
		doc["network"] = info.Network.Name
	}
	if info.Balance != nil {
		doc["balance"] = info.Balance.String()
	}
	return doc
}
