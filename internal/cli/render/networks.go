package render

import (
	"fmt"
	"io"

	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
)

// NetworksRenderer prints the available networks
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the network list
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	t := newTable(r.out)
	t.AppendHeader(table.Row{"", "Network", "Chain", "RPC"})
	for _, n := range result.Networks {
		marker := ""
		if n.Name == result.Current {
			marker = confirmedStyle.Sprint("●")
		}
		if n.Error != nil {
			t.AppendRow(table.Row{marker, n.Name, "-", errorStyle.Sprint(n.Error.Error())})
			continue
		}
		chain := "auto"
		if n.Network.ChainID != 0 {
			chain = fmt.Sprintf("%d", n.Network.ChainID)
		}
		t.AppendRow(table.Row{marker, n.Name, chain, n.Network.RPCURL})
	}
	t.Render()
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)

type networkJSON struct {
	Name    string `json:"name"`
	ChainID uint64 `json:"chainId,omitempty"`
	RPCURL  string `json:"rpcUrl,omitempty"`
	Local   bool   `json:"local"`
	Error   string `json:"error,omitempty"`
}

// NetworksJSON builds the JSON document for the network list
func NetworksJSON(result *usecase.ListNetworksResult) any {
	networks := make([]networkJSON, 0, len(result.Networks))
	for _, n := range result.Networks {
		entry := networkJSON{Name: n.Name}
		if n.Error != nil {
			entry.Error = n.Error.Error()
		} else {
			entry.ChainID = n.Network.ChainID
			entry.RPCURL = n.Network.RPCURL
			entry.Local = n.Network.Local
		}
		networks = append(networks, entry)
	}
	return map[string]any{
		"current":  result.Current,
		"networks": networks,
	}
}
