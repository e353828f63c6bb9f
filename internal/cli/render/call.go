package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
)

// CallRenderer prints decoded call outputs
type CallRenderer struct {
	out io.Writer
}

// NewCallRenderer creates a new call renderer
func NewCallRenderer(out io.Writer) *CallRenderer {
	return &CallRenderer{out: out}
}

// Render renders the call result
func (r *CallRenderer) Render(result *usecase.CallResult) error {
	target := result.Contract
	if result.Deployment != nil {
		target = result.Deployment.DisplayName()
	}
	fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprintf("%s.%s()", target, result.Method), labelStyle.Sprintf("at %s", result.Address.Hex()))

	if len(result.Outputs) == 0 {
		fmt.Fprintln(r.out, "(no outputs)")
		return nil
	}
	for _, v := range result.Outputs {
		fmt.Fprintln(r.out, formatValue(v))
	}
	return nil
}

var _ Renderer[*usecase.CallResult] = (*CallRenderer)(nil)

// formatValue renders ABI-decoded values the way a block explorer would
func formatValue(v any) string {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case *big.Int:
		return val.String()
	case []byte:
		return hexutil.Encode(val)
	case [32]byte:
		return hexutil.Encode(val[:])
	default:
		return fmt.Sprint(val)
	}
}

type callJSON struct {
	Address  string   `json:"address"`
	Contract string   `json:"contract"`
	Method   string   `json:"method"`
	Outputs  []string `json:"outputs"`
}

// CallJSON builds the JSON document for a call. Outputs are strings so
// that large integers survive JSON consumers.
func CallJSON(result *usecase.CallResult) any {
	return callJSON{
		Address:  result.Address.Hex(),
		Contract: result.Contract,
		Method:   result.Method,
		Outputs:  lo.Map(result.Outputs, func(v any, _ int) string { return formatValue(v) }),
	}
}
