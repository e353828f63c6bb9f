package render

import (
	"io"
	"math/big"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	labelStyle     = color.New(color.Faint)
	addressStyle   = color.New(color.FgWhite)
	timestampStyle = color.New(color.Faint)
	confirmedStyle = color.New(color.FgGreen)
	pendingStyle   = color.New(color.FgYellow)
	errorStyle     = color.New(color.FgRed)
	networkBg      = color.New(color.BgCyan, color.FgBlack)
	networkBold    = color.New(color.BgCyan, color.FgBlack, color.Bold)
)

var titleCase = cases.Title(language.English)

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatEther renders a wei amount as ether with trailing zeros trimmed
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0 ETH"
	}
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	s := eth.Text('f', 6)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s + " ETH"
}

// statusCell colors a deployment status: "CONFIRMED" -> green "Confirmed"
func statusCell(status models.DeploymentStatus) string {
	label := titleCase.String(strings.ToLower(string(status)))
	switch status {
	case models.DeploymentStatusConfirmed:
		return confirmedStyle.Sprint(label)
	case models.DeploymentStatusSubmitted, models.DeploymentStatusSimulated:
		return pendingStyle.Sprint("⏳ " + strings.ToLower(label))
	default:
		return label
	}
}

// shortHash abbreviates a 0x hash to 0x1234…abcd
func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:6] + "…" + h[len(h)-4:]
}

// newTable returns a borderless table that writes to out on Render
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = true
	t.Style().Format.Header = text.FormatUpper
	return t
}
