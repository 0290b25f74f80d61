package selfcheck

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	faintStyle  = cellStyle.Faint(true)
)

// Summary renders the report as a table with one row per step.
func (r *Report) Summary() string {
	table := lgtable.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0:
				return headerStyle
			case col == 0:
				return cellStyle.Bold(true)
			case row%2 == 1:
				return faintStyle
			default:
				return cellStyle
			}
		}).
		Headers("Step", "Result", "Details")

	env := r.Environment
	table.Row("Environment", env.Library, fmt.Sprintf("WebGPU %s, %s", env.Accelerator, env.GoRuntime))

	devices := "no accelerator"
	if r.Probe.Available {
		devices = fmt.Sprintf("%d device(s)", len(r.Probe.Devices))
		if len(r.Probe.Devices) > 0 {
			devices += ", first: " + r.Probe.Devices[0].String()
		}
	}
	table.Row("Device", r.Selection.String(), devices)

	bench := r.Benchmark
	table.Row("Matrix multiply",
		fmt.Sprintf("%.4fs", bench.Elapsed.Seconds()),
		fmt.Sprintf("%s on %s, %s, resident=%t, synchronized=%t",
			bench.Shape, bench.Backend, humanize.Bytes(bench.Bytes), bench.Resident, bench.Synchronized))

	grad := r.Gradient
	table.Row("Autograd", formatGrad(grad.Grad),
		fmt.Sprintf("want %s at x=%s, %d ops recorded", trimFloat(grad.Expected), trimFloat(grad.X), grad.TapeOps))

	network := r.Network
	table.Row("NN forward", fmt.Sprintf("%s → %s", network.Input, network.Output),
		fmt.Sprintf("%s, %d layers, %s parameters", network.Model, network.Layers, humanize.Comma(int64(network.Parameters))))

	return table.String()
}
