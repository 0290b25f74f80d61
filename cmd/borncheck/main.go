// Command borncheck verifies that the Born tensor library and its WebGPU
// backend are installed correctly. Run without arguments it reports versions,
// probes the accelerator, times a 2000×2000 matrix multiplication, checks a
// gradient and runs a small network forward pass.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/selfcheck"
	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagSize    = flag.Int("size", 2000, "Edge of the square matrices multiplied by the benchmark.")
	flagDevice  = flag.String("device", "auto", "Device to run on: auto, cpu or gpu. With gpu the check fails if no accelerator is found.")
	flagSummary = flag.Bool("summary", false, "Print a table summarising every step after the run.")
)

// options carries the flag values into run.
type options struct {
	size    int
	device  string
	summary bool
}

var errUsage = errors.New("unexpected arguments")

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, flag.Args(), options{size: *flagSize, device: *flagDevice, summary: *flagSummary}, os.Stdout)
	stop()
	if code := exitCode(err); code != 0 {
		klog.Errorf("borncheck failed: %+v", err)
		klog.Flush()
		os.Exit(code)
	}
}

// exitCode maps the result of run to the process exit status: 2 for bad
// usage, 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context, args []string, opts options, out io.Writer) error {
	if len(args) > 0 {
		return errors.Wrapf(errUsage, "%q, see 'borncheck -help'", args)
	}
	pref, err := device.ParsePreference(opts.device)
	if err != nil {
		return err
	}

	cfg := selfcheck.DefaultConfig()
	cfg.MatrixSize = opts.size
	cfg.Device = pref
	cfg.Out = out

	runner, err := selfcheck.NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if opts.summary {
		lipgloss.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
		must.M1(fmt.Fprintln(out))
		must.M1(fmt.Fprintln(out, report.Summary()))
	}
	return nil
}
