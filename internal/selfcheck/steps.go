package selfcheck

import (
	"math"

	"github.com/born-ml/borncheck/internal/autodiff"
	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/nn"
	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/born-ml/borncheck/internal/version"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func (r *Runner) environment() error {
	env := EnvironmentResult{
		Library:     version.Library(),
		Accelerator: version.AcceleratorBuild(),
		GoRuntime:   version.GoRuntime(),
	}
	r.report.Environment = env
	r.printf("Born version: %s\n", env.Library)
	r.printf("Built with WebGPU: %s\n", env.Accelerator)
	r.printf("Go runtime: %s\n", env.GoRuntime)
	return nil
}

func (r *Runner) probe() error {
	result, err := device.Probe(r.cfg.Prober)
	if err != nil {
		return err
	}
	r.report.Probe = result

	r.printf("Accelerator available: %t\n", result.Available)
	if result.Available {
		r.printf("  Device count: %d\n", len(result.Devices))
		for _, d := range result.Devices {
			r.printf("    [%d] %s\n", d.Index, d)
		}
	}

	selection, err := r.cfg.Device.Select(result)
	if err != nil {
		return err
	}
	r.report.Selection = selection
	if err := r.selectBackend(selection); err != nil {
		return err
	}
	klog.V(1).Infof("selfcheck: selected %s, backend %s", selection, r.backend.Name())
	return nil
}

func (r *Runner) benchmark() error {
	n := r.cfg.MatrixSize
	shape := tensor.Shape{n, n}
	a := tensor.Randn[float32](shape, r.backend)
	b := tensor.Randn[float32](shape, r.backend)
	resident, err := tensor.Upload(r.backend, a.Raw(), b.Raw())
	if err != nil {
		return errors.Wrap(err, "moving matrices to the device")
	}

	start := r.cfg.Clock()
	c := a.MatMul(b)
	synced, err := tensor.Synchronize(r.backend)
	if err != nil {
		return errors.Wrap(err, "waiting for matrix multiply")
	}
	elapsed := r.cfg.Clock().Sub(start)

	bytes := uint64(a.Raw().ByteSize() + b.Raw().ByteSize() + c.Raw().ByteSize()) //nolint:gosec // sizes are non-negative
	r.report.Benchmark = BenchmarkResult{
		Device:       c.Device(),
		Backend:      r.backend.Name(),
		Shape:        c.Shape(),
		Elapsed:      elapsed,
		Resident:     resident,
		Synchronized: synced,
		Bytes:        bytes,
	}
	klog.V(1).Infof("selfcheck: matmul %s @ %s on %s, %s in tensors, resident=%t synchronized=%t, result on device only=%t",
		a.Shape(), b.Shape(), r.backend.Name(), humanize.Bytes(bytes), resident, synced, c.Raw().IsPending())

	if !c.Shape().Equal(shape) {
		return errors.Wrapf(ErrShapeMismatch, "matrix multiply returned %s, want %s", c.Shape(), shape)
	}
	r.printf("Matrix multiply on %s: %.4fs\n", r.backend.Device(), elapsed.Seconds())
	return nil
}

func (r *Runner) gradient() error {
	ad := autodiff.New(r.backend)
	tape := ad.Tape()
	tape.StartRecording()
	defer tape.Clear()

	x := tensor.Scalar[float32](float32(r.cfg.GradientAt), ad).RequireGrad()
	y := x.Mul(x).Add(x.MulScalar(2)).AddScalar(1)
	numOps := tape.NumOps()

	grads := autodiff.Backward(y, ad)
	tape.StopRecording()
	autodiff.AttachGrads(grads, x)
	if x.Grad() == nil {
		return errors.Wrap(ErrGradientMismatch, "no gradient reached x")
	}

	got := float64(x.Grad().Item())
	want := 2*r.cfg.GradientAt + 2
	r.report.Gradient = GradientResult{X: r.cfg.GradientAt, Grad: got, Expected: want, TapeOps: numOps}
	klog.V(1).Infof("selfcheck: y=%g from %d recorded ops", float64(y.Item()), numOps)

	r.printf("Autograd: d(y)/d(x) at x=%s → %s  (should be 2*x + 2 = %s)\n",
		trimFloat(r.cfg.GradientAt), formatGrad(got), trimFloat(want))
	if math.Abs(got-want) > r.cfg.Tolerance {
		return errors.Wrapf(ErrGradientMismatch, "got %g, want %g ± %g", got, want, r.cfg.Tolerance)
	}
	return nil
}

func (r *Runner) network() error {
	ad := autodiff.New(r.backend)
	model := nn.NewSequential[*autodiff.AutodiffBackend[tensor.Backend]](
		nn.NewLinear(r.cfg.InFeatures, r.cfg.HiddenFeatures, ad),
		nn.NewReLU[*autodiff.AutodiffBackend[tensor.Backend]](),
		nn.NewLinear(r.cfg.HiddenFeatures, r.cfg.OutFeatures, ad),
	)

	input := tensor.Randn[float32](tensor.Shape{r.cfg.BatchSize, r.cfg.InFeatures}, ad)
	output := model.Forward(input)

	r.report.Network = NetworkResult{
		Model:      model.String(),
		Layers:     model.Len(),
		Input:      input.Shape(),
		Output:     output.Shape(),
		Parameters: model.NumParameters(),
	}
	klog.V(1).Infof("selfcheck: %s with %s parameters", model, humanize.Comma(int64(model.NumParameters())))
	if klog.V(2).Enabled() {
		for _, p := range model.Parameters() {
			klog.Infof("selfcheck:   %s %s", p.Name(), p.Tensor().Shape())
		}
	}

	r.printf("NN forward: input shape %s → output shape %s\n", input.Shape(), output.Shape())
	want := tensor.Shape{r.cfg.BatchSize, r.cfg.OutFeatures}
	if !output.Shape().Equal(want) {
		return errors.Wrapf(ErrShapeMismatch, "network returned %s, want %s", output.Shape(), want)
	}
	return nil
}

// trimFloat prints v in its shortest form, "3" rather than "3.0".
func trimFloat(v float64) string {
	return humanize.Ftoa(v)
}
