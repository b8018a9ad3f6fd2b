package analyzers

import (
	"context"
	"math"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

// Wavelet normalisation methods.
const (
	NormalisationEnergy = "energy"
	NormalisationGabor  = "gabor"
)

// minQRatio is the minimal number of the wavelet oscillations within its standard deviation.
const minQRatio = 5.0

// WaveletParams are the parameters of the continuous wavelet transform.
type WaveletParams struct {
	Mother        string
	Normalisation string
	QRatio        float64
	// SamplePeriod is the sample period of the result in milliseconds. It is rounded to the multiple of the
	// time series sample period.
	SamplePeriod float64
	// FrequencyLo, FrequencyHi and FrequencyStep define the analyzed frequencies [lo, hi) in kHz.
	FrequencyLo   float64
	FrequencyHi   float64
	FrequencyStep float64
	Workers       int
}

// WaveletParamsFromConfig gets the wavelet transform parameters from the config.
func WaveletParamsFromConfig(c *config.Analyzers) WaveletParams {
	w := c.Wavelet
	return WaveletParams{
		Mother:        w.Mother,
		Normalisation: w.Normalisation,
		QRatio:        w.QRatio,
		SamplePeriod:  w.SamplePeriod,
		FrequencyLo:   w.FrequencyLo,
		FrequencyHi:   w.FrequencyHi,
		FrequencyStep: w.FrequencyStep,
		Workers:       c.Workers,
	}
}

// Frequencies gets the analyzed frequencies.
func (p WaveletParams) Frequencies() []float64 {
	var out []float64
	if p.FrequencyStep <= 0 {
		return out
	}
	for i := 0; ; i++ {
		f := p.FrequencyLo + float64(i)*p.FrequencyStep
		if f >= p.FrequencyHi-p.FrequencyStep*1e-9 {
			break
		}
		out = append(out, f)
	}
	return out
}

func (p WaveletParams) validate() error {
	if p.Mother != "" && p.Mother != "morlet" {
		return errors.NewDetf(class.AnalyzerParameter, "unsupported mother wavelet: '%s'", p.Mother)
	}
	switch p.Normalisation {
	case "", NormalisationEnergy, NormalisationGabor:
	default:
		return errors.NewDetf(class.AnalyzerParameter, "unknown wavelet normalisation: '%s'", p.Normalisation)
	}
	if p.QRatio < minQRatio {
		return errors.NewDetf(class.AnalyzerParameter, "q-ratio: %v must not be lower than %v", p.QRatio, minQRatio)
	}
	if p.FrequencyLo <= 0 || p.FrequencyStep <= 0 || p.FrequencyHi <= p.FrequencyLo {
		return errors.NewDetf(class.AnalyzerParameter, "invalid frequency range: [%v, %v) step: %v", p.FrequencyLo, p.FrequencyHi, p.FrequencyStep)
	}
	return nil
}

// ContinuousWaveletTransform computes the complex Morlet wavelet coefficients of each node trace. Each frequency 'f'
// kernel has the gaussian envelope of the standard deviation QRatio / (2π·f), truncated at 3.5 deviations,
// and is convolved with the trace keeping its length. The result is subsampled to the SamplePeriod.
func ContinuousWaveletTransform(ctx context.Context, ts datatypes.TimeSeriesData, params WaveletParams) (*datatypes.WaveletCoefficients, error) {
	t, err := input(ts, 2)
	if err != nil {
		return nil, err
	}
	if params.Mother == "" {
		params.Mother = "morlet"
	}
	if params.Normalisation == "" {
		params.Normalisation = NormalisationEnergy
	}
	if err = params.validate(); err != nil {
		return nil, err
	}
	freqs := params.Frequencies()
	period := samplePeriodMs(t)
	step := int(math.Round(params.SamplePeriod / period))
	if step < 1 {
		logger.Warningf("Wavelet sample period: %v ms is shorter than the time series sample period: %v ms", params.SamplePeriod, period)
		step = 1
	}
	nt := t.NrTimePoints
	outNt := (nt + step - 1) / step

	kernels := make([][]complex128, len(freqs))
	for k, f := range freqs {
		kernels[k] = morlet(f, params.QRatio, period, params.Normalisation)
		if len(kernels[k]) > nt {
			logger.Debugf("Wavelet kernel of frequency: %v kHz is longer than the time series", f)
		}
	}

	shape := []int{len(freqs), outNt, t.NrStateVariables, t.NrSpaceNodes, t.NrModes}
	re, im := arrays.NewFloat(shape), arrays.NewFloat(shape)
	err = forEachSlice(ctx, t, params.Workers, func(ctx context.Context, sv, mode int) error {
		for node, trace := range traces(t, sv, mode) {
			if err := ctx.Err(); err != nil {
				return err
			}
			for k, kernel := range kernels {
				half := len(kernel) / 2
				for o := 0; o < outNt; o++ {
					i := o * step
					var sum complex128
					// 'same' mode convolution centered at the time point 'i'
					for j, kv := range kernel {
						idx := i + half - j
						if idx < 0 || idx >= nt {
							continue
						}
						sum += complex(trace[idx], 0) * kv
					}
					off := arrays.Offset(shape, k, o, sv, node, mode)
					re.Values[off] = real(sum)
					im.Values[off] = imag(sum)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	frequencies := arrays.NewFloat([]int{len(freqs)})
	copy(frequencies.Values, freqs)
	result := &datatypes.WaveletCoefficients{
		Source:        ts,
		Mother:        params.Mother,
		SamplePeriod:  float64(step) * period,
		Frequencies:   frequencies,
		Normalisation: params.Normalisation,
		QRatio:        params.QRatio,
		Real:          re,
		Imag:          im,
	}
	if err := result.Configure(); err != nil {
		return nil, err
	}
	return result, nil
}

// morlet gets the complex Morlet kernel of the frequency 'f' (kHz) sampled with the 'period' (ms).
func morlet(f, qRatio, period float64, normalisation string) []complex128 {
	// standard deviation in samples
	sigma := qRatio / (2 * math.Pi * f) / period
	half := int(math.Ceil(3.5 * sigma))
	omega := 2 * math.Pi * f * period

	var norm float64
	switch normalisation {
	case NormalisationGabor:
		norm = 1 / (math.Sqrt(2*math.Pi) * sigma)
	default:
		norm = 1 / math.Sqrt(math.Sqrt(math.Pi)*sigma)
	}
	kernel := make([]complex128, 2*half+1)
	for n := -half; n <= half; n++ {
		x := float64(n)
		env := norm * math.Exp(-x*x/(2*sigma*sigma))
		kernel[n+half] = complex(env*math.Cos(omega*x), env*math.Sin(omega*x))
	}
	return kernel
}
