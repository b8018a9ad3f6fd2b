package datatypes

import (
	"fmt"
	"math"

	"github.com/emer/etable/etensor"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/traits"
)

// Windowing functions.
const (
	WindowHamming  = "hamming"
	WindowBartlett = "bartlett"
	WindowBlackman = "blackman"
	WindowHanning  = "hanning"
)

// FourierSpectrum is the result of the fourier analysis of the time series segments.
// The complex coefficients are stored as the real and imaginary parts.
type FourierSpectrum struct {
	traits.Base

	Source         TimeSeriesData   `tvb:"label=Source time-series;required"`
	SegmentLength  float64          `tvb:"label=Segment length;doc=The length of the time segments in ms" validate:"gte=0"`
	WindowFunction string           `tvb:"label=Windowing function;choices=hamming,bartlett,blackman,hanning"`
	Real           *etensor.Float64 `tvb:"label=Fourier coefficients, real part;required;shape=freq,segments,sv,space,mode"`
	Imag           *etensor.Float64 `tvb:"label=Fourier coefficients, imaginary part;required;shape=freq,segments,sv,space,mode"`

	Frequency              *etensor.Float64 `tvb:"label=Frequency;derived;shape=freq;doc=Frequencies in Hz"`
	Power                  *etensor.Float64 `tvb:"label=Power;derived;shape=freq,segments,sv,space,mode"`
	Amplitude              *etensor.Float64 `tvb:"label=Amplitude;derived;shape=freq,segments,sv,space,mode"`
	Phase                  *etensor.Float64 `tvb:"label=Phase;derived;shape=freq,segments,sv,space,mode"`
	AveragePower           *etensor.Float64 `tvb:"label=Average power;derived;shape=freq,sv,space,mode"`
	NormalisedAveragePower *etensor.Float64 `tvb:"label=Normalised average power;derived;shape=freq,sv,space,mode"`
	FrequencyStep          float64          `tvb:"label=Frequency step;derived"`
	MaxFrequency           float64          `tvb:"label=Max frequency;derived"`
}

// Configure derives the frequencies and the power of the coefficients.
func (f *FourierSpectrum) Configure() error {
	if f.Real == nil || f.Imag == nil {
		return nil
	}
	if !arrays.EqualShape(f.Real.Shapes(), f.Imag.Shapes()) {
		return errors.NewDetf(class.DatatypeShape, "real part shape: %v doesn't match the imaginary: %v", f.Real.Shapes(), f.Imag.Shapes())
	}
	f.ComputeFrequency()
	f.ComputePower()
	f.ComputeAmplitude()
	f.ComputePhase()
	f.ComputeAveragePower()
	f.ComputeNormalisedAveragePower()
	return nil
}

// ComputeFrequency sets the frequencies of the coefficients. The DC component is not a part of the spectrum,
// thus the k-th coefficient has the frequency (k+1) * 1000 / SegmentLength Hz.
func (f *FourierSpectrum) ComputeFrequency() {
	if f.SegmentLength <= 0 {
		return
	}
	n := f.Real.Shapes()[0]
	f.FrequencyStep = 1000 / f.SegmentLength
	f.Frequency = arrays.NewFloat([]int{n})
	for k := range f.Frequency.Values {
		f.Frequency.Values[k] = float64(k+1) * f.FrequencyStep
	}
	f.MaxFrequency = float64(n) * f.FrequencyStep
}

// ComputePower sets the power - squared absolute value of the coefficients.
func (f *FourierSpectrum) ComputePower() {
	f.Power = complexMap(f.Real, f.Imag, func(re, im float64) float64 { return re*re + im*im })
}

// ComputeAmplitude sets the absolute value of the coefficients.
func (f *FourierSpectrum) ComputeAmplitude() {
	f.Amplitude = complexMap(f.Real, f.Imag, math.Hypot)
}

// ComputePhase sets the phase angle of the coefficients.
func (f *FourierSpectrum) ComputePhase() {
	f.Phase = complexMap(f.Real, f.Imag, func(re, im float64) float64 { return math.Atan2(im, re) })
}

// ComputeAveragePower sets the power averaged over the segments.
func (f *FourierSpectrum) ComputeAveragePower() {
	if f.Power == nil {
		f.ComputePower()
	}
	shape := f.Power.Shapes()
	nf, ns := shape[0], shape[1]
	inner := arrays.Size(shape[2:])
	avg := arrays.NewFloat(append([]int{nf}, shape[2:]...))
	for k := 0; k < nf; k++ {
		for s := 0; s < ns; s++ {
			row := f.Power.Values[(k*ns+s)*inner : (k*ns+s+1)*inner]
			for i, p := range row {
				avg.Values[k*inner+i] += p / float64(ns)
			}
		}
	}
	f.AveragePower = avg
}

// ComputeNormalisedAveragePower sets the average power divided by its sum over the frequencies.
func (f *FourierSpectrum) ComputeNormalisedAveragePower() {
	if f.AveragePower == nil {
		f.ComputeAveragePower()
	}
	f.NormalisedAveragePower = normaliseFirstAxis(f.AveragePower)
}

// SummaryInfo implements traits.Summarizer.
func (f *FourierSpectrum) SummaryInfo() map[string]string {
	return map[string]string{
		"Segment length":     fmt.Sprint(f.SegmentLength),
		"Windowing function": f.WindowFunction,
		"Frequency step":     fmt.Sprintf("%.4g", f.FrequencyStep),
		"Maximum frequency":  fmt.Sprintf("%.4g", f.MaxFrequency),
	}
}

// CoherenceSpectrum is the coherence of each pair of the nodes as the function of the frequency.
type CoherenceSpectrum struct {
	traits.Base

	Source    TimeSeriesData   `tvb:"label=Source time-series;required"`
	NFFT      int              `tvb:"label=Data-points per block;default=256" validate:"gt=1"`
	Array     *etensor.Float64 `tvb:"name=array_data;label=Coherence;required;shape=nodes,nodes,freq,sv,mode"`
	Frequency *etensor.Float64 `tvb:"label=Frequency;shape=freq;doc=Frequencies in Hz"`
}

// SummaryInfo implements traits.Summarizer.
func (c *CoherenceSpectrum) SummaryInfo() map[string]string {
	info := map[string]string{"Number of frequencies": "0", "NFFT": fmt.Sprint(c.NFFT)}
	if c.Frequency != nil {
		info["Number of frequencies"] = fmt.Sprint(len(c.Frequency.Values))
	}
	return info
}

// WaveletCoefficients are the complex coefficients of the continuous wavelet transform.
type WaveletCoefficients struct {
	traits.Base

	Source        TimeSeriesData   `tvb:"label=Source time-series;required"`
	Mother        string           `tvb:"label=Mother wavelet;default=morlet;choices=morlet"`
	SamplePeriod  float64          `tvb:"label=Sample period;doc=Sample period of the result in ms" validate:"gte=0"`
	Frequencies   *etensor.Float64 `tvb:"label=Frequencies;required;shape=freq;doc=Frequencies in kHz"`
	Normalisation string           `tvb:"label=Normalisation;default=energy;choices=energy,gabor"`
	QRatio        float64          `tvb:"label=Q-ratio;default=5.0" validate:"gt=0"`
	Real          *etensor.Float64 `tvb:"label=Wavelet coefficients, real part;required;shape=freq,time,sv,space,mode"`
	Imag          *etensor.Float64 `tvb:"label=Wavelet coefficients, imaginary part;required;shape=freq,time,sv,space,mode"`

	Power     *etensor.Float64 `tvb:"label=Power;derived;shape=freq,time,sv,space,mode"`
	Amplitude *etensor.Float64 `tvb:"label=Amplitude;derived;shape=freq,time,sv,space,mode"`
	Phase     *etensor.Float64 `tvb:"label=Phase;derived;shape=freq,time,sv,space,mode"`
}

// Configure derives the power, amplitude and phase of the coefficients.
func (w *WaveletCoefficients) Configure() error {
	if w.Real == nil || w.Imag == nil {
		return nil
	}
	if !arrays.EqualShape(w.Real.Shapes(), w.Imag.Shapes()) {
		return errors.NewDetf(class.DatatypeShape, "real part shape: %v doesn't match the imaginary: %v", w.Real.Shapes(), w.Imag.Shapes())
	}
	w.Power = complexMap(w.Real, w.Imag, func(re, im float64) float64 { return re*re + im*im })
	w.Amplitude = complexMap(w.Real, w.Imag, math.Hypot)
	w.Phase = complexMap(w.Real, w.Imag, func(re, im float64) float64 { return math.Atan2(im, re) })
	return nil
}

// SummaryInfo implements traits.Summarizer.
func (w *WaveletCoefficients) SummaryInfo() map[string]string {
	info := map[string]string{
		"Mother wavelet": w.Mother,
		"Normalisation":  w.Normalisation,
		"Q-ratio":        fmt.Sprint(w.QRatio),
		"Sample period":  fmt.Sprint(w.SamplePeriod),
	}
	if w.Frequencies != nil && len(w.Frequencies.Values) > 0 {
		values := w.Frequencies.Values
		info["Frequencies"] = fmt.Sprintf("[%.4g, %.4g] (%d)", values[0], values[len(values)-1], len(values))
	}
	return info
}

func complexMap(re, im *etensor.Float64, fn func(re, im float64) float64) *etensor.Float64 {
	out := arrays.NewFloat(re.Shapes())
	for i := range out.Values {
		out.Values[i] = fn(re.Values[i], im.Values[i])
	}
	return out
}

// normaliseFirstAxis divides the values by their sum over the first axis.
func normaliseFirstAxis(t *etensor.Float64) *etensor.Float64 {
	shape := t.Shapes()
	inner := arrays.RowSize(shape)
	sums := make([]float64, inner)
	for k := 0; k < shape[0]; k++ {
		for i := 0; i < inner; i++ {
			sums[i] += t.Values[k*inner+i]
		}
	}
	out := arrays.NewFloat(shape)
	for k := 0; k < shape[0]; k++ {
		for i := 0; i < inner; i++ {
			if sums[i] != 0 {
				out.Values[k*inner+i] = t.Values[k*inner+i] / sums[i]
			}
		}
	}
	return out
}
