// Package equations contains the parametrised equations used i.e. for the spatial and temporal
// stimuli patterns. The parameters are declared with the 'tvb' struct tags, so that each equation
// is a datatype with default values.
package equations

import (
	"math"
	"sort"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
	"github.com/neuronlabs/tvb/traits"
)

// Equation is the parametrised function of a single variable.
type Equation interface {
	traits.Datatype
	// Evaluate computes the equation for each of the 'x' values.
	Evaluate(x []float64) []float64
	// Formula gets the human readable formula of the equation.
	Formula() string
}

var registry = traits.NewRegistry()

func init() {
	if err := Register(registry); err != nil {
		log.Errorf("Registering equations failed: %v", err)
		panic(err)
	}
}

// All gets the zero values of all the equations.
func All() []interface{} {
	return []interface{}{&Linear{}, &Gaussian{}, &DoubleGaussian{}, &Sigmoid{}, &Sinusoid{}, &Cosine{}, &Alpha{}, &PulseTrain{}}
}

// Register registers all the equations within the registry 'r'.
func Register(r *traits.Registry) error {
	return r.RegisterTypes(All()...)
}

// New creates the equation for provided 'tag' with the default parameters.
func New(tag string) (Equation, error) {
	dt, err := registry.New(tag)
	if err != nil {
		return nil, err
	}
	eq, ok := dt.(Equation)
	if !ok {
		return nil, errors.NewDetf(class.TraitsTypeNotRegistered, "datatype: '%s' is not an equation", tag)
	}
	return eq, nil
}

// Tags gets the sorted tags of all the equations.
func Tags() []string {
	var tags []string
	for _, ts := range registry.Types() {
		tags = append(tags, ts.Tag())
	}
	sort.Strings(tags)
	return tags
}

// Validate validates the equation parameters.
func Validate(eq Equation) error {
	return registry.Validate(eq)
}

func evaluate(x []float64, fn func(float64) float64) []float64 {
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = fn(v)
	}
	return y
}

// Linear is the a*x + b equation.
type Linear struct {
	traits.Base

	A float64 `tvb:"name=a;label=a;default=1.0"`
	B float64 `tvb:"name=b;label=b;default=0.0"`
}

// Evaluate implements Equation.
func (e *Linear) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 { return e.A*v + e.B })
}

// Formula implements Equation.
func (e *Linear) Formula() string {
	return "a * x + b"
}

// Gaussian is the gaussian bell curve.
type Gaussian struct {
	traits.Base

	Amp      float64 `tvb:"name=amp;label=Amplitude;default=1.0"`
	Sigma    float64 `tvb:"name=sigma;label=Standard deviation;default=1.0" validate:"gt=0"`
	Midpoint float64 `tvb:"name=midpoint;label=Midpoint;default=0.0"`
	Offset   float64 `tvb:"name=offset;label=Offset;default=0.0"`
}

// Evaluate implements Equation.
func (e *Gaussian) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 { return gauss(v, e.Amp, e.Midpoint, e.Sigma) + e.Offset })
}

// Formula implements Equation.
func (e *Gaussian) Formula() string {
	return "amp * exp(-((x - midpoint)^2 / (2 * sigma^2))) + offset"
}

// DoubleGaussian is the difference of two gaussians - the 'mexican hat' curve.
type DoubleGaussian struct {
	traits.Base

	Amp1      float64 `tvb:"name=amp_1;label=Amplitude of the first gaussian;default=0.5"`
	Sigma1    float64 `tvb:"name=sigma_1;label=Standard deviation of the first gaussian;default=20.0" validate:"gt=0"`
	Midpoint1 float64 `tvb:"name=midpoint_1;label=Midpoint of the first gaussian;default=0.0"`
	Amp2      float64 `tvb:"name=amp_2;label=Amplitude of the second gaussian;default=1.0"`
	Sigma2    float64 `tvb:"name=sigma_2;label=Standard deviation of the second gaussian;default=10.0" validate:"gt=0"`
	Midpoint2 float64 `tvb:"name=midpoint_2;label=Midpoint of the second gaussian;default=0.0"`
}

// Evaluate implements Equation.
func (e *DoubleGaussian) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 {
		return gauss(v, e.Amp1, e.Midpoint1, e.Sigma1) - gauss(v, e.Amp2, e.Midpoint2, e.Sigma2)
	})
}

// Formula implements Equation.
func (e *DoubleGaussian) Formula() string {
	return "amp_1 * exp(-((x - midpoint_1)^2 / (2 * sigma_1^2))) - amp_2 * exp(-((x - midpoint_2)^2 / (2 * sigma_2^2)))"
}

// sigmoidSlope is pi / sqrt(3) - makes the sigma the standard deviation of the logistic distribution.
const sigmoidSlope = 1.8137993642

// Sigmoid is the sigmoid function of the distance from the origin.
type Sigmoid struct {
	traits.Base

	Amp    float64 `tvb:"name=amp;label=Amplitude;default=1.0"`
	Radius float64 `tvb:"name=radius;label=Radius;default=5.0"`
	Sigma  float64 `tvb:"name=sigma;label=Sigma;default=1.0" validate:"gt=0"`
	Offset float64 `tvb:"name=offset;label=Offset;default=0.0"`
}

// Evaluate implements Equation.
func (e *Sigmoid) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 {
		return e.Amp/(1+math.Exp(-sigmoidSlope*(e.Radius-math.Abs(v))/e.Sigma)) + e.Offset
	})
}

// Formula implements Equation.
func (e *Sigmoid) Formula() string {
	return "amp / (1 + exp(-1.8137993642 * (radius - |x|) / sigma)) + offset"
}

// Sinusoid is the sine wave.
type Sinusoid struct {
	traits.Base

	Amp       float64 `tvb:"name=amp;label=Amplitude;default=1.0"`
	Frequency float64 `tvb:"name=frequency;label=Frequency;default=0.01;doc=Frequency in kHz"`
}

// Evaluate implements Equation.
func (e *Sinusoid) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 { return e.Amp * math.Sin(2*math.Pi*e.Frequency*v) })
}

// Formula implements Equation.
func (e *Sinusoid) Formula() string {
	return "amp * sin(2 * pi * frequency * x)"
}

// Cosine is the cosine wave.
type Cosine struct {
	traits.Base

	Amp       float64 `tvb:"name=amp;label=Amplitude;default=1.0"`
	Frequency float64 `tvb:"name=frequency;label=Frequency;default=0.01;doc=Frequency in kHz"`
}

// Evaluate implements Equation.
func (e *Cosine) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 { return e.Amp * math.Cos(2*math.Pi*e.Frequency*v) })
}

// Formula implements Equation.
func (e *Cosine) Formula() string {
	return "amp * cos(2 * pi * frequency * x)"
}

// Alpha is the alpha function - the response with the separate rise and decay time constants.
type Alpha struct {
	traits.Base

	Onset float64 `tvb:"name=onset;label=Onset time;default=0.5"`
	Alpha float64 `tvb:"name=alpha;label=Alpha;default=13.0"`
	Beta  float64 `tvb:"name=beta;label=Beta;default=42.0"`
}

// Evaluate implements Equation.
func (e *Alpha) Evaluate(x []float64) []float64 {
	scale := e.Alpha * e.Beta / (e.Beta - e.Alpha)
	return evaluate(x, func(v float64) float64 {
		if v <= e.Onset {
			return 0
		}
		t := v - e.Onset
		return scale * (math.Exp(-e.Alpha*t) - math.Exp(-e.Beta*t))
	})
}

// Formula implements Equation.
func (e *Alpha) Formula() string {
	return "(alpha * beta) / (beta - alpha) * (exp(-alpha * (x - onset)) - exp(-beta * (x - onset))) for x > onset"
}

// ValidateTraits implements traits.Validator.
func (e *Alpha) ValidateTraits() error {
	if e.Alpha == e.Beta {
		return errors.NewDet(class.DatatypeValue, "alpha and beta parameters must differ")
	}
	return nil
}

// PulseTrain is the train of the rectangular pulses.
type PulseTrain struct {
	traits.Base

	T     float64 `tvb:"name=T;label=Pulse repetition period;default=42.0" validate:"gt=0"`
	Tau   float64 `tvb:"name=tau;label=Pulse duration;default=13.0" validate:"gte=0"`
	Amp   float64 `tvb:"name=amp;label=Pulse amplitude;default=1.0"`
	Onset float64 `tvb:"name=onset;label=Onset time;default=30.0"`
}

// Evaluate implements Equation.
func (e *PulseTrain) Evaluate(x []float64) []float64 {
	return evaluate(x, func(v float64) float64 {
		if v < e.Onset || e.T <= 0 {
			return 0
		}
		if math.Mod(v-e.Onset, e.T) < e.Tau {
			return e.Amp
		}
		return 0
	})
}

// Formula implements Equation.
func (e *PulseTrain) Formula() string {
	return "amp if x >= onset and (x - onset) mod T < tau else 0"
}

func gauss(x, amp, mid, sigma float64) float64 {
	d := x - mid
	return amp * math.Exp(-(d*d)/(2*sigma*sigma))
}
