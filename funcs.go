package calc

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a numeric library function.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call may modify the elements of args.
	Call(args []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// The evaluator checks this before every call and reports a CallError
	// when it returns false.
	CanCall(n int) bool
}

// libprec is the working precision in bits of the functions computed with
// extended precision. Results are rounded to float64 afterward.
const libprec = 64

var library = map[string]Func{
	"abs":    Monadic(math.Abs),
	"acos":   Monadic(math.Acos),
	"acosh":  Monadic(math.Acosh),
	"asin":   Monadic(math.Asin),
	"asinh":  Monadic(math.Asinh),
	"atan":   Monadic(math.Atan),
	"atanh":  Monadic(math.Atanh),
	"cbrt":   Monadic(math.Cbrt),
	"ceil":   Monadic(math.Ceil),
	"cos":    Monadic(math.Cos),
	"cosh":   Monadic(math.Cosh),
	"exp":    Precise(bigfloat.Exp, math.Exp, expdomain),
	"floor":  Monadic(math.Floor),
	"fround": Monadic(fround),
	"hypot":  Variadic(0, math.Hypot),
	"imul":   Dyadic(imul),
	"ln":     Precise(bigfloat.Log, math.Log, posdomain),
	"log":    Precise(bigfloat.Log, math.Log, posdomain),
	"max":    Variadic(math.Inf(-1), math.Max),
	"min":    Variadic(math.Inf(1), math.Min),
	"pow":    precisePow{},
	"round":  Monadic(round),
	"sign":   Monadic(sign),
	"sin":    Monadic(math.Sin),
	"sinh":   Monadic(math.Sinh),
	"sqrt":   Precise((*big.Float).Sqrt, math.Sqrt, posdomain),
	"tan":    Monadic(math.Tan),
	"tanh":   Monadic(math.Tanh),
	"trunc":  Monadic(math.Trunc),

	// constants
	"pi": Constant(bigfloat.Pi),
	"e": Constant(func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	}),
}

// LookupFunc returns the library function with the given name.
func LookupFunc(name string) (Func, bool) {
	f, ok := library[name]
	return f, ok
}

// FuncNames returns the names of all library functions in sorted order.
func FuncNames() []string {
	names := make([]string, 0, len(library))
	for k := range library {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

type monadic func(float64) float64

func (f monadic) Call(args []float64) (float64, error) {
	return f(args[0]), nil
}

func (f monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func.
func Monadic(f func(float64) float64) Func {
	return monadic(f)
}

type dyadic func(x, y float64) float64

func (f dyadic) Call(args []float64) (float64, error) {
	return f(args[0], args[1]), nil
}

func (f dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two variables into a Func.
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic(f)
}

type variadic struct {
	zero float64
	f    func(acc, x float64) float64
}

func (v variadic) Call(args []float64) (float64, error) {
	r := v.zero
	for _, x := range args {
		r = v.f(r, x)
	}
	return r, nil
}

func (v variadic) CanCall(n int) bool {
	return true
}

// Variadic creates a Func of any number of arguments by folding f over them
// from left to right, starting with zero. With no arguments, the result is
// zero.
func Variadic(zero float64, f func(acc, x float64) float64) Func {
	return variadic{zero, f}
}

type precise struct {
	f      func(out, in *big.Float) *big.Float
	approx func(float64) float64
	domain func(float64) bool
}

func (p precise) Call(args []float64) (r float64, err error) {
	x := args[0]
	if !p.domain(x) {
		return p.approx(x), nil
	}
	defer nanrecover(&r)
	in := new(big.Float).SetPrec(libprec).SetFloat64(x)
	out := new(big.Float).SetPrec(libprec)
	r, _ = p.f(out, in).Float64()
	return r, nil
}

func (p precise) CanCall(n int) bool {
	return n == 1
}

// Precise wraps a function of one variable computed with extended precision.
// f must set out to its result, to the precision of out; its return value is
// used as the result. For arguments outside domain, approx computes the
// result instead. If f panics with big.ErrNaN, the result is NaN.
func Precise(f func(out, in *big.Float) *big.Float, approx func(float64) float64, domain func(float64) bool) Func {
	return precise{f, approx, domain}
}

type constant func(out *big.Float) *big.Float

func (c constant) Call(args []float64) (float64, error) {
	r, _ := c(new(big.Float).SetPrec(libprec)).Float64()
	return r, nil
}

func (c constant) CanCall(n int) bool {
	return n == 0
}

// Constant wraps a function of zero variables computing a constant to the
// precision of out. Unlike Precise, the wrapped function is expected never to
// panic.
func Constant(f func(out *big.Float) *big.Float) Func {
	return constant(f)
}

type precisePow struct{}

func (precisePow) Call(args []float64) (r float64, err error) {
	x, y := args[0], args[1]
	// bigfloat.Pow needs a positive base, and the exponent of the result has
	// to stay near float64 range or the computation becomes enormous.
	if !posdomain(x) || math.IsInf(y, 0) || math.IsNaN(y) || math.Abs(y*math.Log2(x)) > 1100 {
		return math.Pow(x, y), nil
	}
	defer nanrecover(&r)
	bx := new(big.Float).SetPrec(libprec).SetFloat64(x)
	by := new(big.Float).SetPrec(libprec).SetFloat64(y)
	r, _ = bigfloat.Pow(new(big.Float).SetPrec(libprec), bx, by).Float64()
	return r, nil
}

func (precisePow) CanCall(n int) bool {
	return n == 2
}

// nanrecover recovers a big.ErrNaN panic and sets *r to NaN. Other panics are
// propagated.
func nanrecover(r *float64) {
	p := recover()
	if p == nil {
		return
	}
	err, _ := p.(error)
	if !errors.As(err, new(big.ErrNaN)) {
		panic(p)
	}
	*r = math.NaN()
}

func posdomain(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func expdomain(x float64) bool {
	return math.Abs(x) < 710
}

func fround(x float64) float64 {
	return float64(float32(x))
}

// round rounds half toward positive infinity.
func round(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 && math.Signbit(x) {
		return math.Copysign(0, -1)
	}
	return r
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		// NaN and signed zeros are their own signs.
		return x
	}
}

// imul multiplies the 32-bit integer conversions of x and y with wraparound.
func imul(x, y float64) float64 {
	return float64(toInt32(x) * toInt32(y))
}

func toInt32(x float64) int32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(x), 1<<32))))
}
