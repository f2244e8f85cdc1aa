// Package sym provides a small symbolic expression graph over float64
// arithmetic.
//
// Expressions are built from variables, constants, n-ary sums and
// products, constant-exponent powers and a few elementary functions:
//
//	x := sym.NewVar("x")
//	f := sym.Add(sym.Square(x), sym.Mul(sym.Num(3), sym.Sin(x)))
//	df := f.Diff(x)
//	y := df.Eval(sym.Valuation{x: 0.5})
//
// Constructors fold constants and flatten nested sums/products, so
// derivative expressions stay reasonably small. Variables compare by
// identity: two calls to [NewVar] yield distinct variables even with
// the same name.
//
// The package is the substrate for transcribed optimal-control problems:
// the transcription layer builds constraint and objective expressions,
// and NLP backends differentiate and evaluate them.
package sym
