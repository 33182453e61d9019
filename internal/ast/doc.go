// Package ast holds the syntax tree the chart parser builds for Python scripts.
//
// Only expressions and simple statements are modelled: calls (with positional
// and keyword arguments), attribute chains, subscripts, literals and
// containers. Everything the analyzers do not need (lambdas, comprehensions,
// f-strings, slices) collapses into Other, which still exposes its children
// so nested calls remain reachable by Inspect.
//
// Constant folding happens at parse time: numeric unary/binary arithmetic on
// literals and implicit string concatenation yield plain Num/Str nodes marked
// Folded.
package ast
