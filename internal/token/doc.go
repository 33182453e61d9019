// Package token defines lexical token kinds and trivia for Python chart scripts.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Comments, blank lines, line continuations and newlines inside brackets
//     are Trivia; only logical line ends produce a Newline token.
//   - Indentation is not tokenized: the chart analyzers work on calls and
//     assignments regardless of block nesting.
package token
