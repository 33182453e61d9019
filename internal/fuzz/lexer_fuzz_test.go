package fuzztests

import (
	"testing"

	"chartlint/internal/diag"
	"chartlint/internal/lexer"
	"chartlint/internal/source"
	"chartlint/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.py", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		// токенов не больше, чем байт, с запасом на синтетические Newline
		limit := 2*len(input) + 4
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if i > limit {
				t.Fatalf("lexer does not terminate on %q", truncateForLog(input, 200))
			}
		}
	})
}
