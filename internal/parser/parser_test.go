package parser_test

import (
	"testing"

	"chartlint/internal/ast"
	"chartlint/internal/diag"
	"chartlint/internal/parser"
	"chartlint/internal/source"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.py", []byte(src))
	bag := diag.NewBag(0)
	f := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return f, bag
}

func onlyCall(t *testing.T, f *ast.File, method string) *ast.Call {
	t.Helper()
	var found *ast.Call
	for _, c := range f.Calls() {
		if c.Method() == method {
			if found != nil {
				t.Fatalf("more than one %s call", method)
			}
			found = c
		}
	}
	if found == nil {
		t.Fatalf("no %s call found", method)
	}
	return found
}

func TestParseMultiLineCall(t *testing.T) {
	src := "import matplotlib.pyplot as plt\n" +
		"fig, ax = plt.subplots(figsize=(8, 6))\n" +
		"ax.text(0.5, 0.5,\n" +
		"        'Peak',\n" +
		"        fontsize=14, ha='center')\n"
	f, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	call := onlyCall(t, f, "text")
	if call.Receiver() != "ax" {
		t.Fatalf("receiver = %q", call.Receiver())
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 positional args, got %d", len(call.Args))
	}
	if s, ok := ast.StringValue(call.Args[2]); !ok || s != "Peak" {
		t.Fatalf("text arg = %q, %v", s, ok)
	}
	kw, ok := call.Kwarg("fontsize")
	if !ok {
		t.Fatal("fontsize kwarg missing")
	}
	if v, _ := ast.NumberValue(kw.Value); v != 14 {
		t.Fatalf("fontsize = %v", v)
	}
	line := f.Source.Line(kw.Value.Span())
	if line != 5 {
		t.Fatalf("fontsize literal on line %d, want 5", line)
	}

	sub := onlyCall(t, f, "subplots")
	fig, _ := sub.Kwarg("figsize")
	w, h, ok := ast.Pair(fig.Value)
	if !ok || w != 8 || h != 6 {
		t.Fatalf("figsize = (%v, %v) ok=%v", w, h, ok)
	}
}

func TestParseRcParamsAssignments(t *testing.T) {
	src := "import matplotlib as mpl\n" +
		"mpl.rcParams['font.size'] = 9\n" +
		"plt.rcParams.update({'axes.titlesize': 12, **extra})\n" +
		"plt.rc('xtick', labelsize=8)\n"
	f, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	var assign *ast.Assign
	for _, s := range f.Stmts {
		if a, ok := s.(*ast.Assign); ok {
			assign = a
		}
	}
	if assign == nil {
		t.Fatal("no assignment parsed")
	}
	sub, ok := assign.Targets[0].(*ast.Subscript)
	if !ok {
		t.Fatalf("target is %T", assign.Targets[0])
	}
	if d, _ := ast.Dotted(sub.X); d != "mpl.rcParams" {
		t.Fatalf("subscript receiver = %q", d)
	}
	if key, _ := ast.StringValue(sub.Index); key != "font.size" {
		t.Fatalf("key = %q", key)
	}

	upd := onlyCall(t, f, "update")
	if upd.Receiver() != "plt.rcParams" {
		t.Fatalf("update receiver = %q", upd.Receiver())
	}
	dict, ok := upd.Args[0].(*ast.Dict)
	if !ok {
		t.Fatalf("update arg is %T", upd.Args[0])
	}
	if len(dict.Keys) != 2 || dict.Keys[1] != nil {
		t.Fatalf("dict keys = %v", dict.Keys)
	}

	rc := onlyCall(t, f, "rc")
	if _, ok := rc.Kwarg("labelsize"); !ok {
		t.Fatal("labelsize kwarg missing")
	}
}

func TestParseConstantFolding(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"x = -8\n", -8},
		{"x = 2 * 7\n", 14},
		{"x = 10 + 2 * 3\n", 16},
		{"x = (1 + 1) ** 3\n", 8},
		{"x = -2 ** 2\n", -4},
		{"x = 7 // 2\n", 3},
		{"x = -7 % 3\n", 2},
		{"x = 1_000\n", 1000},
		{"x = 0x10\n", 16},
		{"x = 12.5 / 2\n", 6.25},
	}
	for _, tt := range tests {
		f, _ := parse(t, tt.src)
		a := f.Stmts[0].(*ast.Assign)
		v, ok := ast.NumberValue(a.Value)
		if !ok || v != tt.want {
			t.Errorf("%q: got %v (ok=%v), want %v", tt.src, v, ok, tt.want)
		}
	}

	f, _ := parse(t, "s = 'a' 'b' + \"c\"\n")
	s, ok := ast.StringValue(f.Stmts[0].(*ast.Assign).Value)
	if !ok || s != "abc" {
		t.Fatalf("string folding = %q, %v", s, ok)
	}

	f, _ = parse(t, "x = 1 / 0\n")
	if _, ok := ast.NumberValue(f.Stmts[0].(*ast.Assign).Value); ok {
		t.Fatal("division by zero must not fold")
	}
}

func TestParseNestedCalls(t *testing.T) {
	f, _ := parse(t, "fig.add_subplot(111).set_title(str(len(xs)), fontsize=max(10, 12))\n")
	var methods []string
	for _, c := range f.Calls() {
		methods = append(methods, c.Method())
	}
	want := []string{"set_title", "add_subplot", "str", "len", "max"}
	if len(methods) != len(want) {
		t.Fatalf("calls = %v, want %v", methods, want)
	}
	for i := range want {
		if methods[i] != want[i] {
			t.Fatalf("calls = %v, want %v", methods, want)
		}
	}
	title := onlyCall(t, f, "set_title")
	if title.Receiver() != "?" {
		t.Fatalf("receiver of chained call = %q", title.Receiver())
	}
}

func TestParseRecoversAfterBadLine(t *testing.T) {
	src := "ax.text(0, 0, 'a' fontsize=3)\n" +
		"ax.set_xlabel('Time', fontsize=10)\n"
	f, bag := parse(t, src)
	if bag.Len() == 0 {
		t.Fatal("expected a syntax diagnostic")
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SyntaxError || d.Severity != diag.SevInfo {
			t.Fatalf("unexpected diagnostic %v %v", d.Code, d.Severity)
		}
	}
	call := onlyCall(t, f, "set_xlabel")
	if f.Source.Line(call.Span()) != 2 {
		t.Fatalf("set_xlabel on line %d", f.Source.Line(call.Span()))
	}
}

func TestParseCompoundStatements(t *testing.T) {
	src := "for i, lbl in enumerate(labels):\n" +
		"    ax.annotate(lbl, (i, vals[i]), fontsize=9)\n" +
		"if show: plt.title('T', fontsize=16)\n" +
		"def helper(ax, *, size=12) -> None:\n" +
		"    ax.set_ylabel('Y', size=size)\n" +
		"data = [v * 2 for v in raw if v > 0]\n" +
		"fmt = lambda v: f'{v:.1f}'\n"
	f, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	onlyCall(t, f, "annotate")
	onlyCall(t, f, "title")
	onlyCall(t, f, "set_ylabel")
}

func TestBuildEnv(t *testing.T) {
	src := "FS = 14\n" +
		"LABEL = 'Revenue'\n" +
		"n = 1\n" +
		"n += 1\n" +
		"k = compute()\n" +
		"ax.set_xlabel(LABEL, fontsize=FS)\n"
	f, _ := parse(t, src)
	env := ast.BuildEnv(f)

	if v, ok := ast.NumberValue(env["FS"]); !ok || v != 14 {
		t.Fatalf("FS = %v, %v", v, ok)
	}
	if _, ok := env["n"]; ok {
		t.Fatal("n is reassigned and must not be constant")
	}
	if _, ok := env["k"]; ok {
		t.Fatal("k is not a literal")
	}
	call := onlyCall(t, f, "set_xlabel")
	kw, _ := call.Kwarg("fontsize")
	if v, ok := ast.NumberValue(env.Resolve(kw.Value)); !ok || v != 14 {
		t.Fatalf("resolved fontsize = %v, %v", v, ok)
	}
}

func TestBuildEnvSkipsOtherBindings(t *testing.T) {
	src := "x = 0.5\n" +
		"for x in [0.1, 0.5, 0.9]:\n" +
		"    ax.text(x, 0.5, 'Quarterly revenue')\n" +
		"p = 0.2\n" +
		"def note(ax, p, *, q=1):\n" +
		"    ax.text(p, 0.5, 'Quarterly costs')\n" +
		"f = 0.3\n" +
		"with open('d.csv') as f: pass\n" +
		"e = 0.4\n" +
		"try: pass\n" +
		"except ValueError as e: pass\n" +
		"v = 0.6\n" +
		"ys = [v * 2 for v in raw]\n" +
		"w = 0.7\n" +
		"g = lambda w: w\n" +
		"a = 0.8\n" +
		"a, b = pair()\n" +
		"KEEP = 0.25\n"
	f, bag := parse(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	env := ast.BuildEnv(f)
	for _, name := range []string{"x", "p", "note", "f", "e", "v", "w", "a"} {
		if v, ok := env[name]; ok {
			t.Errorf("%s resolves to %v, but it is rebound", name, v)
		}
	}
	if v, ok := ast.NumberValue(env["KEEP"]); !ok || v != 0.25 {
		t.Errorf("KEEP = %v, %v", v, ok)
	}
}
