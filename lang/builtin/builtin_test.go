package builtin

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/shibo/lang"
)

// run evaluates src with the default natives and built-in modules and
// returns what it printed.
func run(t *testing.T, src string) (string, error) {
	t.Helper()

	return runWith(t, nil, src)
}

// runWith is run with extra globals. String literals cannot hold quotes or
// escapes, so tests pass such text in as globals.
func runWith(t *testing.T, globals map[string]string, src string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	in := lang.New(
		lang.WithStdout(&out),
		lang.WithNatives(Default()),
		lang.WithModuleHook(Modules),
	)

	for k, v := range globals {
		in.Globals().Set(k, lang.Str(v))
	}

	_, err := in.Run(t.Context(), src)

	return out.String(), err
}

func TestCore(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "append returns and mutates the list",
			src:  "var a = [1]; var b = append(a, 2); print(a); print(b == a)",
			want: "[1, 2]\ntrue\n",
		},
		{
			name: "remove first equal element",
			src:  "print(remove([1, 2, 1], 1))",
			want: "[2, 1]\n",
		},
		{
			name: "remove dict key",
			src:  `print(remove({"a": 1, "b": 2}, "a"))`,
			want: "{\"b\": 2}\n",
		},
		{
			name: "pop default and index",
			src:  "var a = [1, 2, 3]; print(pop(a)); print(pop(a, 0)); print(a)",
			want: "3\n1\n[2]\n",
		},
		{
			name: "pop dict",
			src:  `var d = {"k": 5}; print(pop(d, "k")); print(pop(d, "k")); print(len(d))`,
			want: "5\nnull\n0\n",
		},
		{
			name: "sort numbers and strings",
			src:  `print(sort([3, 1.5, 2])); print(sort(["b", "a"]))`,
			want: "[1.5, 2, 3]\n[\"a\", \"b\"]\n",
		},
		{
			name: "reverse list and string",
			src:  `print(reverse([1, 2, 3])); print(reverse("abc"))`,
			want: "[3, 2, 1]\ncba\n",
		},
		{
			name: "keys and values keep insertion order",
			src:  `var d = {"z": 1, "a": 2}; print(keys(d)); print(values(d))`,
			want: "[\"z\", \"a\"]\n[1, 2]\n",
		},
		{
			name: "len of each container",
			src:  `print(len("héllo")); print(len([1, 2])); print(len({"a": 1})); print(len(set(1, 1, 2)))`,
			want: "5\n2\n1\n2\n",
		},
		{
			name: "range forms",
			src:  "print(range(3)); print(range(1, 4)); print(range(5, 0, -2)); print(range(2, 2))",
			want: "[0, 1, 2]\n[1, 2, 3]\n[5, 3, 1]\n[]\n",
		},
		{
			name: "range stops at the integer limits",
			src: `print(range(9223372036854775806, 9223372036854775807, 2))
				print(len(range(-9223372036854775807, -9223372036854775807 - 1, -3)))`,
			want: "[9223372036854775806]\n1\n",
		},
		{
			name: "type names",
			src: `class P {}
				print(type(null)); print(type(true)); print(type(1)); print(type(1.0))
				print(type("s")); print(type([])); print(type({})); print(type(set()))
				print(type(P)); print(type(P())); print(type(len))`,
			want: "null\nbool\nint\nfloat\nstr\nlist\ndict\nset\nclass\nP\nnative\n",
		},
		{
			name: "conversions",
			src:  `print(str(1.5) + "!"); print(int("42") + 1); print(int(-2.7)); print(float("2.5")); print(float(2)); print(bool(0)); print(bool("x"))`,
			want: "1.5!\n43\n-2\n2.5\n2.0\nfalse\ntrue\n",
		},
		{
			name: "upper lower split join",
			src:  `print(upper("ab")); print(lower("AB")); print(split("a b  c")); print(split("a,b", ",")); print(join([1, "x", 2.0], "-"))`,
			want: "AB\nab\n[\"a\", \"b\", \"c\"]\n[\"a\", \"b\"]\n1-x-2.0\n",
		},
		{
			name: "map filter reduce with script functions",
			src: `func sq(x) { return x * x }
				func odd(x) { return x % 2 == 1 }
				func add(a, b) { return a + b }
				print(map(sq, [1, 2, 3]))
				print(filter(odd, [1, 2, 3]))
				print(reduce(add, [1, 2, 3]))
				print(reduce(add, [], 10))`,
			want: "[1, 4, 9]\n[1, 3]\n6\n10\n",
		},
		{
			name: "map accepts natives",
			src:  `print(map(upper, ["a", "b"]))`,
			want: "[\"A\", \"B\"]\n",
		},
		{
			name: "copy is shallow",
			src:  "var a = [[1]]; var b = copy(a); b[0][0] = 9; append(b, 2); print(a); print(b)",
			want: "[[9]]\n[[9], 2]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCore_Faults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"arity", "len()", "len() expected 1 arguments, got 0"},
		{"argument type", "upper(1)", "upper() argument 1 must be str, not int"},
		{"remove missing", "remove([1], 2)", "remove(): 2 not in list"},
		{"pop empty", "pop([])", "pop from empty list"},
		{"sort mixed", `sort([1, "a"])`, ""},
		{"range zero step", "range(0, 5, 0)", "range() step must not be zero"},
		{"bad int literal", `int("x")`, `invalid literal for int(): "x"`},
		{"len of int", "len(3)", "object of type 'int' has no len()"},
		{"reduce empty", "func f(a, b) { return a } reduce(f, [])", "reduce() of empty sequence with no initial value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.src)

			var f *lang.Fault
			if !errors.As(err, &f) {
				t.Fatalf("error = %v, want *lang.Fault", err)
			}

			if tt.msg != "" && f.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", f.Msg, tt.msg)
			}

			if f.Line != 1 {
				t.Errorf("Line = %d, want 1", f.Line)
			}
		})
	}
}

func TestCore_FaultIsCatchable(t *testing.T) {
	got, err := run(t, `try { upper(1) } catch (e) { print(e) }`)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if want := "upper() argument 1 must be str, not int\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCore_CallbackFault(t *testing.T) {
	src := "func bad(x) {\n  return x / 0\n}\nmap(bad, [1])"

	_, err := run(t, src)

	var f *lang.Fault
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *lang.Fault", err)
	}

	if f.Line != 2 {
		t.Errorf("Line = %d, want 2 (inside the callback)", f.Line)
	}
}

func TestCore_Input(t *testing.T) {
	var out bytes.Buffer

	in := lang.New(
		lang.WithStdout(&out),
		lang.WithStdin(strings.NewReader("alice\r\nbob\n")),
		lang.WithNatives(Default()),
	)

	_, err := in.Run(t.Context(), `var a = input("name? "); var b = input(); print(a + "," + b)`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := "name? alice,bob\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	_, err = in.Run(t.Context(), "input()")
	if err == nil || !strings.Contains(err.Error(), "EOF when reading a line") {
		t.Errorf("Run() at EOF error = %v", err)
	}
}

func TestGroups(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "math",
			src:  "print(math.sqrt(16)); print(math.pow(2, 10)); print(math.floor(2.7)); print(math.ceil(2.1)); print(math.abs(-3)); print(math.pi > 3.14)",
			want: "4.0\n1024.0\n2\n3\n3\ntrue\n",
		},
		{
			name: "crypto",
			src:  `print(crypto.md5("abc")); print(crypto.sha1("abc")); print(crypto.sha256(""))`,
			want: "900150983cd24fb0d6963f7d28e17f72\n" +
				"a9993e364706816aba3e25717850c26c9cd0d89d\n" +
				"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855\n",
		},
		{
			name: "base64",
			src:  `var s = base64.encode("héllo"); print(s); print(base64.decode(s))`,
			want: "aMOpbGxv\nhéllo\n",
		},
		{
			name: "url",
			src: `var u = url.parse("https://example.com/a/b?x=1&x=2&y=z#frag")
				print(u.scheme); print(u.netloc); print(u.path); print(u.query); print(u.fragment)
				print(url.encode("a b/c")); print(url.decode("a%20b"))`,
			want: "https\nexample.com\n/a/b\n{\"x\": [\"1\", \"2\"], \"y\": [\"z\"]}\nfrag\na%20b%2Fc\na b\n",
		},
		{
			name: "random bounds",
			src:  `var ok = true; for (var i = 0; i < 50; i++) { var n = random.int(1, 3); if (n < 1 || n > 3) { ok = false } } print(ok); print(len(random.string(12)))`,
			want: "true\n12\n",
		},
		{
			name: "time",
			src:  `print(time.now() > 0); print(time.format(0)); print(time.format(86400, "2006-01-02")); time.sleep(0)`,
			want: "true\n1970-01-01T00:00:00Z\n1970-01-02\n",
		},
		{
			name: "re",
			src: `print(re.search("(\d+)-(\d+)", "tel 555-1234")); print(re.search("\d+", "a42"))
				print(re.match("\d", "a1")); print(re.match("(a)(b)?", "ac"))
				print(re.findall("\d+", "1 22 333")); print(re.findall("(\w)=(\d)", "a=1 b=2"))
				print(re.replace("(\w+)@(\w+)", "me@host", "$2 at $1"))`,
			want: "[\"555\", \"1234\"]\n[\"42\"]\nnull\n[\"a\", null]\n" +
				"[\"1\", \"22\", \"333\"]\n[[\"a\", \"1\"], [\"b\", \"2\"]]\nhost at me\n",
		},
		{
			name: "text",
			src:  `print(text.title("hello big world")); print(text.capitalize("hELLO"))`,
			want: "Hello Big World\nHello\n",
		},
		{
			name: "expr",
			src:  `print(expr.eval("1 + 2 * 3")); print(expr.eval("name + '!'", {"name": "shibo"})); print(expr.eval("n > 2", {"n": 3}))`,
			want: "7\nshibo!\ntrue\n",
		},
		{
			name: "os platform",
			src:  `print(type(os.platform.os)); print(len(os.get_cwd()) > 0)`,
			want: "str\ntrue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroups_Encoding(t *testing.T) {
	globals := map[string]string{
		"JSON": `{"b": [1, 2.5, null], "a": true}`,
		"YAML": "name: shibo\nlist:\n  - 1\n  - two\n",
	}

	src := `var d = json.decode(JSON); print(d); print(json.encode([1, "x", null]))
		var y = yaml.decode(YAML); print(y.name); print(y.list); print(yaml.encode({"k": 1}))`

	got, err := runWith(t, globals, src)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := "{\"a\": true, \"b\": [1, 2.5, null]}\n[1,\"x\",null]\n" +
		"shibo\n[1, \"two\"]\nk: 1\n\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if _, err := runWith(t, map[string]string{"BAD": "{"}, "json.decode(BAD)"); err == nil {
		t.Error("decoding invalid JSON did not fault")
	}
}

func TestGroups_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	src := `file.write(PATH, [1, 2]); print(file.read(PATH)); print(file.exists(PATH)); print(os.exists(PATH + ".no"))
		print(os.list_dir(DIR)); print(os.is_dir(DIR))`

	got, err := runWith(t, map[string]string{"PATH": path, "DIR": dir}, src)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := "[1, 2]\ntrue\nfalse\n[\"out.txt\"]\ntrue\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	missing := map[string]string{"PATH": filepath.Join(dir, "missing")}
	if _, err := runWith(t, missing, "file.read(PATH)"); err == nil {
		t.Error("reading a missing file did not fault")
	}
}

func TestGroups_Env(t *testing.T) {
	t.Setenv("SHIBO_TEST_VAR", "value")

	got, err := run(t, `print(os.get_env("SHIBO_TEST_VAR")); print(os.get_env("SHIBO_TEST_UNSET")); print(os.get_env("SHIBO_TEST_UNSET", "dflt"))`)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if want := "value\nnull\ndflt\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if _, err := run(t, `os.set_env("SHIBO_TEST_VAR", 7)`); err != nil {
		t.Fatalf("set_env error = %v", err)
	}

	if v := os.Getenv("SHIBO_TEST_VAR"); v != "7" {
		t.Errorf("SHIBO_TEST_VAR = %q, want %q", v, "7")
	}
}

func TestGroups_RunCommand(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	got, err := run(t, `var r = os.run_command("echo hi; echo err >&2; exit 3"); print(r.stdout); print(r.stderr); print(r.returncode)`)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if want := "hi\n\nerr\n\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestGroups_PathPrefix(t *testing.T) {
	sep := string(os.PathListSeparator)

	got, err := runWith(t, map[string]string{"LIST": "/b" + sep + "/c"}, `print(os.path_prefix(LIST, "/a"))`)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.HasPrefix(got, "/a"+sep) && got != "/a\n" {
		t.Errorf("output = %q, want a list starting with /a", got)
	}
}

func TestModules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "math",
			src:  "from math import PI, sqrt, pow\nprint(PI); print(sqrt(9)); print(pow(2, 10)); print(pow(2, -1))",
			want: "3.14159\n3.0\n1024\n0.5\n",
		},
		{
			name: "utils",
			src:  "import utils\nprint(is_even(4)); print(is_odd(-3)); print(clamp(15, 0, 10)); print(clamp(-1, 0, 10)); print(clamp(5, 0, 10))",
			want: "true\ntrue\n10\n0\n5\n",
		},
		{
			name: "string",
			src:  "from string import *\nprint(capitalize(\"hELLO\")); print(reverse(\"abc\")); print(is_palindrome(\"Racecar\"))",
			want: "Hello\ncba\ntrue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}

	if _, ok := Modules("nope"); ok {
		t.Error(`Modules("nope") resolved`)
	}

	for _, name := range ModuleNames() {
		if _, ok := Modules(name); !ok {
			t.Errorf("Modules(%q) did not resolve", name)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()

	for _, want := range []string{"append", "math", "math.sqrt", "os.path_prefix", "re.findall", "expr.eval"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() is missing %q", want)
		}
	}

	if !slices.IsSorted(names) {
		t.Error("Names() is not sorted")
	}
}
