package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/shibo/lang"
)

func Example() {
	in := lang.New(lang.WithStdout(os.Stdout))

	_, err := in.Run(context.Background(), `
class Point {
	func init(self, x, y) { self.x = x; self.y = y }
	func sum(self) { return self.x + self.y }
}
var p = Point(3, 4)
print("sum: " + p.sum())
`)
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// sum: 7
}

func Example_pipeline() {
	toks, err := lang.Tokenize("print(5 // 2); print(5 / 2); print((-1) >>> 0)")
	if err != nil {
		panic(err)
	}

	prog, err := lang.Parse(toks)
	if err != nil {
		panic(err)
	}

	in := lang.New(lang.WithStdout(os.Stdout))
	if _, err := in.Eval(context.Background(), prog, nil); err != nil {
		panic(err)
	}
	// Output:
	// 2
	// 2.5
	// 4294967295
}

func Example_natives() {
	greet := lang.NewNative("greet", func(_ lang.Caller, args []lang.Value) (lang.Value, error) {
		return lang.Str("hello, " + lang.Display(args[0])), nil
	})

	in := lang.New(
		lang.WithStdout(os.Stdout),
		lang.WithNatives(lang.Registry{"greet": greet}),
	)

	v, _ := in.Run(context.Background(), `greet("shibo")`)
	fmt.Println(lang.Display(v))
	// Output:
	// hello, shibo
}

func Example_faults() {
	in := lang.New(lang.WithStdout(os.Stdout))

	_, err := in.Run(context.Background(), "var l = []\nprint(l[3])")
	fmt.Println(err)
	// Output:
	// line 2: list index out of range
}
