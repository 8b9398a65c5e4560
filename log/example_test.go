package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/shibo/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelDebug),
	)

	logger.Debug("loading module", slog.String("name", "utils"))
	logger.Trace("not written")
	logger.With(slog.Int("line", 3)).Warn("shadowed name", slog.String("name", "x"))

	// Output:
	// {"level":"DEBUG","msg":"loading module","name":"utils"}
	// {"level":"WARN","msg":"shadowed name","line":3,"name":"x"}
}

func ExampleLevel_UnmarshalText() {
	var level log.Level

	if err := level.UnmarshalText([]byte("info+2")); err != nil {
		panic(err)
	}

	os.Stdout.WriteString(level.String() + "\n")

	// Output:
	// info+2
}
