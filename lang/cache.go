package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/shibo/lang/ast"
	"github.com/ardnew/shibo/log"
)

// parseCache stores parse results keyed by the xxh3 hash of the source.
// Trees are never mutated after parsing, so a cached tree may be shared by
// any number of interpreters.
var parseCache sync.Map

// entry holds the parse result for one source.
type entry struct {
	once sync.Once
	prog *ast.Program
	err  error
}

// parseCached parses source, reusing the result of an earlier parse of the
// same text.
func parseCached(
	ctx context.Context,
	logger log.Logger,
	source string,
) (*ast.Program, error) {
	hash := xxh3.HashString(source)
	key := strconv.FormatUint(hash, 36)

	value, hit := parseCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.prog, e.err = ParseString(source)
	})

	return e.prog, e.err
}

// ClearCache drops all cached parse results.
func ClearCache() {
	parseCache.Clear()
}
