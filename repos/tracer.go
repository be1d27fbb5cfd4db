package repos

import (
	"context"
	"github.com/DataDog/go-sqllexer"
	"github.com/jackc/pgx/v5"
	"log/slog"
	"time"
)

// tracer logs failed statements and anything slower than slowThreshold.
// SQL is normalized first so literals don't end up in the logs.
type tracer struct{}

var (
	obfuscator = sqllexer.NewObfuscator()
	normalizer = sqllexer.NewNormalizer()
)

type ctxKey int

const (
	_ ctxKey = iota
	queryKey
	batchKey
	copyKey
	connectKey
)

const slowThreshold = 200 * time.Millisecond

type span struct {
	start time.Time
	sql   string
}

func normalize(sql string) string {
	out, _, err := sqllexer.ObfuscateAndNormalize(sql, obfuscator, normalizer)
	if err != nil {
		slog.Debug("normalize sql", "err", err)
		return "<unparseable sql>"
	}
	return out
}

func (t *tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryKey, &span{start: time.Now(), sql: normalize(data.SQL)})
}

func (t *tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	s, ok := ctx.Value(queryKey).(*span)
	if !ok {
		return
	}
	elapsed := time.Since(s.start)
	if data.Err != nil {
		slog.Error("query failed", "sql", s.sql, "err", data.Err, "elapsed", elapsed)
		return
	}
	if elapsed > slowThreshold {
		slog.Warn("slow query", "sql", s.sql, "elapsed", elapsed, "tag", data.CommandTag.String())
	}
}

type batchSpan struct {
	start time.Time
	sql   map[string]int
}

func (t *tracer) TraceBatchStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceBatchStartData) context.Context {
	counts := make(map[string]int)
	for _, q := range data.Batch.QueuedQueries {
		counts[normalize(q.SQL)]++
	}
	return context.WithValue(ctx, batchKey, &batchSpan{start: time.Now(), sql: counts})
}

func (t *tracer) TraceBatchQuery(_ context.Context, _ *pgx.Conn, data pgx.TraceBatchQueryData) {
	if data.Err != nil {
		slog.Error("batch query failed", "sql", normalize(data.SQL), "err", data.Err)
	}
}

func (t *tracer) TraceBatchEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceBatchEndData) {
	s, ok := ctx.Value(batchKey).(*batchSpan)
	if !ok {
		return
	}
	elapsed := time.Since(s.start)
	if data.Err != nil {
		slog.Error("batch failed", "err", data.Err, "elapsed", elapsed)
		return
	}
	if elapsed > slowThreshold {
		slog.Warn("slow batch", "sql", s.sql, "elapsed", elapsed)
	}
}

type copySpan struct {
	start   time.Time
	table   pgx.Identifier
	columns []string
}

func (t *tracer) TraceCopyFromStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceCopyFromStartData) context.Context {
	return context.WithValue(ctx, copyKey, &copySpan{
		start:   time.Now(),
		table:   data.TableName,
		columns: data.ColumnNames,
	})
}

func (t *tracer) TraceCopyFromEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceCopyFromEndData) {
	s, ok := ctx.Value(copyKey).(*copySpan)
	if !ok {
		return
	}
	elapsed := time.Since(s.start)
	if data.Err != nil {
		slog.Error("copy failed", "table", s.table.Sanitize(), "columns", s.columns, "err", data.Err, "elapsed", elapsed)
		return
	}
	slog.Debug("copy", "table", s.table.Sanitize(), "rows", data.CommandTag.RowsAffected(), "elapsed", elapsed)
}

func (t *tracer) TraceConnectStart(ctx context.Context, data pgx.TraceConnectStartData) context.Context {
	return context.WithValue(ctx, connectKey, &span{start: time.Now(), sql: data.ConnConfig.Database})
}

func (t *tracer) TraceConnectEnd(ctx context.Context, data pgx.TraceConnectEndData) {
	s, ok := ctx.Value(connectKey).(*span)
	if !ok {
		return
	}
	if data.Err != nil {
		slog.Error("connect failed", "database", s.sql, "err", data.Err, "elapsed", time.Since(s.start))
	}
}
