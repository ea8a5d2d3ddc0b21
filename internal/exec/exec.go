// Package exec implements the executor/dispatcher (C9): dispatch runs
// the secure lexer over a query template plus its parameters, parses
// the resulting token stream, routes the statement to either the
// blocking worker pool (schema-mutating DDL and SYSCTL) or an inline
// handler (DML and read-only introspection), and wraps the outcome
// into a wire.Response. The leading statement keyword decides between
// the blocking and the inline path (lexer.IsBlocking); on each path the
// token stream is parsed with ql.Parse and a type switch over the
// parsed statement picks the handler. Each dispatched statement is
// logged through go.uber.org/zap.
package exec

import (
	"context"
	"time"

	"go.uber.org/zap"

	"skytable/internal/core"
	"skytable/internal/errkind"
	"skytable/internal/lexer"
	"skytable/internal/ql"
	"skytable/internal/taskpool"
	"skytable/internal/wire"
)

// Dispatcher holds everything dispatch needs beyond the query itself:
// the schema/data root, the blocking worker pool schema mutations run
// on, and a logger for per-statement structured log lines.
type Dispatcher struct {
	Global *core.GlobalNS
	Pool   taskpool.Pool
	Log    *zap.Logger

	// OnMutation, if set, is called synchronously (on the blocking
	// worker, holding no lock) after a schema-mutating statement
	// succeeds, so a caller can append the corresponding journal
	// record without internal/exec depending on internal/journal. nil
	// is a valid no-op (e.g. a read-only replay-journal inspection
	// session that never mutates schema).
	OnMutation func(op core.Operation)
}

// minStatementTokens guards only against a completely empty token
// stream; per-statement minimum shapes (e.g. `USE <ident>` needing at
// least 2 tokens) are enforced by each statement's own parser in
// internal/ql, not by a single fixed floor here. A handful of real
// statements (`CREATE SPACE x`, `INSPECT SPACE x`) are only 3 tokens
// long, which rules out the 4-token floor a looser reading of the
// dispatch design might suggest.
const minStatementTokens = 1

func (d *Dispatcher) logger() *zap.Logger {
	if d.Log != nil {
		return d.Log
	}
	return zap.NewNop()
}

// Dispatch runs dispatch(global, squery) -> Response per spec.md
// §4.9: lex, classify, route to blocking or inline execution, wrap the
// result.
func (d *Dispatcher) Dispatch(ctx context.Context, query []byte, params []byte) wire.Response {
	start := time.Now()
	toks, err := lexer.SecureLex(query, params)
	if err != nil {
		d.logFailure("lex", err, start)
		return wire.Err(errkind.KindOf(err))
	}
	if len(toks) < minStatementTokens || toks[0].Kind != lexer.Keyword || !lexer.IsStatementKeyword(toks[0].Kw) {
		err := errkind.New(errkind.ExpectedStatement, "expected a statement keyword")
		d.logFailure("classify", err, start)
		return wire.Err(errkind.KindOf(err))
	}

	kw := toks[0].Kw
	blocking := lexer.IsBlocking(kw)

	var resp wire.Response
	if blocking {
		submitErr := d.Pool.Submit(ctx, func() error {
			r, err := d.dispatchBlocking(kw, toks)
			resp = r
			return err
		})
		if submitErr != nil && resp.Kind == 0 && resp.Row == nil && resp.Rows == nil {
			resp = wire.Err(errkind.KindOf(submitErr))
		}
	} else {
		resp = d.dispatchNonBlocking(kw, toks)
	}

	d.logOutcome(kw, blocking, resp, start)
	return resp
}

func (d *Dispatcher) logFailure(stage string, err error, start time.Time) {
	d.logger().Warn("dispatch failed",
		zap.String("stage", stage),
		zap.String("error_kind", errkind.KindOf(err).String()),
		zap.Duration("duration", time.Since(start)),
	)
}

func (d *Dispatcher) logOutcome(kw lexer.Kw, blocking bool, resp wire.Response, start time.Time) {
	fields := []zap.Field{
		zap.String("stmt", kw.String()),
		zap.Bool("blocking", blocking),
		zap.Duration("duration", time.Since(start)),
	}
	if resp.Kind == wire.KindError {
		fields = append(fields, zap.String("error_kind", resp.ErrorKind.String()))
		d.logger().Info("dispatch", fields...)
		return
	}
	d.logger().Debug("dispatch", fields...)
}
