package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Row is one materialized result row: column name to Value.
type Row map[string]Value

// Engine is the embedded storage engine backing one project's memory bank.
// It is a thin wrapper over database/sql + modernc.org/sqlite (a pure-Go,
// CGo-free embedded engine) exposing the open/query/prepare-execute/
// transaction contract the rest of the system needs from the graph store.
// A single logical connection is enforced (SetMaxOpenConns(1)) and
// serialized with mu: effectively single-threaded per DB file.
type Engine struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if absent) the sqlite-backed store at path in WAL
// mode with foreign keys enabled.
func Open(path string) (*Engine, error) {
	escaped := strings.ReplaceAll(path, " ", "%20")
	connStr := "file:" + escaped + "?_time_format=sqlite"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Engine{db: db, path: path}, nil
}

// Path returns the filesystem path this engine was opened against.
func (e *Engine) Path() string { return e.path }

// Close releases the underlying connection.
func (e *Engine) Close() error { return e.db.Close() }

// Ping validates connectivity within budget — used by the DHM's health check.
func (e *Engine) Ping(ctx context.Context, budget time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.PingContext(ctx)
}

// ExecuteQuery runs a parameterized query and materializes every row
// immediately; callers never see a live cursor. A zero timeout means no
// deadline beyond the context passed in.
func (e *Engine) ExecuteQuery(ctx context.Context, query string, params []any, timeout time.Duration) ([]Row, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return runQuery(ctx, e.db, query, params)
}

// Exec runs a statement that returns no rows (INSERT/UPDATE/DDL) under the
// same per-handle critical section as ExecuteQuery.
func (e *Engine) Exec(ctx context.Context, stmt string, params ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.db.ExecContext(ctx, stmt, params...)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx so runQuery/runExec work
// identically inside and outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func runQuery(ctx context.Context, q querier, query string, params []any) ([]Row, error) {
	rows, err := q.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, &QueryError{Query: snippet(query), Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Query: snippet(query), Err: err}
	}

	var out []Row
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Query: snippet(query), Err: err}
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = fromDriverValue(raw[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Query: snippet(query), Err: err}
	}
	return out, nil
}

// Tx is the transaction-scoped handle passed into transaction callbacks; its
// ExecuteQuery participates in the same database/sql transaction.
type Tx struct {
	tx *sql.Tx
}

// ExecuteQuery runs a parameterized query inside the enclosing transaction.
func (t *Tx) ExecuteQuery(ctx context.Context, query string, params []any) ([]Row, error) {
	return runQuery(ctx, t.tx, query, params)
}

// Exec runs a statement with no result rows inside the enclosing transaction.
func (t *Tx) Exec(ctx context.Context, stmt string, params ...any) error {
	_, err := t.tx.ExecContext(ctx, stmt, params...)
	return err
}

// Transaction issues BEGIN, invokes fn with a Tx bound to the same
// connection, commits on normal return and rolls back on any error fn
// returns or panics with. Rollback failures are swallowed in favor of the
// original error.
func (e *Engine) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sqlTx, beginErr := e.db.BeginTx(ctx, nil)
	if beginErr != nil {
		return fmt.Errorf("begin transaction: %w", beginErr)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, &Tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if cErr := sqlTx.Commit(); cErr != nil {
		return fmt.Errorf("commit transaction: %w", cErr)
	}
	return nil
}

func snippet(query string) string {
	const max = 200
	q := strings.TrimSpace(query)
	if len(q) > max {
		return q[:max] + "..."
	}
	return q
}

// fromDriverValue converts whatever database/sql handed back (the driver may
// surface ints, floats, strings, []byte, time.Time or nil) into the Value
// sum type, so the rest of the system never inspects a raw interface{}.
func fromDriverValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case int64:
		return FromInt64(t)
	case float64:
		return FromFloat64(t)
	case string:
		return FromString(t)
	case []byte:
		return Value{Kind: KindBytes, Bytes: t, Str: string(t)}
	case bool:
		return FromBool(t)
	case time.Time:
		return FromTimestamp(t)
	default:
		return FromString(fmt.Sprintf("%v", t))
	}
}
