// Package dbaccess is the DB Access component: parameterised query,
// dynamic row-to-document conversion, batched insert-by-column-set,
// MAX(CAST(ID AS INTEGER)) probe, and existence checks, all over a plain
// *sql.DB/*sql.Tx so the core never depends on a concrete driver.
package dbaccess

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/naari3/rkpack/internal/document"
	"github.com/naari3/rkpack/internal/rkerr"

	_ "github.com/mattn/go-sqlite3"
)

// chunkSize keeps batched IN(...) queries under SQLite's default
// SQLITE_MAX_VARIABLE_NUMBER (999), leaving headroom for non-ID parameters.
const chunkSize = 500

// Queryer is satisfied by both *sql.DB and *sql.Tx, letting the engine
// read through either a plain connection or an open transaction.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer is satisfied by both *sql.DB and *sql.Tx for statements that
// don't return rows.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open opens the Library DB at path through mattn/go-sqlite3's cgo driver.
// When built against a SQLCipher-providing libsqlite3 (see DESIGN.md), the
// `cipher_compatibility`/`key` pragmas callers issue before using the
// returned handle genuinely decrypt the database; dbaccess itself stays
// driver-agnostic and never issues those pragmas on its own. Against a
// plain (non-SQLCipher) build or an already-unencrypted file, the same
// pragmas are harmless no-ops, which is what the test suite exercises.
func Open(path string, readOnly bool) (*sql.DB, error) {
	dsn := path
	if readOnly {
		dsn += "?mode=ro"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, rkerr.Wrap(rkerr.KindDB, "open "+path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, rkerr.Wrap(rkerr.KindDB, "ping "+path, err)
	}
	return db, nil
}

// QueryRows runs sql with args and converts every row to a document.Row,
// keyed by column name, classifying each cell per the pack serialization
// rule (SQLite storage class → document.Value).
func QueryRows(ctx context.Context, q Queryer, query string, args ...any) ([]document.Row, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, rkerr.Wrap(rkerr.KindDB, "query: "+query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, rkerr.Wrap(rkerr.KindDB, "columns: "+query, err)
	}

	var out []document.Row
	scanBuf := make([]any, len(cols))
	scanPtrs := make([]any, len(cols))
	for i := range scanBuf {
		scanPtrs[i] = &scanBuf[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, rkerr.Wrap(rkerr.KindDB, "scan: "+query, err)
		}
		row := make(document.Row, len(cols))
		for i, col := range cols {
			row[col] = document.FromAny(scanBuf[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, rkerr.Wrap(rkerr.KindDB, "iterate: "+query, err)
	}
	return out, nil
}

// QueryByIDs fetches every row of table whose idColumn is in ids, chunked
// to respect SQLite's bound-parameter limit. An empty ids returns no rows
// without issuing a query, matching the original implementation's
// short-circuit.
func QueryByIDs(ctx context.Context, q Queryer, table, idColumn string, ids []string) ([]document.Row, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var out []document.Row
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		query := fmt.Sprintf("SELECT * FROM `%s` WHERE `%s` IN (%s)", table, idColumn, placeholders)
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := QueryRows(ctx, q, query, args...)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// InsertRow builds a parameterized INSERT from row's own key set — the
// column set varies row to row because Row is an open mapping — and
// executes it against ex.
func InsertRow(ctx context.Context, ex Execer, table string, row document.Row) error {
	if len(row) == 0 {
		return rkerr.New(rkerr.KindSchema, "empty row for table "+table)
	}

	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = "`" + col + "`"
		placeholders[i] = "?"
		args[i] = row[col].Any()
	}

	query := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)", table,
		strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return rkerr.Wrap(rkerr.KindDB, fmt.Sprintf("insert into %s", table), err)
	}
	return nil
}

// MaxNumericID returns MAX(CAST(ID AS INTEGER)) over table, or 0 if table
// is empty — the monotonic allocator's starting point.
func MaxNumericID(ctx context.Context, q Queryer, table string) (int64, error) {
	query := fmt.Sprintf("SELECT MAX(CAST(ID AS INTEGER)) FROM `%s`", table)
	var max sql.NullInt64
	if err := q.QueryRowContext(ctx, query).Scan(&max); err != nil {
		return 0, rkerr.Wrap(rkerr.KindDB, "max id of "+table, err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64, nil
}

// RowExists reports whether any row of table has idColumn = id, whatever
// its rb_local_deleted value (callers check dedup semantics explicitly).
func RowExists(ctx context.Context, q Queryer, table, idColumn, id string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM `%s` WHERE `%s` = ? LIMIT 1", table, idColumn)
	var dummy int
	err := q.QueryRowContext(ctx, query, id).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, rkerr.Wrap(rkerr.KindDB, "exists check on "+table, err)
	}
	return true, nil
}

// FindByColumn looks up a single live row of table whose column equals
// value, used by master-table name dedup and content-hash dedup.
func FindByColumn(ctx context.Context, q Queryer, table, column string, value any) (document.Row, bool, error) {
	query := fmt.Sprintf(
		"SELECT * FROM `%s` WHERE `%s` = ? AND rb_local_deleted = 0 LIMIT 1",
		table, column,
	)
	rows, err := QueryRows(ctx, q, query, value)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}
