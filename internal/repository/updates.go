package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

type columnSet map[string]struct{}

func newColumnSet(columns ...string) columnSet {
	set := make(columnSet, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return set
}

// buildUpdate renders one UPDATE statement writing only the given columns.
// Column names are checked against the whitelist and emitted in sorted order.
func buildUpdate(table string, allowed columnSet, id int64, values map[string]interface{}) (string, []interface{}, error) {
	columns := make([]string, 0, len(values))
	for column := range values {
		if _, ok := allowed[column]; !ok {
			return "", nil, fmt.Errorf("column %q is not updatable on %s", column, table)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns)+1)
	args := make([]interface{}, 0, len(columns)+1)
	for _, column := range columns {
		args = append(args, values[column])
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	assignments = append(assignments, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(assignments, ", "), len(args))
	return query, args, nil
}

// updateColumns executes buildUpdate. An empty value set is a no-op.
func updateColumns(ctx context.Context, db *sqlx.DB, table string, allowed columnSet, id int64, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	query, args, err := buildUpdate(table, allowed, id, values)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap("update "+table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrap("update "+table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}
