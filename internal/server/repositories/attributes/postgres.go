// Package attributes persists account attributes. Batches are written with a
// single multi-row INSERT so a batch either lands completely or not at all.
package attributes

import (
	"context"
	"fmt"
	"strings"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
)

// columnsPerRow is the number of bind parameters one attribute row uses.
const columnsPerRow = 4

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertBatch writes attrs in one statement and returns the number of rows
// inserted. IDs must already be assigned. An empty batch is a no-op.
func (r *PostgresRepository) InsertBatch(ctx context.Context, attrs []models.Attribute) (int64, error) {
	if len(attrs) == 0 {
		return 0, nil
	}

	query, args := buildInsert(attrs)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbx.WrapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
}

func buildInsert(attrs []models.Attribute) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO user_attributes (id, user_id, attr_key, attr_value) VALUES ")

	args := make([]any, 0, len(attrs)*columnsPerRow)
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * columnsPerRow
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, a.ID, a.UserID, a.Key, a.Value)
	}
	return b.String(), args
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Attribute, error) {
	query :=
		`SELECT id, user_id, attr_key, attr_value FROM user_attributes
		 WHERE user_id = $1
		 ORDER BY attr_key, id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	defer rows.Close()

	result := []models.Attribute{}
	for rows.Next() {
		var a models.Attribute
		if err := rows.Scan(&a.ID, &a.UserID, &a.Key, &a.Value); err != nil {
			return nil, dbx.WrapError(err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapError(err)
	}

	return result, nil
}
