package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/qaforum/internal/domain"
	"gorm.io/gorm"
)

// Gateway implements domain.Gateway on a gorm connection pool. Each Execute
// is independent; no transaction spans calls.
type Gateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) Execute(ctx context.Context, query string, args ...any) ([]domain.Row, error) {
	rows, err := g.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, classify("execute", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, classify("read columns", err)
	}

	result := make([]domain.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, classify("scan row", err)
		}
		result = append(result, domain.Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate rows", err)
	}

	return result, nil
}

// Ping checks the store answers a trivial query.
func (g *Gateway) Ping(ctx context.Context) error {
	rows, err := g.Execute(ctx, "SELECT 1 AS ok")
	if err != nil {
		return err
	}
	if len(rows) != 1 {
		return fmt.Errorf("ping: expected 1 row, got %d", len(rows))
	}
	return nil
}
