package services

import (
	"strings"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/jackc/pgx/v5"
)

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func cleanList(p *[]string) *[]string {
	if p == nil {
		return nil
	}
	v := directory.CleanList(*p)
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
