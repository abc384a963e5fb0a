package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource loads a snapshot from a Postgres table populated by
// the ingest pipeline. Rows are ordered by position so the fetched
// slices stay co-indexed.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource connects to Postgres. The table must carry
// (position, content, source_id, kind, embedding float4[]) columns.
func NewPostgresSource(ctx context.Context, connStr, table string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("knowledge: connect postgres: %w", err)
	}
	if table == "" {
		table = "knowledge_chunks"
	}
	return &PostgresSource{pool: pool, table: table}, nil
}

func (p *PostgresSource) Close() {
	p.pool.Close()
}

func (p *PostgresSource) Fetch(ctx context.Context) ([]Record, [][]float32, error) {
	query := fmt.Sprintf(`
                SELECT content, source_id, kind, embedding
                FROM %s
                ORDER BY position;
        `, p.table)
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("knowledge: query %s: %w", p.table, err)
	}
	defer rows.Close()

	var (
		records []Record
		vectors [][]float32
	)
	for rows.Next() {
		var rec Record
		var vec []float32
		if err := rows.Scan(&rec.Content, &rec.SourceID, &rec.Kind, &vec); err != nil {
			return nil, nil, fmt.Errorf("knowledge: scan row: %w", err)
		}
		records = append(records, rec)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("knowledge: iterate rows: %w", err)
	}
	return records, vectors, nil
}
