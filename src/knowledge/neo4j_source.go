package knowledge

import (
	"context"
	"errors"
	"fmt"
)

// graphDriver abstracts the Neo4j driver capabilities the source needs.
// Tests supply lightweight fakes; the real driver is adapted behind the
// neo4j build tag.
type graphDriver interface {
	NewSession(ctx context.Context, database string) (graphSession, error)
	Close(ctx context.Context) error
}

type graphSession interface {
	Run(ctx context.Context, query string, params map[string]any) (graphResult, error)
	Close(ctx context.Context) error
}

type graphResult interface {
	Next(ctx context.Context) bool
	Record() graphRecord
	Err() error
}

type graphRecord interface {
	Get(key string) (any, bool)
}

// Neo4jSource loads a snapshot from Chunk nodes in a Neo4j graph,
// ordered by their position property.
type Neo4jSource struct {
	driver   graphDriver
	database string
}

func NewNeo4jSource(driver graphDriver, database string) (*Neo4jSource, error) {
	if driver == nil {
		return nil, errors.New("knowledge: neo4j driver is required")
	}
	return &Neo4jSource{driver: driver, database: database}, nil
}

func (n *Neo4jSource) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

const chunkQuery = `
MATCH (c:Chunk)
RETURN c.content AS content, c.source_id AS source_id, c.kind AS kind, c.embedding AS embedding
ORDER BY c.position ASC
`

func (n *Neo4jSource) Fetch(ctx context.Context) ([]Record, [][]float32, error) {
	session, err := n.driver.NewSession(ctx, n.database)
	if err != nil {
		return nil, nil, fmt.Errorf("knowledge: open neo4j session: %w", err)
	}
	defer session.Close(ctx)

	result, err := session.Run(ctx, chunkQuery, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("knowledge: run chunk query: %w", err)
	}

	var (
		records []Record
		vectors [][]float32
	)
	for result.Next(ctx) {
		rec := result.Record()
		records = append(records, Record{
			Content:  stringValue(rec, "content"),
			SourceID: stringValue(rec, "source_id"),
			Kind:     stringValue(rec, "kind"),
		})
		vectors = append(vectors, vectorValue(rec, "embedding"))
	}
	if err := result.Err(); err != nil {
		return nil, nil, fmt.Errorf("knowledge: iterate chunks: %w", err)
	}
	return records, vectors, nil
}

func stringValue(rec graphRecord, key string) string {
	raw, ok := rec.Get(key)
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}

// vectorValue coerces the driver's []any of float64 into []float32.
func vectorValue(rec graphRecord, key string) []float32 {
	raw, ok := rec.Get(key)
	if !ok {
		return nil
	}
	switch values := raw.(type) {
	case []float32:
		return values
	case []float64:
		out := make([]float32, len(values))
		for i, v := range values {
			out[i] = float32(v)
		}
		return out
	case []any:
		out := make([]float32, 0, len(values))
		for _, v := range values {
			f, ok := v.(float64)
			if !ok {
				return nil
			}
			out = append(out, float32(f))
		}
		return out
	default:
		return nil
	}
}
