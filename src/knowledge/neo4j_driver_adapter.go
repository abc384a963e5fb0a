//go:build neo4j

package knowledge

import (
	"context"

	neo4j "github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type neo4jDriverWrapper struct {
	driver neo4j.DriverWithContext
}

// WrapNeo4jDriver adapts the official Neo4j Go driver so it can be used
// with NewNeo4jSource.
func WrapNeo4jDriver(driver neo4j.DriverWithContext) graphDriver {
	if driver == nil {
		return nil
	}
	return &neo4jDriverWrapper{driver: driver}
}

func (d *neo4jDriverWrapper) NewSession(ctx context.Context, database string) (graphSession, error) {
	session := d.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: database,
	})
	return &neo4jSessionWrapper{session: session}, nil
}

func (d *neo4jDriverWrapper) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

type neo4jSessionWrapper struct {
	session neo4j.SessionWithContext
}

func (s *neo4jSessionWrapper) Run(ctx context.Context, query string, params map[string]any) (graphResult, error) {
	result, err := s.session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return &neo4jResultWrapper{result: result}, nil
}

func (s *neo4jSessionWrapper) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

type neo4jResultWrapper struct {
	result neo4j.ResultWithContext
}

func (r *neo4jResultWrapper) Next(ctx context.Context) bool {
	return r.result.Next(ctx)
}

func (r *neo4jResultWrapper) Record() graphRecord {
	return &neo4jRecordWrapper{record: r.result.Record()}
}

func (r *neo4jResultWrapper) Err() error {
	return r.result.Err()
}

type neo4jRecordWrapper struct {
	record *neo4j.Record
}

func (r *neo4jRecordWrapper) Get(key string) (any, bool) {
	if r.record == nil {
		return nil, false
	}
	return r.record.Get(key)
}
