// Package ch provides a clickhouse client used for the optional
// violation-event analytics mirror. The transport stays minimal; callers
// must tolerate the backend being disabled entirely
package ch

import (
	"context"
	"errors"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL  string
	Name string // product name for client info, e.g. "birdwatch"
	Tag  string // role tag for client info, e.g. "api" or "scan"
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CH is a thin seam for clickhouse connectivity
// conn stays nil when no URL is configured
type CH struct {
	cfg  Config
	conn driver.Conn
}

// Open returns a clickhouse client for the given config
func Open(ctx context.Context, cfg Config) (*CH, error) {
	c := &CH{cfg: cfg}
	if cfg.URL == "" {
		return c, nil
	}

	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = c.ClientInfo()

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// Ping reports backend readiness; a connectionless seam is always ready
func (c *CH) Ping(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Ping(ctx)
}

// Insert appends data to table via a native batch.
// data must be a struct or a slice of structs with fields matching the
// table's columns
func (c *CH) Insert(ctx context.Context, table string, data any) error {
	if table == "" {
		return errors.New("ch: empty table name")
	}
	if c.conn == nil {
		return errors.New("ch: not connected")
	}

	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			el := rv.Index(i)
			if el.Kind() != reflect.Pointer {
				el = el.Addr()
			}
			if err := batch.AppendStruct(el.Interface()); err != nil {
				return err
			}
		}
	} else {
		if rv.Kind() != reflect.Pointer {
			p := reflect.New(rv.Type())
			p.Elem().Set(rv)
			rv = p
		}
		if err := batch.AppendStruct(rv.Interface()); err != nil {
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c.conn == nil {
		return &emptyRows{}, nil
	}
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &chRows{rows: rows}, nil
}

// Close closes resources
func (c *CH) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// chRows adapts driver.Rows to the Rows seam
type chRows struct{ rows driver.Rows }

func (r *chRows) Next() bool             { return r.rows.Next() }
func (r *chRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *chRows) Err() error             { return r.rows.Err() }
func (r *chRows) Close()                 { _ = r.rows.Close() }
func (r *chRows) Columns() []string      { return r.rows.Columns() }

// emptyRows is returned when the backend is disabled
type emptyRows struct{}

func (*emptyRows) Next() bool             { return false }
func (*emptyRows) Scan(dest ...any) error { return nil }
func (*emptyRows) Err() error             { return nil }
func (*emptyRows) Close()                 {}
func (*emptyRows) Columns() []string      { return nil }
