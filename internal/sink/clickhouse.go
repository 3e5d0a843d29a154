package sink

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/DGarbs51/mockedup/internal/synth"
)

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	// Secure enables TLS, as required by ClickHouse Cloud on port 9440.
	Secure   bool
	Recreate bool
}

// ClickHouse loads a dataset into MergeTree tables ordered by their key.
// ClickHouse has no foreign key constraints; references are kept as plain
// Int64 columns.
type ClickHouse struct {
	cfg ClickHouseConfig
	log *zap.Logger
}

func NewClickHouse(cfg ClickHouseConfig, log *zap.Logger) *ClickHouse {
	return &ClickHouse{cfg: cfg, log: log}
}

func (c *ClickHouse) open(ctx context.Context) (driver.Conn, error) {
	options := &clickhouse.Options{
		Addr: []string{c.cfg.Addr},
		Auth: clickhouse.Auth{
			Database: c.cfg.Database,
			Username: c.cfg.Username,
			Password: c.cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
	}
	if c.cfg.Secure {
		options.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open ClickHouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	return conn, nil
}

func (c *ClickHouse) Write(ctx context.Context, ds *synth.Dataset) error {
	conn, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, t := range ds.Tables {
		if c.cfg.Recreate {
			if err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+chIdentifier(t.Name)); err != nil {
				return fmt.Errorf("drop %s: %w", t.Name, err)
			}
		}
		if err := conn.Exec(ctx, chCreateTableSQL(t)); err != nil {
			return fmt.Errorf("execute DDL for %s: %w", t.Name, err)
		}
		if err := conn.Exec(ctx, "TRUNCATE TABLE IF EXISTS "+chIdentifier(t.Name)); err != nil {
			return fmt.Errorf("truncate %s: %w", t.Name, err)
		}
		if err := c.insert(ctx, conn, t); err != nil {
			return err
		}
		c.log.Debug("Inserted table", zap.String("table", t.Name), zap.Int("rows", t.RowCount()))
	}

	c.log.Info("Loaded dataset into ClickHouse",
		zap.String("addr", c.cfg.Addr),
		zap.String("database", c.cfg.Database),
		zap.Int("tables", len(ds.Tables)))
	return nil
}

func (c *ClickHouse) insert(ctx context.Context, conn driver.Conn, t *synth.Table) error {
	if t.RowCount() == 0 {
		return nil
	}
	batch, err := conn.PrepareBatch(ctx, chInsertSQL(t))
	if err != nil {
		return fmt.Errorf("prepare batch for %s: %w", t.Name, err)
	}
	kinds := columnKinds(t)
	for r := range t.RowCount() {
		if err := batch.Append(typedRow(t, kinds, r)...); err != nil {
			batch.Abort()
			return fmt.Errorf("append row %d to %s: %w", r+1, t.Name, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch for %s: %w", t.Name, err)
	}
	return nil
}

func chCreateTableSQL(t *synth.Table) string {
	defs := make([]string, len(t.Columns))
	for i := range t.Columns {
		c := &t.Columns[i]
		defs[i] = fmt.Sprintf("  %s %s", chIdentifier(c.Name), chType(c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n) ENGINE = MergeTree ORDER BY %s",
		chIdentifier(t.Name), strings.Join(defs, ",\n"), chIdentifier(t.Key().Name))
}

func chInsertSQL(t *synth.Table) string {
	cols := make([]string, len(t.Columns))
	for i, name := range t.Header() {
		cols[i] = chIdentifier(name)
	}
	return fmt.Sprintf("INSERT INTO %s (%s)", chIdentifier(t.Name), strings.Join(cols, ", "))
}

func chType(c *synth.Column) string {
	switch kindOf(c) {
	case intKind:
		return "Int64"
	case floatKind:
		return "Float64"
	case boolKind:
		return "Bool"
	case dateKind:
		return "Date32"
	case timestampKind:
		return "DateTime64(3)"
	default:
		return "String"
	}
}

func chIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}
