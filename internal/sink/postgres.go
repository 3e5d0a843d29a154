package sink

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/DGarbs51/mockedup/internal/schema"
	"github.com/DGarbs51/mockedup/internal/synth"
)

const copyBatchSize = 1000

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Retries  int
	// Recreate drops the dataset's tables before creating them instead of
	// truncating existing ones.
	Recreate bool
}

// ConnString renders the config as a postgres:// URL.
func (c PostgresConfig) ConnString() string {
	hostPort := c.Host
	if c.Port > 0 {
		hostPort = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	u := &url.URL{
		Scheme:   "postgres",
		Host:     hostPort,
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// Postgres loads a dataset into PostgreSQL tables named after the dataset's
// tables, in a single transaction.
type Postgres struct {
	connString string
	recreate   bool
	retry      retrier
	log        *zap.Logger
}

func NewPostgres(cfg PostgresConfig, log *zap.Logger) *Postgres {
	return newPostgres(cfg.ConnString(), cfg, nil, log)
}

func newPostgres(connString string, cfg PostgresConfig, clock clockwork.Clock, log *zap.Logger) *Postgres {
	return &Postgres{
		connString: connString,
		recreate:   cfg.Recreate,
		retry:      newRetrier(cfg.Retries, clock, log),
		log:        log,
	}
}

func (p *Postgres) Write(ctx context.Context, ds *synth.Dataset) error {
	var conn *pgx.Conn
	err := p.retry.do(ctx, "connect", func() error {
		var err error
		conn, err = pgx.Connect(ctx, p.connString)
		return err
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if p.recreate {
		for i := len(ds.Tables) - 1; i >= 0; i-- {
			stmt := "DROP TABLE IF EXISTS " + pgIdentifier(ds.Tables[i].Name) + " CASCADE"
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("drop %s: %w", ds.Tables[i].Name, err)
			}
		}
	}

	for _, t := range ds.Tables {
		if _, err := tx.Exec(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("execute DDL for %s: %w", t.Name, err)
		}
	}

	// Reverse order so facts are emptied before the dimensions they reference.
	for i := len(ds.Tables) - 1; i >= 0; i-- {
		stmt := "TRUNCATE TABLE " + pgIdentifier(ds.Tables[i].Name) + " CASCADE"
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("truncate %s: %w", ds.Tables[i].Name, err)
		}
	}

	for _, t := range ds.Tables {
		if err := copyTable(ctx, tx, t); err != nil {
			return err
		}
		p.log.Debug("Copied table", zap.String("table", t.Name), zap.Int("rows", t.RowCount()))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	p.log.Info("Loaded dataset into postgres", zap.Int("tables", len(ds.Tables)))
	return nil
}

func copyTable(ctx context.Context, tx pgx.Tx, t *synth.Table) error {
	header := t.Header()
	kinds := columnKinds(t)
	total := t.RowCount()
	for start := 0; start < total; start += copyBatchSize {
		end := min(start+copyBatchSize, total)
		_, err := tx.CopyFrom(ctx, pgx.Identifier{t.Name}, header,
			pgx.CopyFromSlice(end-start, func(i int) ([]any, error) {
				return typedRow(t, kinds, start+i), nil
			}))
		if err != nil {
			return fmt.Errorf("copy into %s (rows %d-%d): %w", t.Name, start+1, end, err)
		}
	}
	return nil
}

// createTableSQL produces the CREATE TABLE statement for a built table: the
// key column as primary key and, for facts, one foreign key constraint per
// linked dimension.
func createTableSQL(t *synth.Table) string {
	var defs []string
	for i := range t.Columns {
		c := &t.Columns[i]
		def := fmt.Sprintf("  %s %s", pgIdentifier(c.Name), pgType(c))
		switch c.Role {
		case synth.KeyColumn:
			def += " PRIMARY KEY"
		case synth.ForeignKeyColumn:
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	for _, fk := range t.ForeignKeys() {
		defs = append(defs, fmt.Sprintf("  CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
			pgIdentifier(fmt.Sprintf("fk_%s_%s", t.Name, fk.Name)),
			pgIdentifier(fk.Name),
			pgIdentifier(fk.References),
			pgIdentifier(schema.DimensionKeyColumn)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", pgIdentifier(t.Name), strings.Join(defs, ",\n"))
}

func pgType(c *synth.Column) string {
	switch kindOf(c) {
	case intKind:
		return "BIGINT"
	case floatKind:
		return "DOUBLE PRECISION"
	case boolKind:
		return "BOOLEAN"
	case dateKind:
		return "DATE"
	case timestampKind:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

// pgIdentifier quotes a PostgreSQL identifier.
func pgIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
