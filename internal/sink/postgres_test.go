package sink

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
)

func TestCreateTableSQL(t *testing.T) {
	ds := testDataset()

	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "Dim_City" (
  "ID" BIGINT PRIMARY KEY,
  "CityName" TEXT,
  "Founded" DATE
)`, createTableSQL(ds.Tables[0]))

	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "Fact_Visit" (
  "Fact_ID" BIGINT PRIMARY KEY,
  "Dim_City_ID" BIGINT NOT NULL,
  "Rating" DOUBLE PRECISION,
  "Returning" BOOLEAN,
  "VisitedAt" TIMESTAMPTZ,
  "Mystery" TEXT,
  CONSTRAINT "fk_Fact_Visit_Dim_City_ID" FOREIGN KEY ("Dim_City_ID") REFERENCES "Dim_City"("ID")
)`, createTableSQL(ds.Tables[1]))
}

func TestPgIdentifier(t *testing.T) {
	assert.Equal(t, `"Dim_City"`, pgIdentifier("Dim_City"))
	assert.Equal(t, `"we""ird"`, pgIdentifier(`we"ird`))
}

func TestPostgresConfig_ConnString(t *testing.T) {
	tests := []struct {
		name string
		cfg  PostgresConfig
		want string
	}{
		{
			name: "full",
			cfg:  PostgresConfig{Host: "db", Port: 5433, User: "mock", Password: "p@ss", Database: "warehouse", SSLMode: "disable"},
			want: "postgres://mock:p%40ss@db:5433/warehouse?sslmode=disable",
		},
		{
			name: "no password defaults to require",
			cfg:  PostgresConfig{Host: "db", User: "mock", Database: "warehouse"},
			want: "postgres://mock@db/warehouse?sslmode=require",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ConnString())
		})
	}
}

func TestPostgres_Write(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := t.Context()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("mockedup"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	p := newPostgres(connStr, PostgresConfig{Retries: 1}, nil, zap.NewNop())
	ds := testDataset()

	// A second run truncates and reloads the same tables.
	require.NoError(t, p.Write(ctx, ds))
	require.NoError(t, p.Write(ctx, ds))

	conn, err := pgx.Connect(ctx, connStr)
	require.NoError(t, err)
	defer conn.Close(ctx)

	var dims, facts int
	require.NoError(t, conn.QueryRow(ctx, `SELECT count(*) FROM "Dim_City"`).Scan(&dims))
	require.NoError(t, conn.QueryRow(ctx, `SELECT count(*) FROM "Fact_Visit"`).Scan(&facts))
	assert.Equal(t, 2, dims)
	assert.Equal(t, 3, facts)

	var city string
	var founded time.Time
	require.NoError(t, conn.QueryRow(ctx,
		`SELECT d."CityName", d."Founded" FROM "Fact_Visit" f JOIN "Dim_City" d ON d."ID" = f."Dim_City_ID" WHERE f."Fact_ID" = 2`,
	).Scan(&city, &founded))
	assert.Equal(t, "Oslo", city)
	assert.Equal(t, 1048, founded.Year())

	_, err = conn.Exec(ctx, `INSERT INTO "Fact_Visit" ("Fact_ID", "Dim_City_ID") VALUES (99, 99)`)
	require.Error(t, err, "foreign key constraint should reject unknown dimension keys")

	t.Run("recreate", func(t *testing.T) {
		p := newPostgres(connStr, PostgresConfig{Retries: 1, Recreate: true}, nil, zap.NewNop())
		require.NoError(t, p.Write(ctx, ds))
	})
}
