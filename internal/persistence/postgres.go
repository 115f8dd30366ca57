package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// PostgresDB implements Database for PostgreSQL.
type PostgresDB struct {
	db          *sql.DB
	users       UserRepository
	insights    InsightRepository
	assessments AssessmentRepository
}

// NewPostgresDB opens a PostgreSQL connection pool and verifies it.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pgDB := &PostgresDB{db: db}
	pgDB.users = &postgresUserRepo{db: db}
	pgDB.insights = &postgresInsightRepo{db: db}
	pgDB.assessments = &postgresAssessmentRepo{db: db}

	return pgDB, nil
}

func (p *PostgresDB) Users() UserRepository               { return p.users }
func (p *PostgresDB) Insights() InsightRepository         { return p.insights }
func (p *PostgresDB) Assessments() AssessmentRepository   { return p.assessments }
func (p *PostgresDB) Ping(ctx context.Context) error      { return p.db.PingContext(ctx) }
func (p *PostgresDB) Close() error                        { return p.db.Close() }

// InTx runs fn against transaction-scoped repositories. The timeout bounds
// the whole unit of work through the context deadline.
func (p *PostgresDB) InTx(ctx context.Context, timeout time.Duration, fn func(tx Database) error) error {
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := p.db.BeginTx(txCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txDB := &postgresTxDB{
		users:       &postgresUserRepo{tx: tx},
		insights:    &postgresInsightRepo{tx: tx},
		assessments: &postgresAssessmentRepo{tx: tx},
	}

	if err := fn(txDB); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}

// postgresTxDB is the Database view handed to InTx callbacks.
type postgresTxDB struct {
	users       UserRepository
	insights    InsightRepository
	assessments AssessmentRepository
}

func (t *postgresTxDB) Users() UserRepository             { return t.users }
func (t *postgresTxDB) Insights() InsightRepository       { return t.insights }
func (t *postgresTxDB) Assessments() AssessmentRepository { return t.assessments }
func (t *postgresTxDB) Ping(ctx context.Context) error    { return nil }
func (t *postgresTxDB) Close() error                      { return nil }

func (t *postgresTxDB) InTx(ctx context.Context, timeout time.Duration, fn func(tx Database) error) error {
	return fmt.Errorf("nested transactions are not supported")
}
