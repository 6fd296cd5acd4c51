package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/erictisme/outreach-ai-sub002/internal/db"
	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_company":  `SELECT id, name, website, domain, type, description, relevance, verification_status, verification_source, verified_at, website_accessible, custom FROM companies WHERE id = $1`,
	"list_persons": `SELECT id, company_id, company, name, title, email, linkedin, source, verification_status, email_certainty, email_source, email_verified, custom FROM persons WHERE company_id = $1 ORDER BY name`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	website             TEXT NOT NULL DEFAULT '',
	domain              TEXT NOT NULL DEFAULT '',
	type                TEXT NOT NULL DEFAULT '',
	description         TEXT NOT NULL DEFAULT '',
	relevance           TEXT NOT NULL DEFAULT '',
	verification_status TEXT NOT NULL DEFAULT 'unverified',
	verification_source TEXT NOT NULL DEFAULT '',
	verified_at         TIMESTAMPTZ,
	website_accessible  BOOLEAN NOT NULL DEFAULT false,
	custom              JSONB,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS persons (
	id                  TEXT PRIMARY KEY,
	company_id          TEXT NOT NULL,
	company             TEXT NOT NULL DEFAULT '',
	name                TEXT NOT NULL,
	title               TEXT NOT NULL DEFAULT '',
	email               TEXT NOT NULL DEFAULT '',
	linkedin            TEXT NOT NULL DEFAULT '',
	source              TEXT NOT NULL DEFAULT '',
	verification_status TEXT NOT NULL DEFAULT 'unverified',
	email_certainty     INTEGER NOT NULL DEFAULT 0,
	email_source        TEXT NOT NULL DEFAULT '',
	email_verified      BOOLEAN NOT NULL DEFAULT false,
	custom              JSONB,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_companies_domain ON companies(domain);
CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(verification_status);
CREATE INDEX IF NOT EXISTS idx_persons_company_id ON persons(company_id);
CREATE INDEX IF NOT EXISTS idx_persons_certainty ON persons(email_certainty);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertCompany(ctx context.Context, c model.Company) error {
	if c.ID == "" {
		return eris.New("postgres: company id required")
	}
	custom, err := customJSON(c.Custom)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal company custom")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies
		 (id, name, website, domain, type, description, relevance, verification_status, verification_source, verified_at, website_accessible, custom, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, website = $3, domain = $4, type = $5, description = $6, relevance = $7,
		   verification_status = $8, verification_source = $9, verified_at = $10,
		   website_accessible = $11, custom = $12, updated_at = $13`,
		c.ID, c.Name, c.Website, c.Domain, c.Type, c.Description, c.Relevance,
		statusOrDefault(c.VerificationStatus), c.VerificationSource, c.VerifiedAt,
		c.WebsiteAccessible, custom, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert company %s", c.ID)
}

func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	var (
		c          model.Company
		verifiedAt *time.Time
		custom     []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, website, domain, type, description, relevance,
		        verification_status, verification_source, verified_at, website_accessible, custom
		 FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Website, &c.Domain, &c.Type, &c.Description, &c.Relevance,
		&c.VerificationStatus, &c.VerificationSource, &verifiedAt, &c.WebsiteAccessible, &custom)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get company %s", id)
	}
	c.VerifiedAt = verifiedAt
	if len(custom) > 0 {
		if err := json.Unmarshal(custom, &c.Custom); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal company custom")
		}
	}
	return &c, nil
}

func (s *PostgresStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error) {
	query := `SELECT id, name, website, domain, type, description, relevance,
	                 verification_status, verification_source, verified_at, website_accessible, custom
	          FROM companies WHERE true`
	args := []any{}
	argIdx := 1

	if filter.VerificationStatus != "" {
		query += fmt.Sprintf(` AND verification_status = $%d`, argIdx)
		args = append(args, string(filter.VerificationStatus))
		argIdx++
	}
	query += ` ORDER BY name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var (
			c          model.Company
			verifiedAt *time.Time
			custom     []byte
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Domain, &c.Type, &c.Description, &c.Relevance,
			&c.VerificationStatus, &c.VerificationSource, &verifiedAt, &c.WebsiteAccessible, &custom); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		c.VerifiedAt = verifiedAt
		if len(custom) > 0 {
			if err := json.Unmarshal(custom, &c.Custom); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal company custom")
			}
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

// personColumns is the column order used by the bulk upsert.
var personColumns = []string{
	"id", "company_id", "company", "name", "title", "email", "linkedin",
	"source", "verification_status", "email_certainty", "email_source",
	"email_verified", "custom", "updated_at",
}

func (s *PostgresStore) UpsertPersons(ctx context.Context, persons []model.Person) error {
	if len(persons) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(persons))
	for _, p := range persons {
		if p.ID == "" {
			return eris.Errorf("postgres: person id required (name %s)", p.Name)
		}
		custom, err := customJSON(p.Custom)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal person custom")
		}
		rows = append(rows, []any{
			p.ID, p.CompanyID, p.Company, p.Name, p.Title, p.Email, p.LinkedIn,
			string(p.Source), statusOrDefault(p.VerificationStatus), p.EmailCertainty,
			p.EmailSource, p.EmailVerified, custom, now,
		})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "persons",
		Columns:      personColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	return err
}

func (s *PostgresStore) ListPersons(ctx context.Context, filter PersonFilter) ([]model.Person, error) {
	query := `SELECT id, company_id, company, name, title, email, linkedin, source,
	                 verification_status, email_certainty, email_source, email_verified, custom
	          FROM persons WHERE true`
	args := []any{}
	argIdx := 1

	if filter.CompanyID != "" {
		query += fmt.Sprintf(` AND company_id = $%d`, argIdx)
		args = append(args, filter.CompanyID)
		argIdx++
	}
	if filter.MinCertainty > 0 {
		query += fmt.Sprintf(` AND email_certainty >= $%d`, argIdx)
		args = append(args, filter.MinCertainty)
		argIdx++
	}
	query += ` ORDER BY company_id, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list persons")
	}
	defer rows.Close()

	var persons []model.Person
	for rows.Next() {
		var (
			p      model.Person
			custom []byte
		)
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Company, &p.Name, &p.Title, &p.Email, &p.LinkedIn,
			&p.Source, &p.VerificationStatus, &p.EmailCertainty, &p.EmailSource, &p.EmailVerified, &custom); err != nil {
			return nil, eris.Wrap(err, "postgres: scan person")
		}
		if len(custom) > 0 {
			if err := json.Unmarshal(custom, &p.Custom); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal person custom")
			}
		}
		persons = append(persons, p)
	}
	return persons, eris.Wrap(rows.Err(), "postgres: list persons iterate")
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func customJSON(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}
