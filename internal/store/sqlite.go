package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
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
	verified_at         DATETIME,
	website_accessible  INTEGER NOT NULL DEFAULT 0,
	custom              TEXT,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at          DATETIME NOT NULL DEFAULT (datetime('now'))
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
	email_verified      INTEGER NOT NULL DEFAULT 0,
	custom              TEXT,
	created_at          DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at          DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_companies_domain ON companies(domain);
CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(verification_status);
CREATE INDEX IF NOT EXISTS idx_persons_company_id ON persons(company_id);
CREATE INDEX IF NOT EXISTS idx_persons_certainty ON persons(email_certainty);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertCompany(ctx context.Context, c model.Company) error {
	if c.ID == "" {
		return eris.New("sqlite: company id required")
	}
	custom, err := marshalCustom(c.Custom)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal company custom")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO companies
		 (id, name, website, domain, type, description, relevance, verification_status, verification_source, verified_at, website_accessible, custom, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, website = excluded.website, domain = excluded.domain,
		   type = excluded.type, description = excluded.description, relevance = excluded.relevance,
		   verification_status = excluded.verification_status, verification_source = excluded.verification_source,
		   verified_at = excluded.verified_at, website_accessible = excluded.website_accessible,
		   custom = excluded.custom, updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Website, c.Domain, c.Type, c.Description, c.Relevance,
		statusOrDefault(c.VerificationStatus), c.VerificationSource, c.VerifiedAt,
		boolToInt(c.WebsiteAccessible), custom, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert company %s", c.ID)
}

func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, website, domain, type, description, relevance,
		        verification_status, verification_source, verified_at, website_accessible, custom
		 FROM companies WHERE id = ?`,
		id,
	)

	var (
		c          model.Company
		verifiedAt sql.NullTime
		accessible int
		custom     sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Domain, &c.Type, &c.Description, &c.Relevance,
		&c.VerificationStatus, &c.VerificationSource, &verifiedAt, &accessible, &custom)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("company not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get company %s", id)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		c.VerifiedAt = &t
	}
	c.WebsiteAccessible = accessible != 0
	if c.Custom, err = unmarshalCustom(custom); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal company custom")
	}
	return &c, nil
}

func (s *SQLiteStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error) {
	query := `SELECT id, name, website, domain, type, description, relevance,
	                 verification_status, verification_source, verified_at, website_accessible, custom
	          FROM companies WHERE 1=1`
	var args []any

	if filter.VerificationStatus != "" {
		query += ` AND verification_status = ?`
		args = append(args, string(filter.VerificationStatus))
	}
	query += ` ORDER BY name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var (
			c          model.Company
			verifiedAt sql.NullTime
			accessible int
			custom     sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Domain, &c.Type, &c.Description, &c.Relevance,
			&c.VerificationStatus, &c.VerificationSource, &verifiedAt, &accessible, &custom); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		if verifiedAt.Valid {
			t := verifiedAt.Time
			c.VerifiedAt = &t
		}
		c.WebsiteAccessible = accessible != 0
		if c.Custom, err = unmarshalCustom(custom); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal company custom")
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "sqlite: list companies iterate")
}

func (s *SQLiteStore) UpsertPersons(ctx context.Context, persons []model.Person) error {
	if len(persons) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, p := range persons {
		if p.ID == "" {
			return eris.Errorf("sqlite: person id required (name %s)", p.Name)
		}
		custom, err := marshalCustom(p.Custom)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal person custom")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO persons
			 (id, company_id, company, name, title, email, linkedin, source, verification_status, email_certainty, email_source, email_verified, custom, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   company_id = excluded.company_id, company = excluded.company, name = excluded.name,
			   title = excluded.title, email = excluded.email, linkedin = excluded.linkedin,
			   source = excluded.source, verification_status = excluded.verification_status,
			   email_certainty = excluded.email_certainty, email_source = excluded.email_source,
			   email_verified = excluded.email_verified, custom = excluded.custom, updated_at = excluded.updated_at`,
			p.ID, p.CompanyID, p.Company, p.Name, p.Title, p.Email, p.LinkedIn,
			string(p.Source), statusOrDefault(p.VerificationStatus), p.EmailCertainty,
			p.EmailSource, boolToInt(p.EmailVerified), custom, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert person %s", p.ID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit persons")
}

func (s *SQLiteStore) ListPersons(ctx context.Context, filter PersonFilter) ([]model.Person, error) {
	query := `SELECT id, company_id, company, name, title, email, linkedin, source,
	                 verification_status, email_certainty, email_source, email_verified, custom
	          FROM persons WHERE 1=1`
	var args []any

	if filter.CompanyID != "" {
		query += ` AND company_id = ?`
		args = append(args, filter.CompanyID)
	}
	if filter.MinCertainty > 0 {
		query += ` AND email_certainty >= ?`
		args = append(args, filter.MinCertainty)
	}
	query += ` ORDER BY company_id, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list persons")
	}
	defer rows.Close()

	var persons []model.Person
	for rows.Next() {
		var (
			p        model.Person
			verified int
			custom   sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Company, &p.Name, &p.Title, &p.Email, &p.LinkedIn,
			&p.Source, &p.VerificationStatus, &p.EmailCertainty, &p.EmailSource, &verified, &custom); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan person")
		}
		p.EmailVerified = verified != 0
		if p.Custom, err = unmarshalCustom(custom); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal person custom")
		}
		persons = append(persons, p)
	}
	return persons, eris.Wrap(rows.Err(), "sqlite: list persons iterate")
}

// helpers

func statusOrDefault(s model.VerificationStatus) string {
	if s == "" {
		return string(model.VerificationUnverified)
	}
	return string(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func marshalCustom(m map[string]string) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalCustom(s sql.NullString) (map[string]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, err
	}
	return m, nil
}
