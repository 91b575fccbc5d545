package customer

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

// Open connects to PostgreSQL and returns a store with tuned pool defaults.
func Open(dsn string) (*PGStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &PGStore{db: db}, nil
}

// NewPGStore wraps an existing database handle.
func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Close() error { return s.db.Close() }

func (s *PGStore) DB() *sql.DB { return s.db }

const customerColumns = `id, created, updated, full_name, email, phone, role, is_active, password_hash`

func (s *PGStore) Create(ctx context.Context, c *Customer) error {
	row := s.db.QueryRowContext(ctx,
		`insert into customers(created, updated, full_name, email, phone, role, is_active, password_hash)
		 values($1,$2,$3,$4,$5,$6,$7,$8) returning id`,
		c.Created, c.Updated, c.FullName, c.Email, nullable(c.Phone), c.Role, c.Active, c.PasswordHash,
	)
	return row.Scan(&c.ID)
}

func (s *PGStore) FindByID(ctx context.Context, id int64) (*Customer, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+customerColumns+` from customers where id=$1`, id)
	return scanCustomer(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+customerColumns+` from customers where email=$1`, email)
	return scanCustomer(row)
}

func (s *PGStore) List(ctx context.Context, filter Filter, page Page) ([]Customer, int64, error) {
	page = page.normalize()
	const match = `is_active = true
		 and full_name ilike '%' || $1 || '%'
		 and email ilike '%' || $2 || '%'
		 and coalesce(phone, '') ilike '%' || $3 || '%'`

	var total int64
	err := s.db.QueryRowContext(ctx,
		`select count(*) from customers where `+match,
		filter.FullName, filter.Email, filter.Phone,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`select `+customerColumns+` from customers where `+match+
			` order by id asc limit $4 offset $5`,
		filter.FullName, filter.Email, filter.Phone, page.Size, page.offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []Customer
	for rows.Next() {
		var (
			c     Customer
			phone sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Created, &c.Updated, &c.FullName, &c.Email,
			&phone, &c.Role, &c.Active, &c.PasswordHash); err != nil {
			return nil, 0, err
		}
		c.Phone = phone.String
		res = append(res, c)
	}
	return res, total, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, c *Customer) error {
	res, err := s.db.ExecContext(ctx,
		`update customers set full_name=$1, phone=$2, updated=$3 where id=$4`,
		c.FullName, nullable(c.Phone), c.Updated, c.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`update customers set is_active=$1 where id=$2`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*Customer, error) {
	var (
		c     Customer
		phone sql.NullString
	)
	err := row.Scan(&c.ID, &c.Created, &c.Updated, &c.FullName, &c.Email,
		&phone, &c.Role, &c.Active, &c.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.Phone = phone.String
	return &c, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
