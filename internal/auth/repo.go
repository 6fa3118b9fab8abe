package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("account not found")
	ErrAlreadyExist = errors.New("account already exists")
)

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByEmail(ctx context.Context, email string) (*Customer, error)
}

type PGAdminRepo struct{ db *pgxpool.Pool }

func NewPGAdminRepo(db *pgxpool.Pool) *PGAdminRepo { return &PGAdminRepo{db: db} }

func (r *PGAdminRepo) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM admins WHERE username=$1
	`, username)
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

type PGCustomerRepo struct{ db *pgxpool.Pool }

func NewPGCustomerRepo(db *pgxpool.Pool) *PGCustomerRepo { return &PGCustomerRepo{db: db} }

func (r *PGCustomerRepo) Create(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, c.ID, c.Name, c.Email, c.PasswordHash)
	if err != nil {
		// email carries a UNIQUE constraint
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGCustomerRepo) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM customers WHERE email=$1
	`, email)
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}
