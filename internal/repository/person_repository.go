package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-desk/internal/domain"
)

// PersonRepository encapsulates people persistence.
type PersonRepository interface {
	Create(ctx context.Context, person *domain.Person) error
	Update(ctx context.Context, person *domain.Person) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Person, error)
	List(ctx context.Context) ([]domain.Person, error)
}

type personRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository instantiates repository.
func NewPersonRepository(pool *pgxpool.Pool) PersonRepository {
	return &personRepository{pool: pool}
}

const personColumns = `id, name, role, phone, email, avatar_url, created_at`

func (r *personRepository) Create(ctx context.Context, person *domain.Person) error {
	const query = `
        INSERT INTO people (name, role, phone, email, avatar_url)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		person.Name,
		person.Role,
		person.Phone,
		person.Email,
		person.AvatarURL,
	).Scan(&person.ID, &person.CreatedAt)
}

func (r *personRepository) Update(ctx context.Context, person *domain.Person) error {
	const query = `
        UPDATE people SET name=$1, role=$2, phone=$3, email=$4, avatar_url=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		person.Name,
		person.Role,
		person.Phone,
		person.Email,
		person.AvatarURL,
		person.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM people WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	return r.fetchSingle(ctx, `SELECT `+personColumns+` FROM people WHERE id=$1`, id)
}

// GetByIdentifier looks a person up by exact email or phone match. Anything
// containing '@' is treated as an email, everything else as a phone number.
func (r *personRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Person, error) {
	identifier = strings.TrimSpace(identifier)
	column := "phone"
	if strings.Contains(identifier, "@") {
		column = "email"
	}
	return r.fetchSingle(ctx, `SELECT `+personColumns+` FROM people WHERE `+column+`=$1`, identifier)
}

func (r *personRepository) List(ctx context.Context) ([]domain.Person, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+personColumns+` FROM people ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Person
	for rows.Next() {
		var person domain.Person
		if err := scanPerson(rows.Scan, &person); err != nil {
			return nil, err
		}
		result = append(result, person)
	}
	return result, rows.Err()
}

func (r *personRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Person, error) {
	var person domain.Person
	if err := scanPerson(r.pool.QueryRow(ctx, query, arg).Scan, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func scanPerson(scan func(...any) error, person *domain.Person) error {
	return scan(
		&person.ID,
		&person.Name,
		&person.Role,
		&person.Phone,
		&person.Email,
		&person.AvatarURL,
		&person.CreatedAt,
	)
}
