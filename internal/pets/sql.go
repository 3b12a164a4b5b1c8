package pets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/pkg/db"
)

const petColumns = "id, name, species, breed, age, description, is_adopted, created_at, updated_at"

const orderNewestFirst = " ORDER BY created_at DESC, id DESC"

var schemas = map[string]string{
	"mysql": `CREATE TABLE IF NOT EXISTS pet (
	id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	species VARCHAR(50) NOT NULL,
	breed VARCHAR(100) NULL,
	age INT NULL,
	description TEXT NULL,
	is_adopted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL,
	INDEX idx_pet_name (name),
	INDEX idx_pet_species (species),
	INDEX idx_pet_is_adopted (is_adopted)
)`,
	"postgres": `CREATE TABLE IF NOT EXISTS pet (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	species VARCHAR(50) NOT NULL,
	breed VARCHAR(100) NULL,
	age INTEGER NULL,
	description TEXT NULL,
	is_adopted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
}

// SQLRepository stores pets in MySQL or PostgreSQL through pkg/db
type SQLRepository struct {
	db  db.Database
	now func() time.Time
}

// NewSQLRepository wraps a connected database
func NewSQLRepository(database db.Database) *SQLRepository {
	return &SQLRepository{
		db:  database,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates the pet table if it does not exist
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	ddl, ok := schemas[r.db.DriverName()]
	if !ok {
		return fmt.Errorf("%w: %s", db.ErrUnsupportedDB, r.db.DriverName())
	}
	if _, err := r.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create pet table: %w", err)
	}
	logger.Debug("Pet table ready on %s", r.db.DriverName())
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPet(row rowScanner) (Pet, error) {
	var (
		p           Pet
		breed       sql.NullString
		age         sql.NullInt64
		description sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Species, &breed, &age, &description,
		&p.IsAdopted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Pet{}, err
	}
	if breed.Valid {
		p.Breed = &breed.String
	}
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	if description.Valid {
		p.Description = &description.String
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *SQLRepository) queryPets(ctx context.Context, query string, args ...interface{}) ([]Pet, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logger.Error("Error closing rows: %v", closeErr)
		}
	}()

	result := []Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pet: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pets: %w", err)
	}
	return result, nil
}

// GetAll returns all pets, newest first
func (r *SQLRepository) GetAll(ctx context.Context) ([]Pet, error) {
	return r.queryPets(ctx, "SELECT "+petColumns+" FROM pet"+orderNewestFirst)
}

// GetByID returns one pet
func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*Pet, error) {
	row := r.db.QueryRow(ctx, "SELECT "+petColumns+" FROM pet WHERE id = ?", id)
	if row == nil {
		return nil, db.ErrNoDatabase
	}
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, petNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pet %d: %w", id, err)
	}
	return &p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// insert writes one validated pet and returns its id
func (r *SQLRepository) insert(ctx context.Context, tx execer, data NewPet, now time.Time) (int64, error) {
	query := "INSERT INTO pet (name, species, breed, age, description, is_adopted, created_at, updated_at) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{data.Name, data.Species, nullString(data.Breed), nullInt(data.Age),
		nullString(data.Description), false, now, now}

	if r.db.DriverName() == "postgres" {
		var id int64
		if err := tx.QueryRowContext(ctx, r.db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert pet: %w", err)
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted pet id: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Error rolling back transaction: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Create stores a new pet
func (r *SQLRepository) Create(ctx context.Context, data NewPet) (*Pet, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = r.insert(ctx, tx, data, r.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update applies a partial update
func (r *SQLRepository) Update(ctx context.Context, id int64, data Update) (*Pet, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data.Empty() {
		return current, nil
	}

	data.Apply(current)
	current.UpdatedAt = r.now()
	_, err = r.db.Exec(ctx,
		"UPDATE pet SET name = ?, species = ?, breed = ?, age = ?, description = ?, updated_at = ? WHERE id = ?",
		current.Name, current.Species, nullString(current.Breed), nullInt(current.Age),
		nullString(current.Description), current.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update pet %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a pet
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, "DELETE FROM pet WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete pet %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete pet %d: %w", id, err)
	}
	if n == 0 {
		return petNotFound(id)
	}
	return nil
}

// Adopt marks a pet as adopted. The conditional update makes a concurrent
// double adoption fail with a conflict.
func (r *SQLRepository) Adopt(ctx context.Context, id int64) (*Pet, error) {
	res, err := r.db.Exec(ctx,
		"UPDATE pet SET is_adopted = ?, updated_at = ? WHERE id = ? AND is_adopted = ?",
		true, r.now(), id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to adopt pet %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to adopt pet %d: %w", id, err)
	}

	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, Conflict("%s is already adopted", p.Name)
	}
	return p, nil
}

// FindByName returns the newest pet whose name contains name, ignoring case
func (r *SQLRepository) FindByName(ctx context.Context, name string) (*Pet, error) {
	needle := strings.TrimSpace(name)
	found, err := r.queryPets(ctx,
		"SELECT "+petColumns+" FROM pet WHERE LOWER(name) LIKE ?"+orderNewestFirst+" LIMIT 1",
		likePattern(needle))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, NotFound("No pet found with name containing %q", needle)
	}
	return &found[0], nil
}

// buildSearch renders the filter as a WHERE clause with '?' placeholders
func buildSearch(filter Filter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.Species != "" {
		clauses = append(clauses, "LOWER(species) LIKE ?")
		args = append(args, likePattern(filter.Species))
	}
	if filter.Breed != "" {
		clauses = append(clauses, "LOWER(breed) LIKE ?")
		args = append(args, likePattern(filter.Breed))
	}
	if filter.AvailableOnly {
		clauses = append(clauses, "is_adopted = ?")
		args = append(args, false)
	}
	if filter.MinAge != nil {
		clauses = append(clauses, "age >= ?")
		args = append(args, *filter.MinAge)
	}
	if filter.MaxAge != nil {
		clauses = append(clauses, "age <= ?")
		args = append(args, *filter.MaxAge)
	}

	query := "SELECT " + petColumns + " FROM pet"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	return query + orderNewestFirst, args
}

// Search returns pets matching the filter, newest first
func (r *SQLRepository) Search(ctx context.Context, filter Filter) ([]Pet, error) {
	query, args := buildSearch(filter)
	return r.queryPets(ctx, query, args...)
}

// GetAvailable returns pets not yet adopted, newest first
func (r *SQLRepository) GetAvailable(ctx context.Context) ([]Pet, error) {
	return r.Search(ctx, Filter{AvailableOnly: true})
}

// Summary groups pets by species
func (r *SQLRepository) Summary(ctx context.Context) (*Summary, error) {
	rows, err := r.db.Query(ctx,
		"SELECT species, COUNT(*), COALESCE(SUM(CASE WHEN is_adopted THEN 1 ELSE 0 END), 0) FROM pet GROUP BY species")
	if err != nil {
		return nil, fmt.Errorf("failed to summarize pets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logger.Error("Error closing rows: %v", closeErr)
		}
	}()

	summary := &Summary{SpeciesStats: make(map[string]SpeciesStats)}
	for rows.Next() {
		var (
			species        string
			total, adopted int
		)
		if err := rows.Scan(&species, &total, &adopted); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summary.SpeciesStats[species] = SpeciesStats{
			Total:     total,
			Adopted:   adopted,
			Available: total - adopted,
		}
		summary.OverallTotals.TotalPets += total
		summary.OverallTotals.AdoptedPets += adopted
		summary.OverallTotals.AvailablePets += total - adopted
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary: %w", err)
	}
	return summary, nil
}

// AdoptionStats reports adoption counts and rate
func (r *SQLRepository) AdoptionStats(ctx context.Context) (*AdoptionStats, error) {
	summary, err := r.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return Stats(summary), nil
}

// ValidSpecies lists stored and common species
func (r *SQLRepository) ValidSpecies(ctx context.Context) (*Species, error) {
	rows, err := r.db.Query(ctx, "SELECT DISTINCT species FROM pet")
	if err != nil {
		return nil, fmt.Errorf("failed to list species: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logger.Error("Error closing rows: %v", closeErr)
		}
	}()

	existing := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		existing = append(existing, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate species: %w", err)
	}
	return MergeSpecies(existing), nil
}

// CreateBatch stores all pets or none in a single transaction
func (r *SQLRepository) CreateBatch(ctx context.Context, data []NewPet) ([]Pet, error) {
	for i := range data {
		if err := data[i].Validate(); err != nil {
			return nil, InvalidInput("Pet %d: %s", i+1, err.Error())
		}
	}

	ids := make([]int64, 0, len(data))
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		now := r.now()
		for _, d := range data {
			id, err := r.insert(ctx, tx, d, now)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]Pet, 0, len(ids))
	for _, id := range ids {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		created = append(created, *p)
	}
	return created, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// likePattern builds a lower-cased substring pattern with LIKE wildcards escaped
func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}
