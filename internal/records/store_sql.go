package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SQLStore keeps every collection in one table with the document as a JSON
// column. Field queries go through the driver's JSON accessor, switched the
// same way the exam store switches drivers.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) fieldExpr() string {
	if s.driver == "postgres" {
		return `doc::jsonb ->> $2 = $3`
	}
	return `json_extract(doc, '$.' || $2) = $3`
}

func (s *SQLStore) Create(ctx context.Context, collection string, doc map[string]any) (Record, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return Record{}, err
	}
	now := time.Now().Unix()
	rec := Record{ID: uuid.NewString(), Doc: doc, CreatedAt: now, UpdatedAt: now}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, doc, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`,
		collection, rec.ID, string(buf), now, now)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	var doc string
	err := row.Scan(&rec.ID, &doc, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(doc), &rec.Doc); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx,
		`SELECT id, doc, created_at, updated_at FROM records WHERE collection=$1 AND id=$2`,
		collection, id))
}

func (s *SQLStore) FindBy(ctx context.Context, collection, field, value string) (Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx,
		`SELECT id, doc, created_at, updated_at FROM records WHERE collection=$1 AND `+s.fieldExpr()+` ORDER BY created_at DESC LIMIT 1`,
		collection, field, value))
}

func (s *SQLStore) list(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) List(ctx context.Context, collection string) ([]Record, error) {
	return s.list(ctx,
		`SELECT id, doc, created_at, updated_at FROM records WHERE collection=$1 ORDER BY created_at DESC`,
		collection)
}

func (s *SQLStore) ListBy(ctx context.Context, collection, field, value string) ([]Record, error) {
	return s.list(ctx,
		`SELECT id, doc, created_at, updated_at FROM records WHERE collection=$1 AND `+s.fieldExpr()+` ORDER BY created_at DESC`,
		collection, field, value)
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, doc map[string]any) (Record, error) {
	rec, err := s.Get(ctx, collection, id)
	if err != nil {
		return Record{}, err
	}
	for k, v := range doc {
		rec.Doc[k] = v
	}
	buf, err := json.Marshal(rec.Doc)
	if err != nil {
		return Record{}, err
	}
	rec.UpdatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`UPDATE records SET doc=$1, updated_at=$2 WHERE collection=$3 AND id=$4`,
		string(buf), rec.UpdatedAt, collection, id)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteBy(ctx context.Context, collection, field, value string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection=$1 AND `+s.fieldExpr(), collection, field, value)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
