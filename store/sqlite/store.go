package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/quietfoundry/rolodex/store"
	"github.com/quietfoundry/rolodex/vector"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so lexical ordering of the created_at
// column matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		name TEXT,
		email TEXT,
		linkedin TEXT,
		company TEXT,
		last_contacted TEXT,
		content TEXT NOT NULL,
		embedding BLOB,
		created_at TEXT NOT NULL,
		connected_already TEXT
	);

	CREATE INDEX IF NOT EXISTS records_scope_idx ON records (user_id, conversation_id, created_at);
	CREATE INDEX IF NOT EXISTS records_email_idx ON records (email);
`

type sqliteStore struct {
	options store.Options
	conn    *sql.DB
}

func (s *sqliteStore) Insert(ctx context.Context, rec store.Record) (int64, error) {
	query := `
		INSERT INTO records (
			user_id, conversation_id, name, email, linkedin, company,
			last_contacted, content, embedding, created_at, connected_already
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.conn.ExecContext(
		ctx,
		query,
		rec.UserId,
		rec.ConversationId,
		nullable(rec.Name),
		nullable(rec.Email),
		nullable(rec.Linkedin),
		nullable(rec.Company),
		nullable(rec.LastContacted),
		rec.Content,
		vector.Encode(rec.Embedding),
		rec.CreatedAt.UTC().Format(timeLayout),
		nullable(rec.ConnectedAlready),
	)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *sqliteStore) Update(ctx context.Context, rec store.Record) error {
	query := `
		UPDATE records SET
			user_id = ?,
			conversation_id = ?,
			name = ?,
			email = ?,
			linkedin = ?,
			company = ?,
			last_contacted = ?,
			content = ?,
			embedding = ?,
			created_at = ?,
			connected_already = ?
		WHERE id = ?
	`

	_, err := s.conn.ExecContext(
		ctx,
		query,
		rec.UserId,
		rec.ConversationId,
		nullable(rec.Name),
		nullable(rec.Email),
		nullable(rec.Linkedin),
		nullable(rec.Company),
		nullable(rec.LastContacted),
		rec.Content,
		vector.Encode(rec.Embedding),
		rec.CreatedAt.UTC().Format(timeLayout),
		nullable(rec.ConnectedAlready),
		rec.Id,
	)

	return err
}

func (s *sqliteStore) FirstByEmail(ctx context.Context, email string) (*store.Record, error) {
	query := selectColumns + `
		FROM records
		WHERE email = ?
		ORDER BY id
		LIMIT 1
	`

	row := s.conn.QueryRowContext(ctx, query, email)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *sqliteStore) List(ctx context.Context, userId, conversationId string) ([]store.Record, error) {
	query := selectColumns + `
		FROM records
		WHERE user_id = ? AND conversation_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.conn.QueryContext(ctx, query, userId, conversationId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []store.Record

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *sqliteStore) SetConnected(ctx context.Context, id int64, connected string) error {
	_, err := s.conn.ExecContext(
		ctx,
		`UPDATE records SET connected_already = ? WHERE id = ?`,
		connected,
		id,
	)
	return err
}

const selectColumns = `
		SELECT
			id, user_id, conversation_id, name, email, linkedin, company,
			last_contacted, content, embedding, created_at, connected_already
`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*store.Record, error) {
	var rec store.Record
	var name, email, linkedin, company, lastContacted, connected sql.NullString
	var embedding []byte
	var createdAt string

	if err := row.Scan(
		&rec.Id,
		&rec.UserId,
		&rec.ConversationId,
		&name,
		&email,
		&linkedin,
		&company,
		&lastContacted,
		&rec.Content,
		&embedding,
		&createdAt,
		&connected,
	); err != nil {
		return nil, err
	}

	rec.Name = fromNull(name)
	rec.Email = fromNull(email)
	rec.Linkedin = fromNull(linkedin)
	rec.Company = fromNull(company)
	rec.LastContacted = fromNull(lastContacted)
	rec.ConnectedAlready = fromNull(connected)

	// A corrupt blob decodes to nil and later falls out of ranking
	// via the similarity sentinel.
	rec.Embedding = vector.Decode(embedding)

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = ts

	return &rec, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &sqliteStore{
		options: options,
	}

	conn, err := sql.Open("sqlite", options.Location)
	if err != nil {
		detail := "failed to open sqlite store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if err := conn.Ping(); err != nil {
		detail := "failed to ping with sqlite store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if _, err := conn.ExecContext(options.Context, schema); err != nil {
		detail := "failed to migrate sqlite store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s.conn = conn

	return s
}
