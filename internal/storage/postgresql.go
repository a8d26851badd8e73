// Package storage реализует хранилище промо-событий на основе PostgreSQL.
// Предоставляет методы создания, чтения, обновления, удаления и выборки событий,
// в том числе выборку событий, завершившихся в заданном окне времени.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/wellness-events/internal/models"
)

// ErrEventNotFound возвращается, если события с таким ID нет.
var ErrEventNotFound = errors.New("event not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет, что миграции применены.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'events'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage.CheckDatabaseReady: %w", err)
	}
	if !exists {
		return fmt.Errorf("storage.CheckDatabaseReady: required table events missing")
	}
	return nil
}

// Close закрывает соединение.
func (s *Storage) Close() error {
	return s.DB.Close()
}

const eventColumns = `id, title, description, start_time, duration_minutes`

// CreateEvent вставляет новое событие и возвращает сохранённую запись.
func (s *Storage) CreateEvent(ctx context.Context, e models.Event) (*models.Event, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO events (title, description, start_time, duration_minutes)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + eventColumns
	row := s.DB.QueryRowContext(ctx, query, e.Title, e.Description, e.StartTime.UTC(), e.DurationMinutes)

	saved, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// ReadEvent возвращает событие по ID.
func (s *Storage) ReadEvent(ctx context.Context, id int) (*models.Event, error) {
	const op = "storage.ReadEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// UpdateEvent обновляет событие по ID и возвращает новую версию записи.
func (s *Storage) UpdateEvent(ctx context.Context, id int, e models.Event) (*models.Event, error) {
	const op = "storage.UpdateEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET title = $1, description = $2, start_time = $3, duration_minutes = $4, updated_at = now()
			  WHERE id = $5
			  RETURNING ` + eventColumns
	saved, err := scanEvent(s.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartTime.UTC(), e.DurationMinutes, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// RemoveEvent удаляет событие по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveEvent(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListEvents возвращает события по времени начала с пагинацией.
func (s *Storage) ListEvents(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	query := `SELECT ` + eventColumns + `
			  FROM events
			  ORDER BY start_time DESC, id
			  LIMIT $1 OFFSET $2`
	return s.queryEvents(ctx, op, query, limit, offset)
}

// ListUpcomingEvents возвращает события, которые ещё не закончились к моменту now.
func (s *Storage) ListUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]*models.Event, error) {
	const op = "storage.ListUpcomingEvents"
	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE start_time + duration_minutes * INTERVAL '1 minute' > $1
			  ORDER BY start_time, id
			  LIMIT $2`
	return s.queryEvents(ctx, op, query, now.UTC(), limit)
}

// FindCompletedBetween возвращает события, закончившиеся в полуинтервале (from, to].
func (s *Storage) FindCompletedBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	const op = "storage.FindCompletedBetween"
	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE start_time + duration_minutes * INTERVAL '1 minute' > $1
			    AND start_time + duration_minutes * INTERVAL '1 minute' <= $2
			  ORDER BY start_time, id`
	return s.queryEvents(ctx, op, query, from.UTC(), to.UTC())
}

func (s *Storage) queryEvents(ctx context.Context, op, query string, args ...any) ([]*models.Event, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*models.Event, error) {
	var e models.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.DurationMinutes); err != nil {
		return nil, err
	}
	e.StartTime = e.StartTime.UTC()
	return &e, nil
}
