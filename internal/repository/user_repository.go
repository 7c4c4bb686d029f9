package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mediai/backend/internal/model"
)

const userColumns = "id, email, full_name, user_type, specialization, phone_number, profile_image, is_active, created_at, updated_at"

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	var specialization, phoneNumber, profileImage sql.NullString
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.UserType,
		&specialization, &phoneNumber, &profileImage,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Specialization = nullableString(specialization)
	user.PhoneNumber = nullableString(phoneNumber)
	user.ProfileImage = nullableString(profileImage)
	return &user, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func (r *sqliteUserRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *sqliteUserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *sqliteUserRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?", active, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteUserRepository) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error) {
	query := "UPDATE users SET full_name = ?, phone_number = ?, specialization = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, update.FullName, update.PhoneNumber, update.Specialization, time.Now().UTC(), userID)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.GetUser(ctx, userID)
}

func (r *sqliteUserRepository) ListTextbooks(ctx context.Context) ([]model.Textbook, error) {
	query := `
		SELECT t.id, t.title, t.filename, t.file_size, t.upload_date, t.is_processed, t.processed_at,
		       u.full_name
		FROM textbooks t
		LEFT JOIN users u ON t.uploaded_by = u.id
		ORDER BY t.upload_date DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	textbooks := []model.Textbook{}
	for rows.Next() {
		var tb model.Textbook
		var processedAt sql.NullTime
		var uploadedBy sql.NullString
		if err := rows.Scan(&tb.ID, &tb.Title, &tb.Filename, &tb.FileSize, &tb.UploadDate, &tb.IsProcessed, &processedAt, &uploadedBy); err != nil {
			return nil, err
		}
		if processedAt.Valid {
			tb.ProcessedAt = &processedAt.Time
		}
		tb.UploadedByName = nullableString(uploadedBy)
		textbooks = append(textbooks, tb)
	}
	return textbooks, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
