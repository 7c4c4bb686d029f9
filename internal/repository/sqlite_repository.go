package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mediai/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	query := "INSERT INTO chat_conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, conv.ID, conv.UserID, conv.Title, conv.CreatedAt, conv.UpdatedAt)
	return err
}

func (r *sqliteRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	query := "SELECT id, user_id, title, created_at, updated_at FROM chat_conversations WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, conversationID)
	var conv model.Conversation
	err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *sqliteRepository) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	query := "SELECT id, user_id, title, created_at, updated_at FROM chat_conversations WHERE user_id = ? ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := []model.Conversation{}
	for rows.Next() {
		var conv model.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func (r *sqliteRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	query := `
		SELECT id, conversation_id, user_id, message, is_user_message, created_at
		FROM chat_messages
		WHERE conversation_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &msg.Body, &msg.IsUserMessage, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *sqliteRepository) AppendExchange(ctx context.Context, exchange *model.Exchange) error {
	conversationID := exchange.UserMessage.ConversationID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	// No-op once the transaction is committed.
	defer tx.Rollback()

	var previousUpdate time.Time
	err = tx.QueryRowContext(ctx, "SELECT updated_at FROM chat_conversations WHERE id = ?", conversationID).Scan(&previousUpdate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("could not read conversation: %w", err)
	}

	if err := insertMessage(ctx, tx, &exchange.UserMessage); err != nil {
		return fmt.Errorf("could not insert user message: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chat_messages WHERE conversation_id = ?", conversationID).Scan(&count)
	if err != nil {
		return fmt.Errorf("could not count messages: %w", err)
	}
	if count == 1 {
		title := model.TitleFromMessage(exchange.UserMessage.Body)
		if _, err := tx.ExecContext(ctx, "UPDATE chat_conversations SET title = ? WHERE id = ?", title, conversationID); err != nil {
			return fmt.Errorf("could not set conversation title: %w", err)
		}
	}

	if err := insertMessage(ctx, tx, &exchange.AssistantMessage); err != nil {
		return fmt.Errorf("could not insert assistant message: %w", err)
	}

	// updated_at must move forward even when the clock did not.
	touched := exchange.AssistantMessage.CreatedAt.UTC()
	if !touched.After(previousUpdate) {
		touched = previousUpdate.Add(time.Microsecond)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE chat_conversations SET updated_at = ? WHERE id = ?", touched, conversationID); err != nil {
		return fmt.Errorf("could not update conversation timestamp: %w", err)
	}

	var title string
	if err := tx.QueryRowContext(ctx, "SELECT title FROM chat_conversations WHERE id = ?", conversationID).Scan(&title); err != nil {
		return fmt.Errorf("could not read conversation title: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit exchange: %w", err)
	}
	exchange.Title = title
	return nil
}

func insertMessage(ctx context.Context, tx *sql.Tx, msg *model.Message) error {
	query := `
		INSERT INTO chat_messages (id, conversation_id, user_id, message, is_user_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query, msg.ID, msg.ConversationID, msg.UserID, msg.Body, msg.IsUserMessage, msg.CreatedAt)
	return err
}
