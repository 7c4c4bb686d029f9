package model

import (
	"strings"
	"time"
)

// DefaultConversationTitle is used until the first message renames a conversation.
const DefaultConversationTitle = "New Chat"

// Conversation stores metadata about a user-owned chat thread.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message stores a single message in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Body           string    `json:"message"`
	IsUserMessage  bool      `json:"is_user_message"`
	CreatedAt      time.Time `json:"created_at"`
}

// Exchange is one human message together with the assistant reply stored for it.
type Exchange struct {
	UserMessage      Message `json:"user_message"`
	AssistantMessage Message `json:"assistant_message"`
	// Title is the conversation title after the exchange was committed.
	Title string `json:"title"`
}

// User types recognised by the application. Only admins reach the admin routes.
const (
	UserTypeMedicalStudent = "medical-student"
	UserTypeResident       = "resident"
	UserTypePhysician      = "physician"
	UserTypeNurse          = "nurse"
	UserTypeOther          = "other"
	UserTypeAdmin          = "admin"
)

// User is an account as exposed over the API. The password hash never leaves
// the database layer.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	UserType       string    `json:"user_type"`
	Specialization *string   `json:"specialization"`
	PhoneNumber    *string   `json:"phone_number"`
	ProfileImage   *string   `json:"profile_image"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may use the admin dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.UserType == UserTypeAdmin
}

// ProfileUpdate carries the editable profile fields. Nil optional fields are
// stored as NULL.
type ProfileUpdate struct {
	FullName       string
	PhoneNumber    *string
	Specialization *string
}

// Textbook is an uploaded reference document listed on the admin dashboard.
type Textbook struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Filename       string     `json:"filename"`
	FileSize       int64      `json:"file_size"`
	UploadDate     time.Time  `json:"upload_date"`
	IsProcessed    bool       `json:"is_processed"`
	ProcessedAt    *time.Time `json:"processed_at"`
	UploadedByName *string    `json:"uploaded_by_name"`
}

// TitleMaxRunes is the number of characters of the first message kept as the
// conversation title.
const TitleMaxRunes = 50

// TitleFromMessage derives a conversation title from its first message: the
// trimmed body cut to TitleMaxRunes characters, with "..." appended when it
// was cut.
func TitleFromMessage(body string) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= TitleMaxRunes {
		return string(runes)
	}
	return string(runes[:TitleMaxRunes]) + "..."
}
