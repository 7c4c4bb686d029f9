package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediai/backend/internal/auth"
	"mediai/backend/internal/interfaces"
	"mediai/backend/internal/stream"
)

// ChatHandler serves conversations, the authenticated chat relay and the
// public chat.
type ChatHandler struct {
	chat    interfaces.ChatService
	emitter *stream.Emitter
}

func NewChatHandler(chat interfaces.ChatService, emitter *stream.Emitter) *ChatHandler {
	return &ChatHandler{chat: chat, emitter: emitter}
}

// ListConversations handles GET /api/chat/conversations.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.chat.ListConversations(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

// CreateConversation handles POST /api/chat/conversations. The body is optional.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if r.ContentLength != 0 {
		if err := decodeAndValidate(w, r, &req); err != nil {
			respondWithError(w, r, err)
			return
		}
	}

	conv, err := h.chat.CreateConversation(r.Context(), auth.UserID(r.Context()), req.Title)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"conversation": conv})
}

// GetMessages handles GET /api/chat/conversations/{conversationID}/messages.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	msgs, err := h.chat.GetMessages(r.Context(), auth.UserID(r.Context()), conversationID)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// SendMessage handles POST /api/chat/conversations/{conversationID}/messages.
// The exchange is committed before the first byte of the reply is streamed;
// a broken stream does not undo it.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req SendMessageRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	exchange, err := h.chat.SendMessage(r.Context(), auth.UserID(r.Context()), conversationID, req.Message)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	w.Header().Set("X-Conversation-Id", conversationID)
	w.Header().Set("X-Message-Id", exchange.AssistantMessage.ID)
	respondWithStream(r.Context(), w, h.emitter, exchange.AssistantMessage.Body)
}

// PublicChat handles POST /api/chat/public for anonymous visitors.
func (h *ChatHandler) PublicChat(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	reply, err := h.chat.PublicReply(r.Context(), ClientID(r), req.Message)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithStream(r.Context(), w, h.emitter, reply)
}
