package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fesoni/tastematch-backend/internal/http/response"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/services"
)

type ChatHandler struct {
	chat services.ChatService
}

func NewChatHandler(chat services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendMessageReq struct {
	Message        string     `json:"message"`
	ConversationID *uuid.UUID `json:"conversation_id"`
	VoiceInput     bool       `json:"voice_input"`
}

// POST /api/chat/message
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	result, err := h.chat.ProcessMessage(dbc, req.Message, req.ConversationID, req.VoiceInput)
	if err != nil {
		respondServiceError(c, "process_message_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"success":          true,
		"conversation_id":  result.ConversationID,
		"message":          result.Message,
		"cultural_context": result.CulturalContext,
		"qloo_data":        result.QlooData,
		"products":         result.Products,
		"voice_input":      result.VoiceInput,
	})
}

// GET /api/chat/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	conversations, err := h.chat.ListConversations(dbc)
	if err != nil {
		respondServiceError(c, "list_conversations_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "conversations": conversations})
}

// GET /api/chat/conversations/:id
func (h *ChatHandler) GetConversationHistory(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	history, err := h.chat.GetConversationHistory(dbc, conversationID)
	if err != nil {
		respondServiceError(c, "conversation_not_found", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "conversation": history})
}

// DELETE /api/chat/conversations/:id
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.chat.DeleteConversation(dbc, conversationID); err != nil {
		respondServiceError(c, "delete_conversation_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/chat/preferences
func (h *ChatHandler) ListPreferences(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	preferences, err := h.chat.ListPreferences(dbc)
	if err != nil {
		respondServiceError(c, "list_preferences_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "preferences": preferences})
}
