// History HTTP handlers.
//
// This file exposes REST endpoints for generation history:
//   - GET    /chats             (list, paginated, date buckets, ETag support)
//   - POST   /chats             (start an empty session)
//   - GET    /chats/{id}        (load one session with messages and images)
//   - PUT    /chats/{id}/title  (rename a session)
//   - DELETE /chats/{id}        (delete one session)
//   - DELETE /chats             (clear all, guarded by confirm=true)
//
// Handlers are transport-thin: they validate input, call the history service,
// and translate results into HTTP responses, including conditional responses
// via weak ETags derived from row counts and the newest update timestamp.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sectionforge/go-section-backend/internal/repo"
	"github.com/sectionforge/go-section-backend/internal/services"
	"github.com/sectionforge/go-section-backend/internal/utils"
)

// userIDOrDemo returns the authenticated user id, or the demo identity for
// anonymous requests. History and credit reads stay usable without sign-in;
// only generation demands a real user.
func userIDOrDemo(c *gin.Context) string {
	if uid := userID(c); uid != "" {
		return uid
	}
	return "demo-user"
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListChatsResponse wraps a page of chat summaries and pagination info.
type ListChatsResponse struct {
	Chats      []services.ChatSummary `json:"chats"`
	Pagination Pagination             `json:"pagination"`
}

// ClearChatsResponse reports how many sessions a clear-all removed.
type ClearChatsResponse struct {
	Deleted int64 `json:"deleted" example:"4"`
}

// CreateChatRequest names a new session. An empty title gets the default.
type CreateChatRequest struct {
	Title string `json:"title" example:"Hero banner"`
}

// RenameChatRequest carries the new session title.
type RenameChatRequest struct {
	Title string `json:"title" binding:"required" example:"Hero banner v2"`
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// ListChats godoc
// @ID          listChats
// @Summary     List generation history (paginated)
// @Description Returns a page of the user's sessions, newest first, each labeled with a relative date bucket (Today, Yesterday, Previous 7 Days, Older). Supports weak ETag via If-None-Match and may return 304.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID"                      example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListChatsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [get]
func (h *Handlers) ListChats(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userIDOrDemo(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := repo.ChatsStats(ctx, h.db, uid); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"chats:%s:%d:%d"`, uid, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	offset, limit := utils.ClampPage(page, pageSize, 100)
	items, total, err := h.histSvc.ListPage(ctx, uid, offset, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListChatsResponse{
		Chats: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CreateChat godoc
// @ID          createChat
// @Summary     Start an empty session
// @Description Creates a new history session without generating anything, so a title can be chosen before the first upload.
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                       false "User ID" example(user123)
// @Param       request    body    handlers.CreateChatRequest   false "Session title"
//
// @Success     201  {object} domain.Chat
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [post]
func (h *Handlers) CreateChat(c *gin.Context) {
	var req CreateChatRequest
	// Body is optional; a missing or empty title falls back to the default.
	_ = c.ShouldBindJSON(&req)

	chat, err := h.histSvc.Create(c.Request.Context(), userIDOrDemo(c), req.Title)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, chat)
}

// RenameChat godoc
// @ID          renameChat
// @Summary     Rename a session
// @Description Replaces the title of a session the user owns.
// @Tags        History
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                       false "User ID"        example(user123)
// @Param       id         path    string                       true  "Chat ID (UUID)" format(uuid)
// @Param       request    body    handlers.RenameChatRequest   true  "New title"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats/{id}/title [put]
func (h *Handlers) RenameChat(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	var req RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
		return
	}

	err := h.histSvc.Rename(c.Request.Context(), userIDOrDemo(c), chatID, req.Title)
	switch {
	case errors.Is(err, services.ErrInvalidTitle):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title must not be empty")
	case errors.Is(err, services.ErrChatNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	default:
		noContent(c)
	}
}

// GetChat godoc
// @ID          getChat
// @Summary     Load one session
// @Description Returns a session with its messages (chronological) and uploaded images. Supports weak ETag via If-None-Match and may return 304.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID"                     example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       id             path    string  true  "Chat ID (UUID)"              format(uuid)
//
// @Success     200  {object} services.ChatDetail
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats/{id} [get]
func (h *Handlers) GetChat(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	ctx := c.Request.Context()
	uid := userIDOrDemo(c)

	if count, maxTS, err := repo.MessagesStats(ctx, h.db, chatID); err == nil && count > 0 {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"chat:%s:%d:%d"`, chatID, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	detail, err := h.histSvc.Get(ctx, uid, chatID)
	if err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, detail)
}

// DeleteChat godoc
// @ID          deleteChat
// @Summary     Delete one session
// @Description Removes a session the user owns, including its messages and images.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"          example(user123)
// @Param       id         path    string  true  "Chat ID (UUID)"   format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Chat not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats/{id} [delete]
func (h *Handlers) DeleteChat(c *gin.Context) {
	chatID := c.Param("id")
	if _, err := uuid.Parse(chatID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat id must be a UUID")
		return
	}

	if err := h.histSvc.Delete(c.Request.Context(), userIDOrDemo(c), chatID); err != nil {
		if errors.Is(err, services.ErrChatNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	noContent(c)
}

// ClearChats godoc
// @ID          clearChats
// @Summary     Clear all history
// @Description Removes every session the user owns. Irreversible, so the request must carry confirm=true.
// @Tags        History
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID"                example(user123)
// @Param       confirm    query   bool    true  "Must be true to proceed" example(true)
//
// @Success     200  {object} handlers.ClearChatsResponse
// @Failure     400  {object} handlers.ErrorResponse "Confirmation required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chats [delete]
func (h *Handlers) ClearChats(c *gin.Context) {
	if c.Query("confirm") != "true" {
		fail(c, http.StatusBadRequest, ErrCodeConfirmationRequired, "pass confirm=true to clear all history")
		return
	}

	deleted, err := h.histSvc.ClearAll(c.Request.Context(), userIDOrDemo(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ClearChatsResponse{Deleted: deleted})
}
