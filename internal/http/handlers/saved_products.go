package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fesoni/tastematch-backend/internal/http/response"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/services"
)

type SavedProductHandler struct {
	saved services.SavedProductService
}

func NewSavedProductHandler(saved services.SavedProductService) *SavedProductHandler {
	return &SavedProductHandler{saved: saved}
}

// POST /api/products/saved
func (h *SavedProductHandler) Save(c *gin.Context) {
	var req services.SaveProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	row, err := h.saved.Save(dbc, req)
	if err != nil {
		respondServiceError(c, "save_product_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "saved_product": row})
}

// GET /api/products/saved
func (h *SavedProductHandler) List(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	rows, err := h.saved.List(dbc)
	if err != nil {
		respondServiceError(c, "list_saved_products_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "saved_products": rows})
}

// DELETE /api/products/saved/:id
func (h *SavedProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_saved_product_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.saved.Delete(dbc, id); err != nil {
		respondServiceError(c, "delete_saved_product_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
