package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/http/response"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/requestdata"
	"github.com/fesoni/tastematch-backend/internal/services"
)

type ProductHandler struct {
	taste    services.TasteMapper
	products services.ProductService
}

func NewProductHandler(taste services.TasteMapper, products services.ProductService) *ProductHandler {
	return &ProductHandler{taste: taste, products: products}
}

type searchProductsReq struct {
	SearchQuery     string                `json:"search_query"`
	CulturalContext domain.CulturalSignal `json:"cultural_context"`
}

// POST /api/products/search
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req searchProductsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.SearchQuery = strings.TrimSpace(req.SearchQuery)
	signal := req.CulturalContext
	signal.Normalize()
	if req.SearchQuery == "" && len(services.ExtractSearchKeywords(signal, domain.TasteMapping{})) == 0 {
		response.RespondError(c, http.StatusBadRequest, "empty_search", nil)
		return
	}

	mapping := h.taste.MapSignalToProducts(c.Request.Context(), signal)
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	products := h.products.SearchDirect(dbc, rd.UserID, req.SearchQuery, signal, mapping)

	response.RespondOK(c, gin.H{
		"success":   true,
		"query":     req.SearchQuery,
		"qloo_data": mapping,
		"products":  products,
	})
}

// GET /api/products/searches?limit=50
func (h *ProductHandler) ListSearchHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	limit := 50
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	searches, err := h.products.ListSearchHistory(dbc, rd.UserID, limit)
	if err != nil {
		respondServiceError(c, "list_searches_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "searches": searches})
}

// GET /api/products/searches/:id/recommendations
func (h *ProductHandler) ListRecommendations(c *gin.Context) {
	searchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_search_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	recommendations, err := h.products.ListRecommendations(dbc, searchID)
	if err != nil {
		respondServiceError(c, "list_recommendations_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "recommendations": recommendations})
}
