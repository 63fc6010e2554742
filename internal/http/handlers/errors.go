package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fesoni/tastematch-backend/internal/http/response"
	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
)

// respondServiceError maps service-layer sentinel errors onto HTTP
// status codes; anything unrecognized is a 500.
func respondServiceError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, code, err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, code, err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, code, err)
	default:
		response.RespondError(c, http.StatusInternalServerError, code, err)
	}
}
