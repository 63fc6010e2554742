package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
	"github.com/fesoni/tastematch-backend/internal/requestdata"
)

// AuthService validates bearer tokens minted by the identity provider
// and binds the authenticated user onto the request context. Token
// issuance lives with the identity provider, not here.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthService(baseLog *logger.Logger) (AuthService, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	return &authService{
		log:    baseLog.With("service", "AuthService"),
		secret: []byte(secret),
	}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ctx, pkgerrors.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return ctx, pkgerrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, pkgerrors.ErrUnauthorized
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}
