package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"leaseline/internal/app"
)

type AuthConfig struct {
	JWTSecret string
}

type jwtClaims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenantId,omitempty"`
}

func authenticateJWT(token, secret string) (jwtClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return jwtClaims{}, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwtClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return jwtClaims{}, err
	}
	if !parsed.Valid {
		return jwtClaims{}, errors.New("invalid token")
	}
	if claims.TenantID == "" {
		return jwtClaims{}, errors.New("tenantId claim required")
	}
	return *claims, nil
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// newAuthMiddleware authenticates every API request and builds the dispatch
// context: tenant and user from the token, correlation ids from the headers.
// The verified bearer token is carried forward for downstream calls.
func newAuthMiddleware(basePath string, cfg AuthConfig) func(http.Handler) http.Handler {
	healthPath := path.Join(basePath, "health")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if basePath != "" && !strings.HasPrefix(req.URL.Path, basePath) {
				next.ServeHTTP(w, req)
				return
			}
			if req.URL.Path == healthPath {
				next.ServeHTTP(w, req)
				return
			}

			authz := strings.TrimSpace(req.Header.Get("Authorization"))
			token, ok := bearerToken(authz)
			if !ok {
				respondStatusError(w, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
				return
			}
			claims, err := authenticateJWT(token, cfg.JWTSecret)
			if err != nil {
				respondStatusError(w, newAPIError(http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil))
				return
			}

			requestID := strings.TrimSpace(req.Header.Get("X-Request-Id"))
			if requestID == "" {
				requestID = uuid.New().String()
			}
			var originals []string
			if v := strings.TrimSpace(req.Header.Get("X-Original-Request-Ids")); v != "" {
				originals = strings.Split(v, ",")
			}
			ctx := app.WithRequest(req.Context(), app.Request{
				TenantID:           claims.TenantID,
				UserID:             claims.Subject,
				Token:              token,
				RequestID:          requestID,
				OriginalRequestIDs: originals,
				DocumentVersion:    strings.TrimSpace(req.Header.Get("X-Document-Version")),
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func respondStatusError(w http.ResponseWriter, err huma.StatusError) {
	status := http.StatusInternalServerError
	if e, ok := err.(interface{ GetStatus() int }); ok {
		status = e.GetStatus()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(err)
}
