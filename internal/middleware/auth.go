package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/logger"
	usermodel "github.com/tasknest/tasknest/internal/models/user"
	"github.com/tasknest/tasknest/internal/storage"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware gates authenticated routes: it validates the bearer
// token and re-resolves the user on every request, so a deleted
// account is rejected even while its token is still within expiry.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      storage.UserStore
	log        *logger.Logger
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users storage.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
		log:        logger.New("auth-middleware"),
	}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeMessage(w, http.StatusUnauthorized, "Access token required")
			return
		}

		token := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = authHeader[7:]
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := m.users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			m.log.Error("Failed to resolve user %d: %v", claims.UserID, err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}
		if user == nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFrom returns the user resolved by RequireAuth, or nil on routes
// that never passed through it.
func UserFrom(ctx context.Context) *usermodel.User {
	if user, ok := ctx.Value(userKey).(*usermodel.User); ok {
		return user
	}
	return nil
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
