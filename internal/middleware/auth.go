package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/roomdraw/internal/auth"
	"github.com/mmynk/roomdraw/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// StudentIDKey is the context key for the calling student's ID.
	StudentIDKey contextKey = "student_id"
	// RoleKey is the context key for the calling student's role.
	RoleKey contextKey = "role"
)

// GetStudentID extracts the caller's student ID from the context.
// Returns empty string if not found.
func GetStudentID(ctx context.Context) string {
	studentID, _ := ctx.Value(StudentIDKey).(string)
	return studentID
}

// GetRole extracts the caller's role from the context.
func GetRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(RoleKey).(models.Role)
	return role
}

// IsAdmin reports whether the caller is an administrator.
func IsAdmin(ctx context.Context) bool {
	return GetRole(ctx) == models.RoleAdmin
}

// WithCaller returns a context carrying the given caller.
func WithCaller(ctx context.Context, studentID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, StudentIDKey, studentID)
	return context.WithValue(ctx, RoleKey, role)
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// It extracts the token from the Authorization header, validates it, and adds
// the student ID and role to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			// Extract Authorization header
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithCaller(ctx, claims.StudentID, claims.Role), req)
		}
	}
}
