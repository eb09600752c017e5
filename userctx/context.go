package userctx

import "context"

// Context key type
type contextKey string

const (
	userEmailKey     contextKey = "user_email"
	UserIDKey        contextKey = "user_id"
	originAddressKey contextKey = "origin_address"
	sessionTokenKey  contextKey = "session_token"
)

// SetUserEmail adds the admin email to the request context
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// GetUserEmail retrieves the admin email from the request context
func GetUserEmail(ctx context.Context) string {
	email, ok := ctx.Value(userEmailKey).(string)
	if !ok || email == "" {
		return "anonymous"
	}
	return email
}

// LookupUserEmail returns the admin email and whether one was set.
func LookupUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok && email != ""
}

// SetUserID adds user ID to request context
func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

// GetUserID retrieves user ID from request context
func GetUserID(ctx context.Context) string {
	if userID := ctx.Value(UserIDKey); userID != nil {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// SetOriginAddress records the client address of the request.
func SetOriginAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, originAddressKey, addr)
}

func GetOriginAddress(ctx context.Context) string {
	addr, _ := ctx.Value(originAddressKey).(string)
	return addr
}

func SetSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey, token)
}

func GetSessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey).(string)
	return token
}
