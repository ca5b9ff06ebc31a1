package auth

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// SessionRefresh re-issues the auth cookie once a session is past half
// of its duration, so an active staff session never expires mid-shift.
// Authorization itself happens in Authorize; requests without a valid
// cookie pass through untouched.
func (h *AuthHandler) SessionRefresh(ctx huma.Context, next func(huma.Context)) {
	if cookie, err := huma.ReadCookie(ctx, "auth_token"); err == nil {
		if userID, claims, err := h.parseToken(cookie.Value); err == nil {
			if exp, ok := claims["exp"].(float64); ok {
				remaining := time.Until(time.Unix(int64(exp), 0))
				if remaining < TokenDuration/2 {
					if fresh, err := h.GenerateToken(userID); err == nil {
						renewed := http.Cookie{
							Name:     "auth_token",
							Value:    fresh,
							Expires:  time.Now().Add(TokenDuration),
							HttpOnly: true,
							Path:     "/",
						}
						ctx.AppendHeader("Set-Cookie", renewed.String())
					}
				}
			}
		}
	}
	next(ctx)
}
