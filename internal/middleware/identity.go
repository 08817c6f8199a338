package middleware

// identity.go defines helper functions shared across middleware files. It
// provides user identification for rate-limit keying: the JWT middleware
// stores the subject claim under "user_id", but depending on how the claim
// was decoded it may be a string or a numeric type. Unauthenticated
// requests are keyed as "anon".

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a stable string identifier for the authenticated
// user, or "anon" when no user is present in the context.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case uint64:
        return strconv.FormatUint(v, 10)
    case int64:
        return strconv.FormatInt(v, 10)
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    }
    return "anon"
}
