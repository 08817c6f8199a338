package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types
    "strings" // strings provides trimming helpers
    "time"    // time parses query parameters holding dates

    "github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the subject claim under this key; depending on
// how the claim was decoded it may arrive as several numeric types.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole returns the role stored in the context by the JWT middleware, or
// an empty string when absent.
func getRole(c echo.Context) string {
    if r, ok := c.Get("role").(string); ok {
        return strings.ToUpper(strings.TrimSpace(r))
    }
    return ""
}

// parseDateParam parses a required ?date=YYYY-MM-DD query parameter into a
// midnight UTC time.  The second return value is false when the parameter
// is missing or malformed.
func parseDateParam(c echo.Context) (time.Time, bool) {
    raw := strings.TrimSpace(c.QueryParam("date"))
    if raw == "" {
        return time.Time{}, false
    }
    day, err := time.Parse("2006-01-02", raw)
    if err != nil {
        return time.Time{}, false
    }
    return day, true
}
