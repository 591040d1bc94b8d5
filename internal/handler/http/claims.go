package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// operatorFromRequest pulls the acting user's ID out of the verified token.
func operatorFromRequest(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}
