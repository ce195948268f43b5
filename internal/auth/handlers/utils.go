package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"crimecity-server/internal/shared/config"
)

// resolveRedirectURI validates a client-supplied redirect target against the
// configured frontend URL. Anything unknown falls back to the frontend root
// so login can never bounce to an arbitrary site.
func resolveRedirectURI(requested string) string {
	cfg := config.GlobalConfig

	if requested == cfg.Frontend.URL || strings.HasPrefix(requested, cfg.Frontend.URL+"/") {
		return requested
	}

	return cfg.Frontend.URL
}

// redirectWithError redirects to the frontend with error parameters.
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = config.GlobalConfig.Frontend.URL
	}

	errorURL := fmt.Sprintf("%s/auth/error?error=%s", redirectURI, errorType)
	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
