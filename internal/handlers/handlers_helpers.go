package handlers

import (
	"errors"
	"net/http"

	"llmproxy-backend/internal/providers"
	"llmproxy-backend/pkg/httputil"

	"github.com/sirupsen/logrus"
)

// respondProviderError maps a provider-layer failure onto the HTTP
// surface. Upstream failures are relayed verbatim; an unknown provider
// is the caller's mistake; a missing credential is ours.
func respondProviderError(w http.ResponseWriter, err error) {
	var upstreamErr *providers.UpstreamError
	if errors.As(err, &upstreamErr) {
		httputil.RespondUpstream(w, upstreamErr.StatusCode, upstreamErr.ContentType, upstreamErr.Body)
		return
	}

	var unknownErr *providers.UnknownProviderError
	if errors.As(err, &unknownErr) {
		httputil.RespondError(w, http.StatusBadRequest, unknownErr.Error())
		return
	}

	var credentialErr *providers.MissingCredentialError
	if errors.As(err, &credentialErr) {
		logrus.Errorf("Provider call failed: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, credentialErr.Error())
		return
	}

	logrus.Errorf("Provider call failed: %v", err)
	httputil.RespondError(w, http.StatusInternalServerError, err.Error())
}
