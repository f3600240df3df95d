package api

import (
	"net/http"

	"llmproxy-backend/internal/auth"
	"llmproxy-backend/internal/quota"
	"llmproxy-backend/pkg/httputil"

	"github.com/sirupsen/logrus"
)

// anonymousSubject keys quota counters on unauthenticated deployments,
// where no principal is available.
const anonymousSubject = "anonymous"

// --- Identity Middleware ---

// IdentityMiddleware verifies the bearer ID token from the Authorization
// header and injects the resulting Principal into the request context.
// A nil verifier means the deployment runs unauthenticated and every
// request passes through. The gate itself fails closed: any verifier
// failure denies, never admits.
func IdentityMiddleware(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, err := auth.ExtractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logrus.Debugf("Auth middleware: %v", err)
				httputil.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logrus.Debugf("Auth middleware: %v", err)
				httputil.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// --- Quota Middleware ---

// QuotaMiddleware consumes one unit of the caller's daily budget before
// letting the request through. The gate handles the nil-store and
// store-failure cases itself (fail-open); the only rejection surfacing
// here is an exhausted budget.
func QuotaMiddleware(gate *quota.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := anonymousSubject
			if principal, ok := auth.GetPrincipalFromContext(r.Context()); ok && principal.SubjectID != "" {
				subject = principal.SubjectID
			}

			if err := gate.Check(r.Context(), subject); err != nil {
				httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
