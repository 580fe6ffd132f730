package middleware

import (
	"net/http"

	"github.com/garrettladley/ksclock/internal/version"
	"github.com/garrettladley/ksclock/internal/xhttp"
	"github.com/garrettladley/ksclock/internal/xslog"
)

const errorCodeIncompatibleVersion = "incompatible_version"

// VersionCheck rejects clients whose major version differs from the companion's.
func VersionCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientVersion := r.Header.Get(version.Header)
		if clientVersion == "" {
			clientVersion = "unknown"
		}

		if verr := version.CheckCompatibility(clientVersion); verr != nil {
			xslog.FromContext(r.Context()).WarnContext(
				r.Context(),
				"client version incompatible",
				xslog.ClientVersion(verr.ClientVersion),
				xslog.Version(),
				xslog.RequestPath(r),
			)

			xhttp.WriteJSON(w, http.StatusUpgradeRequired, map[string]string{
				"error":   errorCodeIncompatibleVersion,
				"message": verr.Error(),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
