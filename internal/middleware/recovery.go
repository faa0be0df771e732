package middleware

import (
	"net/http"
	"runtime/debug"

	"wishlane-api/pkg/apierror"

	"github.com/sirupsen/logrus"
)

// Recovery is a middleware that recovers from panics.
func Recovery(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(logrus.Fields{
						"panic": err,
						"path":  r.URL.Path,
					}).Errorf("recovered from panic\n%s", debug.Stack())

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write(apierror.Internal("internal server error").ToJSON())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
