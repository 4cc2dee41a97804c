package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/config"

	"github.com/rs/zerolog"
)

// httpAuth gates requests on a static API key header when enabled.
type httpAuth struct {
	cfg             config.APIAuthConfig
	clientsByAPIKey map[string]config.APIClientKey
	logger          *zerolog.Logger
}

func newHTTPAuth(cfg config.APIAuthConfig, logger *zerolog.Logger) *httpAuth {
	m := make(map[string]config.APIClientKey, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		m[k.Key] = k
	}
	return &httpAuth{cfg: cfg, clientsByAPIKey: m, logger: logger}
}

func (a *httpAuth) wrap(next http.Handler) http.Handler {
	if !a.cfg.Enabled || len(a.clientsByAPIKey) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get(a.cfg.HeaderAPIKey)
		client, ok := a.matches(presented)
		if presented == "" || !ok {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		a.logger.Debug().Str("client", client.Name).Str("path", r.URL.Path).Msg("api client authenticated")
		next.ServeHTTP(w, r)
	})
}

func (a *httpAuth) matches(presented string) (config.APIClientKey, bool) {
	for key, client := range a.clientsByAPIKey {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			return client, true
		}
	}
	return config.APIClientKey{}, false
}
