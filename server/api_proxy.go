package server

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/LVRodrigues/fpa-management/interceptor"
	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/rs/zerolog/log"
)

// newAPIProxy forwards /api/* to the API base URL through the auth interceptor,
// which reads the access token of the session on the request context
func (s *Server) newAPIProxy() (http.Handler, error) {
	target, err := url.Parse(s.config.GetAPIBaseURL())
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, errors.Wrapf(errors.Join(errors.ErrInternal, err), "[Server newAPIProxy] invalid API URL %q", s.config.GetAPIBaseURL())
	}

	transport, err := interceptor.New(interceptor.SessionTokens, s.apiBase, s.config.GetBearerURLPattern())
	if err != nil {
		return nil, err
	}

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.URL.Path = strings.TrimSuffix(target.Path, "/") + strings.TrimPrefix(r.In.URL.Path, strings.TrimSuffix(RouteAPI, "/"))
			r.Out.URL.RawPath = ""
			r.SetXForwarded()
			// Browser cookies belong to this front-end only
			r.Out.Header.Del("Cookie")
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Err(err).Str("path", r.URL.Path).Msg("API request failed")
			http.Error(w, "502 - Bad Gateway", http.StatusBadGateway)
		},
	}, nil
}
