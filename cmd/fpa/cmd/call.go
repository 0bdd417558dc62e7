package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/LVRodrigues/fpa-management/interceptor"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCallCommand(opts *rootOptions) *cobra.Command {
	var method, data string

	callCmd := &cobra.Command{
		Use:   "call <url>",
		Short: "Send a request to the API with the stored access token",
		Long:  "Send a request to the API with the stored access token. A path is resolved against $API_URL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}

			target, err := resolveURL(a.config.GetAPIBaseURL(), args[0])
			if err != nil {
				return err
			}

			if refreshed, err := a.auth.EnsureFresh(cmd.Context(), a.config.GetRefreshLeeway()); err != nil {
				log.Warn().Err(err).Msg("Token refresh failed, sending the current token")
			} else if refreshed {
				log.Debug().Msg("Access token refreshed")
			}

			transport, err := interceptor.New(a.session.Tokens, nil, a.config.GetBearerURLPattern())
			if err != nil {
				return err
			}

			var body io.Reader
			if data != "" {
				body = strings.NewReader(data)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), strings.ToUpper(method), target, body)
			if err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}

			resp, err := transport.Client().Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			if resp.StatusCode >= http.StatusBadRequest {
				return fmt.Errorf("request failed: %s", resp.Status)
			}
			return nil
		},
	}

	callCmd.Flags().StringVarP(&method, "request", "X", http.MethodGet, "HTTP method")
	callCmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	return callCmd
}

// resolveURL keeps absolute URLs and resolves paths against base
func resolveURL(base, target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", target, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	baseURL, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid API url %q: %w", base, err)
	}
	return baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(ref.Path, "/"), RawQuery: ref.RawQuery}).String(), nil
}
