package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/LVRodrigues/fpa-management/auth"
	"github.com/LVRodrigues/fpa-management/claims"
	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/LVRodrigues/fpa-management/sessions"
	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/rs/zerolog/log"
)

// app is the CLI session: a token file in the data folder and the auth service bound to it
type app struct {
	config  config.Config
	session *sessions.Context
	auth    *auth.Service
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	c := config.New()

	folder := opts.folder
	if folder == "" {
		folder = c.GetDataFolder()
	}
	storage, err := tokenstore.NewFileStorage(filepath.Join(folder, tokenstore.FileName), c.GetTokenStoreSecret())
	if err != nil {
		return nil, fmt.Errorf("[cmd newApp] failed to open token file: %w", err)
	}

	extractor, err := claims.NewExtractor(ctx, c.GetVerifyTokens(), c.GetKeycloakIssuer(), c.GetKeycloakClientID())
	if err != nil {
		return nil, fmt.Errorf("[cmd newApp] failed to create token verifier: %w", err)
	}

	session := sessions.New(storage, SessionNamespace)
	nav := auth.NavigatorFunc(func(route string) {
		log.Debug().Str("route", route).Msg("Navigate")
	})
	svc, err := auth.NewService(auth.NewTokenClient(c, nil), session, nav, auth.WithExtractor(extractor))
	if err != nil {
		return nil, err
	}

	return &app{config: c, session: session, auth: svc}, nil
}
