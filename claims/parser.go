package claims

import (
	"context"
	"strings"

	"github.com/LVRodrigues/fpa-management/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Parser decodes access tokens without checking their signature
type Parser struct {
	parser *jwt.Parser
}

var _ Extractor = (*Parser)(nil)

func NewParser() *Parser {
	return &Parser{parser: jwt.NewParser()}
}

func (p *Parser) Extract(_ context.Context, rawToken string) (*AccessClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "[claims Parser.Extract] empty token")
	}

	claims := &AccessClaims{}
	if _, _, err := p.parser.ParseUnverified(rawToken, claims); err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrInvalidToken, err), "[claims Parser.Extract] failed to decode token")
	}
	return claims, nil
}
