package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

const inviteTokenAction = "table_join"

var ErrInvalidInvite = errors.New("invalid table invite")

// InviteService signs and checks the tokens that let spectators and
// co-scorers into a table owned by someone else.
type InviteService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	return &InviteService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a token granting access to tableID, signed on behalf of ownerID.
func (s *InviteService) Issue(tableID, ownerID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if tableID == "" || ownerID == "" {
		return "", fmt.Errorf("table and owner are required")
	}
	if s.secret == "" || s.issuer == "" || s.ttl <= 0 {
		return "", fmt.Errorf("invite config is incomplete")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": ownerID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"act": inviteTokenAction,
		"tbl": tableID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks that token was issued by this server for tableID and has not
// expired. It returns the owner that issued it.
func (s *InviteService) Verify(tokenString, tableID string) (string, error) {
	if s == nil || s.secret == "" {
		return "", ErrInvalidInvite
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidInvite
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: wrong issuer", ErrInvalidInvite)
	}
	if act, _ := claims["act"].(string); act != inviteTokenAction {
		return "", fmt.Errorf("%w: wrong action", ErrInvalidInvite)
	}
	if tbl, _ := claims["tbl"].(string); tbl != tableID {
		return "", fmt.Errorf("%w: issued for another table", ErrInvalidInvite)
	}
	owner, _ := claims["sub"].(string)
	return owner, nil
}
