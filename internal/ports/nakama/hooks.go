package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dominoscore/internal/app/onboarding"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// sessionUserClaim is the Nakama session token claim holding the user id.
const sessionUserClaim = "uid"

// AfterAuthenticateDevice onboards accounts created by device authentication:
// a scorekeeper display name and an empty score archive.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}

	userID, err := sessionUserID(ctx, out.Token)
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Cannot resolve new user: %v", err)
		return err
	}
	logger.Info("AfterAuthenticateDevice: Onboarding scorekeeper %s", userID)

	svc := onboarding.NewService(NewNakamaAccountAdapter(nk), NewNakamaHistoryAdapter(nk), nil)
	result, err := svc.OnboardNewUser(ctx, userID)
	if result.ProfileUpdateErr != nil {
		logger.Warn("AfterAuthenticateDevice: Display name not set for %s: %v", userID, result.ProfileUpdateErr)
	}
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Archive seed failed for %s: %v", userID, err)
		return err
	}
	if !result.ArchiveSeeded {
		logger.Info("AfterAuthenticateDevice: %s already has a score archive", userID)
	}
	return nil
}

// sessionUserID prefers the user id Nakama put in the context and falls back
// to the uid claim of the freshly issued session token. The token comes from
// Nakama itself, so its signature is not checked here.
func sessionUserID(ctx context.Context, token string) (string, error) {
	if userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); ok && userID != "" {
		return userID, nil
	}
	return extractUserIDFromToken(token)
}

func extractUserIDFromToken(token string) (string, error) {
	if token == "" {
		return "", errors.New("session token is empty")
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse session token: %w", err)
	}
	uid, ok := claims[sessionUserClaim].(string)
	if !ok || uid == "" {
		return "", fmt.Errorf("session token has no %s claim", sessionUserClaim)
	}
	return uid, nil
}
