package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Env is the deployment configuration read from the runtime environment.
type Env struct {
	ConfigPath     string `mapstructure:"SCORE_CONFIG_PATH"`
	InviteSecret   string `mapstructure:"SCORE_INVITE_SECRET"`
	InviteIssuer   string `mapstructure:"SCORE_INVITE_ISSUER"`
	HistoryBackend string `mapstructure:"SCORE_HISTORY_BACKEND"`
	HistoryFile    string `mapstructure:"SCORE_HISTORY_FILE"`
	PostgresURL    string `mapstructure:"SCORE_POSTGRES_URL"`
	RedisURL       string `mapstructure:"SCORE_REDIS_URL"`
	OwnerID        string `mapstructure:"SCORE_OWNER_ID"`
	TargetScore    int    `mapstructure:"SCORE_TARGET_SCORE"`
}

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// DefaultEnv returns the values used for keys missing from the environment.
func DefaultEnv() Env {
	return Env{
		ConfigPath:     "data/game_config.json",
		InviteIssuer:   "dominoscore",
		HistoryBackend: BackendFile,
		HistoryFile:    "score_history.jsonl",
		OwnerID:        "local",
	}
}

// DecodeEnv overlays vars on the defaults. Values are strings in both the
// Nakama runtime env and the process env, so decoding is weakly typed.
func DecodeEnv(vars map[string]string) (Env, error) {
	env := DefaultEnv()
	input := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		if strings.TrimSpace(v) == "" {
			continue
		}
		input[k] = v
	}
	if err := mapstructure.WeakDecode(input, &env); err != nil {
		return Env{}, fmt.Errorf("failed to decode env: %w", err)
	}
	return env, nil
}

// ProcessEnv collects the SCORE_* variables of the current process.
func ProcessEnv() map[string]string {
	vars := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, "SCORE_") {
			vars[k] = v
		}
	}
	return vars
}

// Validate checks that the selected history backend is fully configured.
func (e Env) Validate() error {
	switch e.HistoryBackend {
	case BackendFile:
		if e.HistoryFile == "" {
			return errors.New("SCORE_HISTORY_FILE is required for the file backend")
		}
	case BackendPostgres:
		if e.PostgresURL == "" {
			return errors.New("SCORE_POSTGRES_URL is required for the postgres backend")
		}
	case BackendRedis:
		if e.RedisURL == "" {
			return errors.New("SCORE_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported history backend: %s", e.HistoryBackend)
	}
	return nil
}
