package nakama

import (
	"encoding/json"
	"fmt"

	"dominoscore/internal/app"

	"github.com/mitchellh/mapstructure"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// toStruct converts a JSON-tagged value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// encodePayload marshals v as a binary google.protobuf.Struct.
func encodePayload(v any) ([]byte, error) {
	s, err := toStruct(v)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

type targetArgs struct {
	Score string `mapstructure:"score"`
}

type startArgs struct {
	Players []string `mapstructure:"players"`
}

type roundArgs struct {
	Scores map[string]string `mapstructure:"scores"`
}

// decodeAction turns a client message into a table verb. Message bodies are
// JSON objects; score fields may be numbers or numeric strings.
func decodeAction(opCode int64, data []byte) (app.Action, error) {
	var body map[string]interface{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("invalid payload: %w", err)
		}
	}

	switch opCode {
	case OpSetTargetScore:
		var args targetArgs
		if err := mapstructure.WeakDecode(body, &args); err != nil {
			return nil, err
		}
		return app.SetTargetScore{Score: app.ParseTargetScore(args.Score)}, nil
	case OpStartMatch:
		var args startArgs
		if err := mapstructure.Decode(body, &args); err != nil {
			return nil, err
		}
		var players [app.PlayersPerMatch]string
		copy(players[:], args.Players)
		return app.StartMatch{Players: players}, nil
	case OpAddRound:
		var args roundArgs
		if err := mapstructure.WeakDecode(body, &args); err != nil {
			return nil, err
		}
		scores := make(map[string]int, len(args.Scores))
		for teamID, raw := range args.Scores {
			scores[teamID] = app.ParseScore(raw)
		}
		return app.AddRound{Scores: scores}, nil
	case OpConfirmPenalty:
		return app.ConfirmPenalty{}, nil
	case OpNewMatch:
		return app.NewMatch{}, nil
	case OpResetTable:
		return app.ResetTable{}, nil
	case OpClearHistory:
		return app.ClearHistory{}, nil
	default:
		return nil, fmt.Errorf("unknown opcode %d", opCode)
	}
}
