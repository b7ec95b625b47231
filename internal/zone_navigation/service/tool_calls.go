package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

type doorArgs struct {
	DoorID *int `json:"door_id"`
}

type markZoneArgs struct {
	ZoneID *int   `json:"zone_id"`
	Status string `json:"status"`
}

// ApplyToolCall executes one agent tool call. When the call carries the caller's
// location the result includes the re-planned route to the nearest exit.
func (s *NavigationService) ApplyToolCall(ctx context.Context, call domain.ToolCall) (*domain.ToolResult, error) {
	var res *domain.ToolResult
	var err error
	if call.Location != nil && !s.graph.HasZone(*call.Location) {
		err = &domain.UnknownZoneError{ID: *call.Location}
	} else {
		res, err = s.applyToolCall(ctx, call)
	}
	if err != nil {
		tool := call.Name
		if !domain.KnownTool(tool) {
			tool = "unknown"
		}
		s.metrics.RecordToolCall(tool, "error")
		return nil, err
	}
	s.metrics.RecordToolCall(call.Name, "ok")

	if call.Location != nil {
		route, err := s.Route(ctx, *call.Location, nil)
		if err != nil {
			return nil, err
		}
		res.Route = &route
	}
	return res, nil
}

func (s *NavigationService) applyToolCall(ctx context.Context, call domain.ToolCall) (*domain.ToolResult, error) {
	switch call.Name {
	case domain.ToolOpenDoor, domain.ToolCloseDoor:
		var args doorArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return nil, err
		}
		if args.DoorID == nil {
			return nil, fmt.Errorf("%w: door_id is required", ErrInvalidArguments)
		}
		st := domain.StatusOpen
		if call.Name == domain.ToolCloseDoor {
			st = domain.StatusClosed
		}
		door, err := s.SetDoorStatus(ctx, domain.DoorID(*args.DoorID), st, domain.SourceAgent)
		if err != nil {
			return nil, err
		}
		return &domain.ToolResult{Tool: call.Name, Applied: true, Door: &door}, nil

	case domain.ToolMarkZone:
		var args markZoneArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return nil, err
		}
		if args.ZoneID == nil {
			return nil, fmt.Errorf("%w: zone_id is required", ErrInvalidArguments)
		}
		c, err := domain.ParseClassification(args.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		zone, err := s.MarkZone(ctx, domain.ZoneID(*args.ZoneID), c, domain.SourceAgent)
		if err != nil {
			return nil, err
		}
		return &domain.ToolResult{Tool: call.Name, Applied: true, Zone: &zone}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing arguments", ErrInvalidArguments)
	}
	// some agents send the arguments object as a JSON string
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		raw = json.RawMessage(s)
	}
	if err := unmarshalLenient(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// unmarshalLenient retries once through jsonrepair when the model emitted
// malformed JSON (single quotes, trailing commas, unquoted keys).
func unmarshalLenient(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}
	fixed, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return err
	}
	return json.Unmarshal([]byte(fixed), v)
}
