package dispatch

import (
	"fmt"

	"github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"
)

// decodeReply interprets a generic reply payload (the wire-shaped
// map[string]any a transport.MethodReply carries) according to reg's
// ReplyShape. Kept as a small closed set of decoders rather than one
// reflective decoder, matching the bounded reply-shape family in
// spec.md §4.2.
func decodeReply(shape ReplyShape, custom CustomDecodeFunc, payload map[string]any) (any, error) {
	switch shape {
	case ShapeIDList:
		return decodeIDList(payload)
	case ShapeIDName:
		return decodeIDName(payload)
	case ShapeIDLangName:
		return decodeIDLangName(payload)
	case ShapeID:
		return decodeID(payload)
	case ShapeIDTracking:
		return decodeIDTracking(payload)
	case ShapeU32:
		return decodeU32(payload)
	case ShapeCustom:
		if custom == nil {
			return nil, fmt.Errorf("dispatch: ShapeCustom requires a decode function")
		}
		return custom(payload)
	default:
		return nil, fmt.Errorf("dispatch: unknown reply shape %d", shape)
	}
}

func getCode(m map[string]any) lsftypes.LSFResponseCode {
	if v, ok := m["response_code"].(lsftypes.LSFResponseCode); ok {
		return v
	}
	return lsftypes.LSFOk
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getStringSlice(m map[string]any, key string) []string {
	if v, ok := m[key].([]string); ok {
		return v
	}
	return nil
}

func getU32(m map[string]any, key string) uint32 {
	if v, ok := m[key].(uint32); ok {
		return v
	}
	return 0
}

func decodeIDList(m map[string]any) (any, error) {
	return IDListReply{Code: getCode(m), IDs: getStringSlice(m, "ids")}, nil
}

func decodeIDName(m map[string]any) (any, error) {
	return IDNameReply{Code: getCode(m), ID: getString(m, "id"), Name: getString(m, "name")}, nil
}

func decodeIDLangName(m map[string]any) (any, error) {
	return IDLangNameReply{
		Code:     getCode(m),
		ID:       getString(m, "id"),
		Language: getString(m, "language"),
		Name:     getString(m, "name"),
	}, nil
}

func decodeID(m map[string]any) (any, error) {
	return IDReply{Code: getCode(m), ID: getString(m, "id")}, nil
}

func decodeIDTracking(m map[string]any) (any, error) {
	return IDTrackingReply{
		Code:       getCode(m),
		ID:         getString(m, "id"),
		TrackingID: getString(m, "tracking_id"),
	}, nil
}

func decodeU32(m map[string]any) (any, error) {
	return U32Reply{Value: getU32(m, "value")}, nil
}
