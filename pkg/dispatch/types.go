// Package dispatch implements the Async Call Dispatcher: typed method-call
// dispatch over the current session, reply matching by method name, and
// timeout/disconnection handling.
//
// Grounded on the teacher's pkg/mcp/executor.go (typed, per-call dispatch
// with bounded context) and pkg/mcp/recovery.go (classifying a failure into
// a bounded set of recovery/report actions instead of ad-hoc error strings).
package dispatch

import "github.com/codeready-toolchain/lsf-controller/pkg/lsftypes"

// Status is the immediate result of Dispatch — it says whether the call was
// submitted, not whether it eventually succeeded.
type Status int

const (
	StatusOK Status = iota
	StatusNotConnected
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotConnected:
		return "NOT_CONNECTED"
	case StatusFailure:
		return "FAILURE"
	default:
		return "FAILURE"
	}
}

// ReplyShape selects which typed decoder interprets a method's return
// payload. This is a closed set, per spec.md §4.2.
type ReplyShape int

const (
	ShapeIDList ReplyShape = iota
	ShapeIDName
	ShapeIDLangName
	ShapeID
	ShapeIDTracking
	ShapeU32
	ShapeCustom
)

// IDListReply is the {response_code, list<id>} shape.
type IDListReply struct {
	Code lsftypes.LSFResponseCode
	IDs  []string
}

// IDNameReply is the {response_code, id, name} shape.
type IDNameReply struct {
	Code lsftypes.LSFResponseCode
	ID   string
	Name string
}

// IDLangNameReply is the {response_code, id, language, name} shape.
type IDLangNameReply struct {
	Code     lsftypes.LSFResponseCode
	ID       string
	Language string
	Name     string
}

// IDReply is the {response_code, id} shape.
type IDReply struct {
	Code lsftypes.LSFResponseCode
	ID   string
}

// IDTrackingReply is the {response_code, id, tracking_id} shape.
type IDTrackingReply struct {
	Code       lsftypes.LSFResponseCode
	ID         string
	TrackingID string
}

// U32Reply is the {u32_value} shape.
type U32Reply struct {
	Value uint32
}

// CustomDecodeFunc decodes a free-form reply payload for methods that don't
// fit one of the fixed shapes.
type CustomDecodeFunc func(payload map[string]any) (any, error)

// ReplyHandler receives the decoded reply for one method. Registered once
// per method name, matching the wire-compatible name-keyed design called
// out in spec.md §9.
type ReplyHandler func(result any)

// ErrorCode enumerates the transport-error identifiers surfaced to
// ControllerClientError.
type ErrorCode string

const (
	ErrCodeMethodCallTimeout ErrorCode = "ALLJOYN_METHOD_CALL_TIMEOUT"
	ErrCodeRegistrationFailed ErrorCode = "ALLJOYN_ANNOUNCE_REGISTRATION_FAILED"
)

// ControllerClientError is the transport-error surface described in
// spec.md §7.2. It is never fatal to the dispatcher itself; the embedding
// application decides whether to retry.
type ControllerClientError struct {
	ErrorCodeList []ErrorCode
}

// ErrorHandler receives every ControllerClientError the dispatcher emits.
type ErrorHandler func(ControllerClientError)
