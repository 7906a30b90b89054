package code

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrCode int

// Category groups codes by how a caller should react to them.
type Category int

const (
	Internal Category = iota
	BadRequest
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

const (
	Success ErrCode = 0

	UnDefineErr ErrCode = 1000 + iota
	ParamErr
	UnLogin
	LoginFormatErr
	InvalidToken
	PermissionDenied
	RecordNotFound
	QueryRecordErr
	CreateDataErr
	UpdateDataErr
	DataConflict
	RPCHttpErr
	RPCHttpCodeErr
	NotifySendMsgErr
	NotifyActionAlreadyRegistryErr
	UnmarshalWSDataErr
)

const (
	OrderNotFound ErrCode = 2001 + iota
	OrderReagentConflict
	OrderReagentNotFound
	OrderExcludeNotFound
	OrderIncludeSubmittedErr
	OrderImmutableErr
	OrderPendingTransitionErr
	OrderSubmittedTransitionErr
	OrderSortParamErr
	OrderCreateErr
	OrderUpdateErr
)

const (
	ReagentRequestNotFound ErrCode = 3001 + iota
	ReagentRequestNotPending
	ReagentRequestCreateErr
	ReagentRequestUpdateErr
)

const (
	ReagentRequestNotFulfilled ErrCode = 4001 + iota
	ReagentCreateErr
	ReagentCASQueryErr
	ReagentCASNotFindErr
)

type meta struct {
	msg      string
	category Category
}

var codeMeta = map[ErrCode]meta{
	Success:                        {"success", Internal},
	UnDefineErr:                    {"undefined error", Internal},
	ParamErr:                       {"parameter error", BadRequest},
	UnLogin:                        {"not logged in", Unauthorized},
	LoginFormatErr:                 {"authorization header format error", Unauthorized},
	InvalidToken:                   {"invalid token", Unauthorized},
	PermissionDenied:               {"permission denied", Forbidden},
	RecordNotFound:                 {"record not found", NotFound},
	QueryRecordErr:                 {"query record error", Internal},
	CreateDataErr:                  {"create data error", Internal},
	UpdateDataErr:                  {"update data error", Internal},
	DataConflict:                   {"data conflict", Conflict},
	RPCHttpErr:                     {"rpc http request error", Internal},
	RPCHttpCodeErr:                 {"rpc http status error", Internal},
	NotifySendMsgErr:               {"notify send message error", Internal},
	NotifyActionAlreadyRegistryErr: {"notify action already registered", Internal},
	UnmarshalWSDataErr:             {"unmarshal websocket data error", BadRequest},

	OrderNotFound:               {"Order Not Found", NotFound},
	OrderReagentConflict:        {"reagent requests already ordered", Conflict},
	OrderReagentNotFound:        {"reagent requests not found", NotFound},
	OrderExcludeNotFound:        {"reagent requests not attached to order", NotFound},
	OrderIncludeSubmittedErr:    {"reagent request belongs to a submitted order", BadRequest},
	OrderImmutableErr:           {"order can't be edited", BadRequest},
	OrderPendingTransitionErr:   {"Pending orders can be changed only to Submitted status", BadRequest},
	OrderSubmittedTransitionErr: {"Order with status Submitted cannot be modified. You can only change its status to Fulfilled or Declined.", BadRequest},
	OrderSortParamErr:           {`Only one of "updatedAt", "createdAt", "titleOrder", or "sellerOrder" can be provided, or none.`, BadRequest},
	OrderCreateErr:              {"create order error", Internal},
	OrderUpdateErr:              {"update order error", Internal},

	ReagentRequestNotFound:   {"Reagent Request with this ID - NOT FOUND", NotFound},
	ReagentRequestNotPending: {"only Pending reagent requests can be edited by their owner", BadRequest},
	ReagentRequestCreateErr:  {"Failed to create a Reagent Request!", Internal},
	ReagentRequestUpdateErr:  {"Failed to edit a Reagent Request!", Internal},

	ReagentRequestNotFulfilled: {"Only from Fulfilled requests can be created reagents", BadRequest},
	ReagentCreateErr:           {"create reagent error", Internal},
	ReagentCASQueryErr:         {"query cas error", Internal},
	ReagentCASNotFindErr:       {"cas not found", NotFound},
}

func (c ErrCode) Error() string {
	return c.String()
}

func (c ErrCode) String() string {
	if m, ok := codeMeta[c]; ok {
		return m.msg
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

func (c ErrCode) Int() int {
	return int(c)
}

func (c ErrCode) Category() Category {
	if m, ok := codeMeta[c]; ok {
		return m.category
	}
	return Internal
}

func (c ErrCode) HTTPStatus() int {
	if c == Success {
		return http.StatusOK
	}
	switch c.Category() {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (c ErrCode) WithMsg(msg string) *Err {
	return &Err{code: c, msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) *Err {
	return &Err{code: c, msg: fmt.Sprintf(format, args...)}
}

func (c ErrCode) WithErr(err error) *Err {
	return &Err{code: c, err: err}
}

// WithDetails keeps one message per offending entity, e.g. one line per
// conflicting order. The message joins all of them.
func (c ErrCode) WithDetails(details ...string) *Err {
	return &Err{code: c, msg: strings.Join(details, "; "), details: details}
}

// Err carries a code plus the caller-facing message and an optional cause.
type Err struct {
	code    ErrCode
	msg     string
	details []string
	err     error
}

func (e *Err) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Msg(), e.err)
	}
	return e.Msg()
}

func (e *Err) Code() ErrCode {
	return e.code
}

func (e *Err) Msg() string {
	if e.msg != "" {
		return e.msg
	}
	return e.code.String()
}

func (e *Err) Details() []string {
	return e.details
}

func (e *Err) Unwrap() error {
	return e.err
}

func (e *Err) Is(target error) bool {
	c, ok := target.(ErrCode)
	return ok && c == e.code
}

// Parse returns the code, caller-facing message and details carried by err.
// Errors that carry no code are reported as UnDefineErr.
func Parse(err error) (ErrCode, string, []string) {
	if err == nil {
		return Success, "", nil
	}
	var e *Err
	if errors.As(err, &e) {
		return e.code, e.Msg(), e.details
	}
	var c ErrCode
	if errors.As(err, &c) {
		return c, c.String(), nil
	}
	return UnDefineErr, UnDefineErr.String(), nil
}

func CategoryOf(err error) Category {
	c, _, _ := Parse(err)
	return c.Category()
}
