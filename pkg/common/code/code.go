package code

import (
	"errors"
	"fmt"
)

type ErrCode int

type codeErr struct {
	code ErrCode
	msg  string
	err  error
}

const Success ErrCode = 0

// 通用错误
const (
	UnDefineErr ErrCode = 10000 + iota
	ParamErr
	RecordNotFound
	QueryRecordErr
	CreateDataErr
	ConfigErr
)

// 外部依赖
const (
	RPCHttpErr ErrCode = 20000 + iota
	RPCHttpCodeErr
	RPCHttpCodeRespErr
	CacheErr
	StoreDisabled
)

// 化合物查询
const (
	CompoundNotFound ErrCode = 30000 + iota
	QueryInvalid
	NamespaceInvalid
	BatchEmptyErr
	LookupErr
)

var codeMsg = map[ErrCode]string{
	Success: "success",

	UnDefineErr:    "undefined error",
	ParamErr:       "parameter error",
	RecordNotFound: "record not found",
	QueryRecordErr: "query record error",
	CreateDataErr:  "create data error",
	ConfigErr:      "config error",

	RPCHttpErr:         "remote http request failed",
	RPCHttpCodeErr:     "remote http status error",
	RPCHttpCodeRespErr: "remote response decode error",
	CacheErr:           "cache error",
	StoreDisabled:      "lookup store is disabled",

	CompoundNotFound: "compound not found",
	QueryInvalid:     "invalid query",
	NamespaceInvalid: "unsupported namespace",
	BatchEmptyErr:    "batch is empty",
	LookupErr:        "compound lookup failed",
}

func (c ErrCode) Int() int {
	return int(c)
}

func (c ErrCode) String() string {
	if msg, ok := codeMsg[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

func (c ErrCode) Error() string {
	return c.String()
}

func (c ErrCode) WithErr(err error) error {
	return &codeErr{code: c, err: err}
}

func (c ErrCode) WithMsg(msg string) error {
	return &codeErr{code: c, msg: msg}
}

func (c ErrCode) WithMsgf(format string, args ...any) error {
	return &codeErr{code: c, msg: fmt.Sprintf(format, args...)}
}

func (e *codeErr) Error() string {
	base := e.code.String()
	if e.msg != "" {
		base = fmt.Sprintf("%s: %s", base, e.msg)
	}
	if e.err != nil {
		base = fmt.Sprintf("%s: %v", base, e.err)
	}
	return base
}

func (e *codeErr) Unwrap() error {
	return e.err
}

// Is lets errors.Is(err, code.X) match a wrapped code.
func (e *codeErr) Is(target error) bool {
	c, ok := target.(ErrCode)
	return ok && c == e.code
}

// Code returns the ErrCode carried by err, UnDefineErr when there is none.
func Code(err error) ErrCode {
	if err == nil {
		return Success
	}

	var ce *codeErr
	if errors.As(err, &ce) {
		return ce.code
	}

	var c ErrCode
	if errors.As(err, &c) {
		return c
	}

	return UnDefineErr
}

// Msg returns the caller-facing detail of err without the code prefix.
func Msg(err error) string {
	var ce *codeErr
	if errors.As(err, &ce) {
		if ce.msg != "" {
			return ce.msg
		}
		if ce.err != nil {
			return ce.err.Error()
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
