package xerrors

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb"
	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb_Issue"
)

type operationError struct {
	code   Ydb.StatusIds_StatusCode
	issues []*Ydb_Issue.IssueMessage
}

func (e *operationError) isYdbError() {}

func (e *operationError) Code() int32 {
	return int32(e.code)
}

func (e *operationError) Name() string {
	return "operation/" + e.code.String()
}

func (e *operationError) Error() string {
	var b bytes.Buffer
	b.WriteString("operation error: ")
	b.WriteString(e.code.String())
	for i, issue := range e.issues {
		if i == 0 {
			b.WriteString(", issues: [")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{%d: %q}", issue.GetIssueCode(), issue.GetMessage())
		if i == len(e.issues)-1 {
			b.WriteByte(']')
		}
	}

	return b.String()
}

type oeOpt func(oe *operationError)

func WithStatusCode(code Ydb.StatusIds_StatusCode) oeOpt {
	return func(oe *operationError) {
		oe.code = code
	}
}

func WithIssues(issues []*Ydb_Issue.IssueMessage) oeOpt {
	return func(oe *operationError) {
		oe.issues = issues
	}
}

// Operation makes operation error from options
func Operation(opts ...oeOpt) error {
	oe := &operationError{
		code: Ydb.StatusIds_STATUS_CODE_UNSPECIFIED,
	}
	for _, f := range opts {
		if f != nil {
			f(oe)
		}
	}

	return oe
}

// IsOperationError reports whether err is operationError with given status codes
func IsOperationError(err error, codes ...Ydb.StatusIds_StatusCode) bool {
	var op *operationError
	if !errors.As(err, &op) {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, code := range codes {
		if op.code == code {
			return true
		}
	}

	return false
}
