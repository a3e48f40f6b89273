package xerrors

import (
	"bytes"
	"errors"
	"fmt"

	grpcCodes "google.golang.org/grpc/codes"
	grpcStatus "google.golang.org/grpc/status"
)

type transportError struct {
	code    grpcCodes.Code
	message string
	err     error
}

func (e *transportError) isYdbError() {}

func (e *transportError) Code() int32 {
	return int32(e.code)
}

func (e *transportError) Name() string {
	return "transport/" + e.code.String()
}

func (e *transportError) Error() string {
	var b bytes.Buffer
	b.WriteString("transport error: ")
	b.WriteString(e.code.String())
	if e.message != "" {
		b.WriteString(", message: ")
		b.WriteString(e.message)
	}

	return b.String()
}

func (e *transportError) Unwrap() error {
	return e.err
}

func (e *transportError) GRPCStatus() *grpcStatus.Status {
	return grpcStatus.New(e.code, e.message)
}

type teOpt func(te *transportError)

func WithCode(code grpcCodes.Code) teOpt {
	return func(te *transportError) {
		te.code = code
	}
}

func WithMessage(message string) teOpt {
	return func(te *transportError) {
		te.message = message
	}
}

// Transport returns a new transport error with given options
func Transport(opts ...teOpt) error {
	te := &transportError{}
	for _, f := range opts {
		f(te)
	}

	return WithStackTrace(fmt.Errorf("%w", te), WithSkipDepth(1))
}

// FromGRPC converts an error returned by a grpc call into transport error.
// Errors without grpc status are returned as is.
func FromGRPC(err error) error {
	if err == nil {
		return nil
	}
	var te *transportError
	if errors.As(err, &te) {
		return err
	}
	s, has := grpcStatus.FromError(err)
	if !has {
		return err
	}

	return &transportError{
		code:    s.Code(),
		message: s.Message(),
		err:     err,
	}
}

// IsTransportError reports whether err is transportError with given grpc codes
func IsTransportError(err error, codes ...grpcCodes.Code) bool {
	if err == nil {
		return false
	}
	var status *grpcStatus.Status
	if t := (*transportError)(nil); errors.As(err, &t) {
		status = grpcStatus.New(t.code, t.message)
	} else if s, has := grpcStatus.FromError(err); has {
		status = s
	}
	if status == nil {
		return false
	}
	if len(codes) == 0 {
		return true
	}
	for _, code := range codes {
		if status.Code() == code {
			return true
		}
	}

	return false
}
