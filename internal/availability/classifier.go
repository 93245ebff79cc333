// Package availability decides whether a failure means "the live store could
// not be reached" as opposed to a data or validation error that must propagate.
package availability

import (
	"context"
	"net"
	"reflect"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

// Signature is the kind of unavailability recognized in an error chain.
type Signature int

const (
	// SignatureNone means the error is not an unavailability condition.
	SignatureNone Signature = iota
	SignatureNotConfigured
	SignatureConnRefused
	SignatureTimeout
	SignatureHostNotFound
	SignatureConnReset
	SignatureHostUnreachable
	SignatureConnTerminated
	SignatureConnectFailed
)

var signatureNames = map[Signature]string{
	SignatureNone:            "none",
	SignatureNotConfigured:   "not_configured",
	SignatureConnRefused:     "connection_refused",
	SignatureTimeout:         "timeout",
	SignatureHostNotFound:    "host_not_found",
	SignatureConnReset:       "connection_reset",
	SignatureHostUnreachable: "host_unreachable",
	SignatureConnTerminated:  "connection_terminated",
	SignatureConnectFailed:   "connect_failed",
}

func (s Signature) String() string {
	if name, ok := signatureNames[s]; ok {
		return name
	}
	return "unknown"
}

// maxDepth bounds the traversal of cause chains made of non-pointer error
// values, which the identity seen-set cannot track.
const maxDepth = 32

// messagePatterns are matched case-insensitively against err.Error().
// Order matters: the first match wins.
var messagePatterns = []struct {
	fragment  string
	signature Signature
}{
	{strings.ToLower(domain.ErrNotConfigured.Error()), SignatureNotConfigured},
	{"database_url is not set", SignatureNotConfigured},
	{"connection refused", SignatureConnRefused},
	{"econnrefused", SignatureConnRefused},
	{"i/o timeout", SignatureTimeout},
	{"timeout expired", SignatureTimeout},
	{"timed out", SignatureTimeout},
	{"etimedout", SignatureTimeout},
	{"no such host", SignatureHostNotFound},
	{"enotfound", SignatureHostNotFound},
	{"eai_again", SignatureHostNotFound},
	{"connection reset", SignatureConnReset},
	{"econnreset", SignatureConnReset},
	{"no route to host", SignatureHostUnreachable},
	{"network is unreachable", SignatureHostUnreachable},
	{"ehostunreach", SignatureHostUnreachable},
	{"enetunreach", SignatureHostUnreachable},
	{"connection terminated", SignatureConnTerminated},
	{"conn closed", SignatureConnTerminated},
	{"could not connect to server", SignatureConnectFailed},
	{"failed to connect", SignatureConnectFailed},
}

// codeSignatures maps machine error codes (POSIX names and PostgreSQL
// SQLSTATEs) to signatures.
var codeSignatures = map[string]Signature{
	"ECONNREFUSED": SignatureConnRefused,
	"ETIMEDOUT":    SignatureTimeout,
	"ENOTFOUND":    SignatureHostNotFound,
	"EAI_AGAIN":    SignatureHostNotFound,
	"ECONNRESET":   SignatureConnReset,
	"EHOSTUNREACH": SignatureHostUnreachable,
	"ENETUNREACH":  SignatureHostUnreachable,
	"EPIPE":        SignatureConnTerminated,
	// SQLSTATE class 08: connection exception.
	"08000": SignatureConnectFailed,
	"08001": SignatureConnectFailed,
	"08003": SignatureConnTerminated,
	"08004": SignatureConnectFailed,
	"08006": SignatureConnTerminated,
	// Operator intervention: the server is shutting down or restarting.
	"57P01": SignatureConnTerminated,
	"57P02": SignatureConnTerminated,
	"57P03": SignatureConnectFailed,
}

var errnoSignatures = map[syscall.Errno]Signature{
	syscall.ECONNREFUSED: SignatureConnRefused,
	syscall.ETIMEDOUT:    SignatureTimeout,
	syscall.ECONNRESET:   SignatureConnReset,
	syscall.EHOSTUNREACH: SignatureHostUnreachable,
	syscall.ENETUNREACH:  SignatureHostUnreachable,
	syscall.EPIPE:        SignatureConnTerminated,
}

// coder is implemented by errors carrying a machine-readable code.
type coder interface {
	Code() string
}

// IsUnavailable reports whether err means the live store is unreachable or
// not configured.
func IsUnavailable(err error) bool {
	return Classify(err) != SignatureNone
}

// Classify inspects err, its wrapped causes and joined sub-errors and returns
// the unavailability signature found, or SignatureNone. A typed or coded
// node anywhere in the chain wins over message text. Message patterns are
// only matched on untyped leaf errors, so a wrapper's text never overrides
// what its cause reports.
func Classify(err error) Signature {
	if err == nil {
		return SignatureNone
	}

	typed, message := SignatureNone, SignatureNone
	w := walker{seen: make(map[uintptr]struct{}), visit: func(node error) bool {
		if sig, ok := classifyTyped(node); ok {
			if sig != SignatureNone {
				typed = sig
				return true
			}
			return false
		}
		if message == SignatureNone && isLeaf(node) {
			message = classifyMessage(node.Error())
		}
		return false
	}}
	w.walk(err, 0)

	if typed != SignatureNone {
		return typed
	}
	return message
}

type walker struct {
	seen  map[uintptr]struct{}
	visit func(error) bool
}

// walk visits err and its causes depth first. It stops as soon as visit
// returns true.
func (w *walker) walk(err error, depth int) bool {
	if err == nil || depth > maxDepth {
		return false
	}
	if id, ok := identity(err); ok {
		if _, dup := w.seen[id]; dup {
			return false
		}
		w.seen[id] = struct{}{}
	}

	if w.visit(err) {
		return true
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, sub := range u.Unwrap() {
			if w.walk(sub, depth+1) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return w.walk(u.Unwrap(), depth+1)
	}
	return false
}

// classifyTyped looks at a single error value without following its causes.
// ok is false when the node carries no type or code to decide on.
func classifyTyped(err error) (sig Signature, ok bool) {
	// A caller giving up is not the store being down.
	if err == context.Canceled {
		return SignatureNone, true
	}
	if err == domain.ErrNotConfigured {
		return SignatureNotConfigured, true
	}
	if err == context.DeadlineExceeded {
		return SignatureTimeout, true
	}

	switch e := err.(type) {
	case *pgconn.ConnectError:
		if sig := classifyMessage(e.Error()); sig != SignatureNone {
			return sig, true
		}
		return SignatureConnectFailed, true
	case *pgconn.PgError:
		return codeSignatures[e.Code], true
	case syscall.Errno:
		return errnoSignatures[e], true
	case *net.DNSError:
		if e.IsTimeout {
			return SignatureTimeout, true
		}
		return SignatureHostNotFound, true
	}

	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return SignatureTimeout, true
	}

	if c, ok := err.(coder); ok {
		return codeSignatures[strings.ToUpper(c.Code())], true
	}

	return SignatureNone, false
}

func isLeaf(err error) bool {
	switch err.(type) {
	case interface{ Unwrap() []error }, interface{ Unwrap() error }:
		return false
	}
	return true
}

func classifyMessage(msg string) Signature {
	msg = strings.ToLower(msg)
	for _, p := range messagePatterns {
		if strings.Contains(msg, p.fragment) {
			return p.signature
		}
	}
	return SignatureNone
}

// identity returns the address of pointer-shaped errors.
func identity(err error) (uintptr, bool) {
	v := reflect.ValueOf(err)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return 0, false
	}
	return v.Pointer(), true
}
