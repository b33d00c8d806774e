package blockdag

import (
	"fmt"

	"github.com/daglabs/phantomdag/daghash"
	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of RuleError.
type ErrorCode int

// Error codes for every failure mode the core exposes, per SPEC_FULL §7.
const (
	ErrBlockNotFound ErrorCode = iota
	ErrDuplicateBlock
	ErrMissingParent
	ErrOrphanBlock
	ErrNoGenesis
	ErrInvalidK
	ErrOrderingError
	ErrInternal
)

var errorCodeNames = map[ErrorCode]string{
	ErrBlockNotFound:  "ErrBlockNotFound",
	ErrDuplicateBlock: "ErrDuplicateBlock",
	ErrMissingParent:  "ErrMissingParent",
	ErrOrphanBlock:    "ErrOrphanBlock",
	ErrNoGenesis:      "ErrNoGenesis",
	ErrInvalidK:       "ErrInvalidK",
	ErrOrderingError:  "ErrOrderingError",
	ErrInternal:       "ErrInternal",
}

func (code ErrorCode) String() string {
	if name, ok := errorCodeNames[code]; ok {
		return name
	}
	return "ErrUnknown"
}

// RuleError identifies an error kind produced by the DAG store, the
// coloring engine, the ordering engine, or the LCA pass. It follows the
// teacher's ruleError(code, message) idiom (see blockdag/process.go call
// sites in the teacher pack) with github.com/pkg/errors underneath so
// callers that want a stack trace can get one via %+v.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
	cause       error
}

// Error implements the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the wrapped error, if any. RuleError deliberately has no
// Cause method, so errors.Cause stops at the RuleError itself instead of
// descending into a nil cause.
func (e RuleError) Unwrap() error {
	return e.cause
}

func ruleError(code ErrorCode, description string) error {
	return errors.WithStack(RuleError{ErrorCode: code, Description: description})
}

// errBlockNotFound builds the BlockNotFound error for the given hash.
func errBlockNotFound(hash daghash.Hash) error {
	return ruleError(ErrBlockNotFound, fmt.Sprintf("block %s not found", hash))
}

func errDuplicateBlock(hash daghash.Hash) error {
	return ruleError(ErrDuplicateBlock, fmt.Sprintf("block %s already exists", hash))
}

func errMissingParent(child, parent daghash.Hash) error {
	return ruleError(ErrMissingParent, fmt.Sprintf("block %s references missing parent %s", child, parent))
}

func errOrphanBlock(hash daghash.Hash) error {
	return ruleError(ErrOrphanBlock, fmt.Sprintf("block %s has no parents and is not genesis", hash))
}

func errNoGenesis() error {
	return ruleError(ErrNoGenesis, "DAG has no genesis block")
}

func errInvalidK(k uint32) error {
	return ruleError(ErrInvalidK, fmt.Sprintf("invalid k value %d, must be >= 1", k))
}

func errOrdering(msg string) error {
	return ruleError(ErrOrderingError, msg)
}

func errInternal(msg string) error {
	return ruleError(ErrInternal, msg)
}

// AsRuleError reports whether err is (or wraps) a RuleError, returning it
// if so.
func AsRuleError(err error) (RuleError, bool) {
	var ruleErr RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr, true
	}
	return RuleError{}, false
}
