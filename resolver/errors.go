package resolver

import (
	"errors"
	"fmt"
)

//ErrRecordNotFound marks record ids that cannot exist on-chain
var ErrRecordNotFound = errors.New("record not found")

//ValidationError is fatal: the stored target violates its type's format
//grammar and no retry can fix it
type ValidationError struct {
	Message string
}

func (ve *ValidationError) Error() string {
	return ve.Message
}

//UpstreamError wraps remote ledger query failures. Never retried
//automatically, surfaced with the underlying message.
type UpstreamError struct {
	Err error
}

func (ue *UpstreamError) Error() string {
	return fmt.Sprintf("upstream ledger error: %v", ue.Err)
}

func (ue *UpstreamError) Unwrap() error {
	return ue.Err
}
