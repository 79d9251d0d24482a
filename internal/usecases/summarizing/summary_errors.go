package summarizing

import (
	"errors"
	"fmt"
)

// ErrorKind classifica as falhas do resumo para a camada HTTP escolher a resposta
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidIdentifier
	KindSellerNotFound
	KindStorageFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidIdentifier:
		return "invalid_identifier"
	case KindSellerNotFound:
		return "seller_not_found"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidIdentifier = errors.New("seller id must be a positive integer")
	ErrSellerNotFound    = errors.New("seller not found")
	ErrStorageFailure    = errors.New("error reading sales storage")
)

// SummaryError carrega o tipo da falha e o vendedor envolvido
type SummaryError struct {
	Kind     ErrorKind
	SellerID int64
	Err      error
}

// Error omite o vendedor quando SellerID é zero (id desconhecido)
func (e *SummaryError) Error() string {
	msg := e.Kind.String()
	if e.SellerID != 0 {
		msg = fmt.Sprintf("%s (seller %d)", msg, e.SellerID)
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrSellerNotFound) mesmo quando Err guarda a
// causa original (ex.: erro do driver em StorageFailure).
func (e *SummaryError) Is(target error) bool {
	switch e.Kind {
	case KindInvalidIdentifier:
		return target == ErrInvalidIdentifier
	case KindSellerNotFound:
		return target == ErrSellerNotFound
	case KindStorageFailure:
		return target == ErrStorageFailure
	}
	return false
}

func NewSummaryError(kind ErrorKind, sellerID int64, err error) *SummaryError {
	return &SummaryError{
		Kind:     kind,
		SellerID: sellerID,
		Err:      err,
	}
}

// KindOf devolve o ErrorKind de err, ou KindUnknown quando não é um SummaryError
func KindOf(err error) ErrorKind {
	var summaryErr *SummaryError
	if errors.As(err, &summaryErr) {
		return summaryErr.Kind
	}
	return KindUnknown
}
