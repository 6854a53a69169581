package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodePrecondition  = "PRECONDITION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeConnectivity  = "CONNECTIVITY_ERROR"
	ErrCodeIngestion     = "INGESTION_ERROR"
	ErrCodeGeneration    = "GENERATION_ERROR"
	ErrCodeExhausted     = "CANDIDATES_EXHAUSTED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation and precondition errors
var (
	ErrEmptyCorpus    = NewDomainError(ErrCodeValidation, "corpus text is empty")
	ErrEmptyQuery     = NewDomainError(ErrCodeValidation, "query text is empty")
	ErrEmptyKeyword   = NewDomainError(ErrCodeValidation, "keyword is empty")
	ErrNotInitialized = NewDomainError(ErrCodePrecondition, "retriever has not been initialized")
	ErrEmptyIndex     = NewDomainError(ErrCodePrecondition, "vector index holds no records")
)

// Configuration errors
var (
	ErrMissingOpenAIKey   = NewDomainError(ErrCodeConfiguration, "OpenAI API key is not configured")
	ErrInvalidCredentials = NewDomainError(ErrCodeConfiguration, "generation credentials were rejected")
)

// Ingestion errors
var (
	ErrAllChunksFailed = NewDomainError(ErrCodeIngestion, "embedding failed for every corpus chunk")
)

// Generation errors
var (
	ErrCandidatesExhausted = NewDomainError(ErrCodeExhausted, "every model candidate failed")
)

// Archive errors
var (
	ErrReportNotFound  = NewDomainError(ErrCodeNotFound, "archived report not found")
	ErrArchiveDisabled = NewDomainError(ErrCodePrecondition, "report archive is not configured")
)
