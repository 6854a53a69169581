package openai

import (
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorClass buckets completion failures for the candidate fallback loop.
type ErrorClass int

const (
	// ErrorClassTransient covers timeouts, 5xx responses and anything else
	// worth retrying on the next candidate.
	ErrorClassTransient ErrorClass = iota
	// ErrorClassCredential covers rejected or missing API keys. Retrying
	// further candidates cannot help.
	ErrorClassCredential
	// ErrorClassQuota covers rate limiting and exhausted quota.
	ErrorClassQuota
)

// Classify maps an API error to its retry class.
func Classify(err error) ErrorClass {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}
	return ErrorClassTransient
}

func classifyStatus(status int) ErrorClass {
	switch status {
	case 401, 403:
		return ErrorClassCredential
	case 429:
		return ErrorClassQuota
	default:
		return ErrorClassTransient
	}
}
