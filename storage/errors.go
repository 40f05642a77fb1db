package storage

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	smithy "github.com/aws/smithy-go"
)

// Sentinel errors raised by the gateway. Their messages are returned to
// clients verbatim, so the wording is fixed.
var (
	// ErrNotFound means the object key does not exist in the repository.
	ErrNotFound = errors.New("Artifact not exists")

	// ErrRepositoryNotFound means the backing bucket does not exist.
	ErrRepositoryNotFound = errors.New("Repository not exists")

	// ErrAlreadyExists means an upload targeted a key that is already stored.
	// Release and snapshot artifacts are write-once.
	ErrAlreadyExists = errors.New("Artifact already exists")
)

// NotAuthorizedError is raised before any store call when a request carries no
// credentials. It keeps the repository name for the authentication challenge.
type NotAuthorizedError struct {
	Repository string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("not authorized, access to repository (%s) denied", e.Repository)
}

// StoreError carries an unclassified backing-store fault. StatusCode is the
// store's own reported HTTP status, or 0 when unknown.
type StoreError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error %s: %s", e.Code, e.Message)
	}
	return "store error: " + e.Message
}

// classify maps an S3 SDK error onto the gateway taxonomy. HEAD responses
// carry no error body, so a bare 404 status is treated as a missing key.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return ErrRepositoryNotFound
		case "NoSuchKey", "NotFound":
			return ErrNotFound
		case "PreconditionFailed", "ConditionalRequestConflict":
			return ErrAlreadyExists
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusPreconditionFailed:
			return ErrAlreadyExists
		}
		code := ""
		if apiErr != nil {
			code = apiErr.ErrorCode()
		}
		return &StoreError{StatusCode: respErr.HTTPStatusCode(), Code: code, Message: err.Error()}
	}

	return &StoreError{Message: err.Error()}
}
