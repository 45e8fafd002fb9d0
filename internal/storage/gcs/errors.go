// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gcs

import (
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// A *NotFoundError value is an error that indicates an object name or a
// particular generation for that name were not found.
type NotFoundError struct {
	Err error
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("gcs.NotFoundError: %v", nfe.Err)
}

func (nfe *NotFoundError) Unwrap() error {
	return nfe.Err
}

// A *TransportError value is an error that indicates the request could not
// be completed: a network failure, an authorization failure, or a status code
// other than success or not-found. StatusCode is zero when no response was
// received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (te *TransportError) Error() string {
	if te.StatusCode == 0 {
		return fmt.Sprintf("gcs.TransportError: %v", te.Err)
	}
	return fmt.Sprintf("gcs.TransportError (HTTP %d): %v", te.StatusCode, te.Err)
}

func (te *TransportError) Unwrap() error {
	return te.Err
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// GetGCSError converts an error returned by go-sdk into a common gcs error.
// Errors carrying an HTTP or gRPC status other than not-found become
// *TransportError; anything else is returned unchanged.
func GetGCSError(err error) error {
	if err == nil {
		return nil
	}

	// Already converted.
	var nfe *NotFoundError
	var te *TransportError
	if errors.As(err, &nfe) || errors.As(err, &te) {
		return err
	}

	// Http client error.
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if gErr.Code == http.StatusNotFound {
			return &NotFoundError{Err: err}
		}
		return &TransportError{StatusCode: gErr.Code, Err: err}
	}

	// If storage object doesn't exist, go-sdk returns as ErrObjectNotExist.
	if errors.Is(err, storage.ErrObjectNotExist) {
		return &NotFoundError{Err: err}
	}

	// RPC error.
	if rpcErr, ok := status.FromError(err); ok {
		switch rpcErr.Code() {
		case codes.NotFound:
			return &NotFoundError{Err: err}
		case codes.OK:
		default:
			return &TransportError{Err: err}
		}
	}

	return err
}
