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

package auth

import (
	"fmt"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
)

// Scope is the only OAuth scope requested: objects are streamed, never
// written.
const Scope = storage.ScopeReadOnly

type credentialDetector func(opts *credentials.DetectOptions) (*auth.Credentials, error)

var detectCredentials credentialDetector = credentials.DetectDefault

// GetCredentials detects Google Cloud credentials for the read-only scope.
//
// A service account key file takes priority when keyFile is set. Otherwise
// Application Default Credentials are used, which also cover workload
// identity through the metadata server.
func GetCredentials(keyFile string) (*auth.Credentials, error) {
	return getCredentials(keyFile, detectCredentials)
}

func getCredentials(keyFile string, detect credentialDetector) (*auth.Credentials, error) {
	opts := &credentials.DetectOptions{
		CredentialsFile: keyFile,
		Scopes:          []string{Scope},
	}

	creds, err := detect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect credentials: %w", err)
	}

	return creds, nil
}
