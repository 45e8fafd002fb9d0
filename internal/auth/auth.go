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
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/auth/oauth2adapt"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"golang.org/x/oauth2"
)

// TokenRefreshSkew is how long before expiry a cached token is refreshed.
const TokenRefreshSkew = 10 * time.Second

// GetTokenSource returns the token source for the configured credential
// strategy. Strategies are tried in order: a static access token, a token
// URL, then a key file or Application Default Credentials. Tokens from the
// last two are cached until TokenRefreshSkew before they expire.
func GetTokenSource(ctx context.Context, authCfg cfg.GcsAuthConfig) (oauth2.TokenSource, error) {
	var tokenSrc oauth2.TokenSource
	var err error
	var method string

	switch {
	case authCfg.AccessToken != "":
		logger.Infof("Using static access token for GCS authentication")
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: authCfg.AccessToken,
			TokenType:   "Bearer",
		}), nil
	case authCfg.TokenUrl != "":
		logger.Infof("Fetching GCS access tokens from %s", authCfg.TokenUrl)
		tokenSrc = newProxyTokenSource(ctx, authCfg.TokenUrl)
		if !authCfg.ReuseTokenFromUrl {
			// Every request asks the proxy for a fresh token.
			return tokenSrc, nil
		}
	default:
		tokenSrc, err = newCredentialsTokenSource(string(authCfg.KeyFile))
		method = "newCredentialsTokenSource"
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	return oauth2.ReuseTokenSourceWithExpiry(nil, tokenSrc, TokenRefreshSkew), nil
}

func newCredentialsTokenSource(keyFile string) (oauth2.TokenSource, error) {
	creds, err := GetCredentials(keyFile)
	if err != nil {
		return nil, err
	}
	return oauth2adapt.TokenSourceFromTokenProvider(creds.TokenProvider), nil
}
