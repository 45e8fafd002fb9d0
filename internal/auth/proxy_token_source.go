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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// proxyTokenSource fetches access tokens from an HTTP endpoint returning
// {"access_token": ..., "token_type": ..., "expires_in": ...}.
type proxyTokenSource struct {
	ctx      context.Context
	endpoint string
	client   *http.Client
}

type proxyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newProxyTokenSource(ctx context.Context, endpoint string) oauth2.TokenSource {
	return &proxyTokenSource{
		ctx:      ctx,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (ts *proxyTokenSource) Token() (*oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ts.ctx, http.MethodGet, ts.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("NewRequest: %w", err)
	}

	resp, err := ts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxyTokenSource cannot fetch token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("proxyTokenSource cannot load body: %w", err)
	}

	if c := resp.StatusCode; c < 200 || c >= 300 {
		return nil, &oauth2.RetrieveError{Response: resp, Body: body}
	}

	var tr proxyTokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("proxyTokenSource cannot decode body: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("proxyTokenSource: response from %s has no access_token", ts.endpoint)
	}

	token := &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
	}
	if tr.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return token, nil
}
