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

package storageutil

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/internal/auth"
	"golang.org/x/oauth2"
)

const (
	// ProdBaseURI is the JSON API root used when no custom endpoint is set.
	ProdBaseURI = "https://storage.googleapis.com/storage/v1/"

	jsonAPIPath        = "/storage/v1/"
	urlSchemeSeparator = "://"
)

type StorageClientConfig struct {
	/** Common client parameters. */

	// ClientProtocol decides the go-sdk client used for metadata calls.
	// Range reads always go over HTTP.
	ClientProtocol cfg.Protocol
	UserAgent      string
	// CustomEndpoint, when set, replaces the production endpoint and turns
	// authentication off.
	CustomEndpoint string
	Auth           cfg.GcsAuthConfig

	/** HTTP client parameters. */
	MaxConnsPerHost     int
	MaxIdleConnsPerHost int
	HttpClientTimeout   time.Duration
}

// NewStorageClientConfig extracts the connection settings from the app config.
func NewStorageClientConfig(c *cfg.Config, userAgent string) StorageClientConfig {
	return StorageClientConfig{
		ClientProtocol:      c.GcsConnection.ClientProtocol,
		UserAgent:           userAgent,
		CustomEndpoint:      c.GcsConnection.CustomEndpoint,
		Auth:                c.GcsAuth,
		MaxConnsPerHost:     int(c.GcsConnection.MaxConnsPerHost),
		MaxIdleConnsPerHost: int(c.GcsConnection.MaxIdleConnsPerHost),
		HttpClientTimeout:   c.GcsConnection.HttpClientTimeout,
	}
}

// IsProdEndpoint reports whether requests go to the production GCS endpoint,
// i.e. no custom endpoint was configured.
func IsProdEndpoint(customEndpoint string) bool {
	return customEndpoint == ""
}

// BaseURI returns the JSON API root requests are built against, always with
// a trailing slash.
func BaseURI(customEndpoint string) string {
	if IsProdEndpoint(customEndpoint) {
		return ProdBaseURI
	}
	return strings.TrimSuffix(customEndpoint, "/") + jsonAPIPath
}

// CreateTokenSource returns the token source for the configured credentials,
// or nil for a custom endpoint, which is accessed anonymously.
func CreateTokenSource(ctx context.Context, storageClientConfig *StorageClientConfig) (oauth2.TokenSource, error) {
	if !IsProdEndpoint(storageClientConfig.CustomEndpoint) {
		return nil, nil
	}
	return auth.GetTokenSource(ctx, storageClientConfig.Auth)
}

func createTransport(storageClientConfig *StorageClientConfig) *http.Transport {
	// Using http1 makes the client more performant.
	if storageClientConfig.ClientProtocol == cfg.HTTP1 {
		return &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxConnsPerHost:     storageClientConfig.MaxConnsPerHost,
			MaxIdleConnsPerHost: storageClientConfig.MaxIdleConnsPerHost,
			// This disables HTTP/2 in transport.
			TLSNextProto: make(
				map[string]func(string, *tls.Conn) http.RoundTripper,
			),
		}
	}

	// For http2, change in MaxConnsPerHost doesn't affect the performance.
	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
		MaxConnsPerHost:   storageClientConfig.MaxConnsPerHost,
		ForceAttemptHTTP2: true,
	}
}

// CreateHttpClient builds the client used for both SDK metadata calls and raw
// range reads. Every request carries the user agent and, when tokenSrc is
// non-nil, an "Authorization: Bearer" header.
func CreateHttpClient(storageClientConfig *StorageClientConfig, tokenSrc oauth2.TokenSource) (*http.Client, error) {
	if storageClientConfig.HttpClientTimeout < 0 {
		return nil, fmt.Errorf("negative http client timeout: %v", storageClientConfig.HttpClientTimeout)
	}

	var rt http.RoundTripper = createTransport(storageClientConfig)
	if tokenSrc != nil {
		rt = &oauth2.Transport{
			Base:   rt,
			Source: tokenSrc,
		}
	}

	// Setting UserAgent through RoundTripper middleware
	rt = &userAgentRoundTripper{
		wrapped:   rt,
		UserAgent: storageClientConfig.UserAgent,
	}

	return &http.Client{
		Transport: rt,
		Timeout:   storageClientConfig.HttpClientTimeout,
	}, nil
}

// StripScheme strips the scheme part of given url.
func StripScheme(url string) string {
	if strings.Contains(url, urlSchemeSeparator) {
		url = strings.SplitN(url, urlSchemeSeparator, 2)[1]
	}
	return url
}
