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

package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/internal/storage/storageutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type recordedRequest struct {
	path          string
	rawQuery      string
	rangeHeader   string
	authorization string
	userAgent     string
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("token endpoint unreachable")
}

// newTestBucketHandle returns a bucket handle whose range requests go to a
// server answering with the given status and body.
func newTestBucketHandle(t *testing.T, status int, body string, tokenSrc oauth2.TokenSource, billingProject string) (*bucketHandle, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.EscapedPath()
		rec.rawQuery = r.URL.RawQuery
		rec.rangeHeader = r.Header.Get("Range")
		rec.authorization = r.Header.Get("Authorization")
		rec.userAgent = r.Header.Get("User-Agent")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	sc := storageutil.StorageClientConfig{UserAgent: "gcsstream-test"}
	httpClient, err := storageutil.CreateHttpClient(&sc, tokenSrc)
	require.NoError(t, err)

	return &bucketHandle{
		bucketName:     "bkt",
		billingProject: billingProject,
		httpClient:     httpClient,
		baseURI:        storageutil.BaseURI(server.URL),
	}, rec
}

func TestNewReaderRequestFormat(t *testing.T) {
	bh, rec := newTestBucketHandle(t, http.StatusPartialContent, "0123456789",
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), "billing-proj")

	rc, err := bh.NewReader(context.Background(), &gcs.ReadObjectRequest{
		Name:       "dir/a b.txt",
		Generation: 5,
		Range:      &gcs.ByteRange{Start: 10, Limit: 20},
	})

	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "0123456789", string(data))
	assert.Equal(t, "/storage/v1/b/bkt/o/dir%2Fa%20b.txt", rec.path)
	assert.Equal(t, "alt=media&generation=5&userProject=billing-proj", rec.rawQuery)
	assert.Equal(t, "bytes=10-19", rec.rangeHeader)
	assert.Equal(t, "Bearer tok", rec.authorization)
	assert.Equal(t, "gcsstream-test", rec.userAgent)
}

func TestNewReaderWithoutRangeOrAuth(t *testing.T) {
	bh, rec := newTestBucketHandle(t, http.StatusOK, "whole", nil, "")

	rc, err := bh.NewReader(context.Background(), &gcs.ReadObjectRequest{Name: "obj"})

	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "alt=media", rec.rawQuery)
	assert.Empty(t, rec.rangeHeader)
	assert.Empty(t, rec.authorization)
}

func TestNewReaderStatusMapping(t *testing.T) {
	testCases := []struct {
		name           string
		status         int
		wantNotFound   bool
		wantStatusCode int
	}{
		{"not_found", http.StatusNotFound, true, 0},
		{"unauthorized", http.StatusUnauthorized, false, http.StatusUnauthorized},
		{"forbidden", http.StatusForbidden, false, http.StatusForbidden},
		{"range_not_satisfiable", http.StatusRequestedRangeNotSatisfiable, false, http.StatusRequestedRangeNotSatisfiable},
		{"internal", http.StatusInternalServerError, false, http.StatusInternalServerError},
		{"unavailable", http.StatusServiceUnavailable, false, http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bh, _ := newTestBucketHandle(t, tc.status, `{"error":{"code":1,"message":"x"}}`, nil, "")

			rc, err := bh.NewReader(context.Background(), &gcs.ReadObjectRequest{
				Name:  "obj",
				Range: &gcs.ByteRange{Start: 0, Limit: 10},
			})

			assert.Nil(t, rc)
			if tc.wantNotFound {
				assert.True(t, gcs.IsNotFound(err))
				return
			}
			var transportErr *gcs.TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, tc.wantStatusCode, transportErr.StatusCode)
		})
	}
}

func TestNewReaderTokenFailure(t *testing.T) {
	bh, rec := newTestBucketHandle(t, http.StatusOK, "never", failingTokenSource{}, "")

	_, err := bh.NewReader(context.Background(), &gcs.ReadObjectRequest{Name: "obj"})

	var transportErr *gcs.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 0, transportErr.StatusCode)
	assert.ErrorContains(t, err, "token endpoint unreachable")
	assert.Empty(t, rec.path)
}

func TestNewReaderCanceledContext(t *testing.T) {
	bh, _ := newTestBucketHandle(t, http.StatusOK, "never", nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bh.NewReader(ctx, &gcs.ReadObjectRequest{Name: "obj"})

	var transportErr *gcs.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, context.Canceled)
}
