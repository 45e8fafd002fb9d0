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
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/internal/logger"
	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/internal/storage/storageutil"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type StorageHandle interface {
	// In case of non-empty billingProject, this project is set as user-project for
	// all subsequent calls on the bucket. Calls with user-project will be billed
	// to that project rather than to the bucket's owning project.
	//
	// A user-project is required for all operations on Requester Pays buckets.
	BucketHandle(bucketName string, billingProject string) gcs.Bucket

	// Close releases the underlying go-sdk client.
	Close() error
}

type storageClient struct {
	// client serves metadata calls.
	client *storage.Client
	// httpClient serves range reads against baseURI.
	httpClient *http.Client
	baseURI    string
}

func createHTTPClientHandle(ctx context.Context, clientConfig *storageutil.StorageClientConfig, httpClient *http.Client) (*storage.Client, error) {
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if !storageutil.IsProdEndpoint(clientConfig.CustomEndpoint) {
		clientOpts = append(clientOpts, option.WithEndpoint(storageutil.BaseURI(clientConfig.CustomEndpoint)))
	}
	return storage.NewClient(ctx, clientOpts...)
}

func createGRPCClientHandle(ctx context.Context, clientConfig *storageutil.StorageClientConfig, tokenSrc oauth2.TokenSource) (*storage.Client, error) {
	clientOpts := []option.ClientOption{option.WithUserAgent(clientConfig.UserAgent)}
	if storageutil.IsProdEndpoint(clientConfig.CustomEndpoint) {
		clientOpts = append(clientOpts, option.WithTokenSource(tokenSrc))
	} else {
		clientOpts = append(clientOpts,
			option.WithEndpoint(storageutil.StripScheme(clientConfig.CustomEndpoint)),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	}
	return storage.NewGRPCClient(ctx, clientOpts...)
}

// NewStorageHandle returns the handle of Go storage client containing
// customized http client. We can configure the http client using the
// storageClientConfig parameter.
//
// Range reads always use the HTTP client against the JSON API, whatever
// protocol is chosen for metadata.
func NewStorageHandle(ctx context.Context, clientConfig storageutil.StorageClientConfig) (StorageHandle, error) {
	tokenSrc, err := storageutil.CreateTokenSource(ctx, &clientConfig)
	if err != nil {
		return nil, fmt.Errorf("while fetching tokenSource: %w", err)
	}

	httpClient, err := storageutil.CreateHttpClient(&clientConfig, tokenSrc)
	if err != nil {
		return nil, fmt.Errorf("while creating http client: %w", err)
	}

	var sc *storage.Client
	switch clientConfig.ClientProtocol {
	case cfg.GRPC:
		sc, err = createGRPCClientHandle(ctx, &clientConfig, tokenSrc)
	case cfg.HTTP1, cfg.HTTP2, "":
		sc, err = createHTTPClientHandle(ctx, &clientConfig, httpClient)
	default:
		err = fmt.Errorf("invalid client-protocol requested: %s", clientConfig.ClientProtocol)
	}
	if err != nil {
		return nil, fmt.Errorf("go storage client creation failed: %w", err)
	}

	// Failed requests surface to the caller as they are.
	sc.SetRetry(storage.WithPolicy(storage.RetryNever))

	baseURI := storageutil.BaseURI(clientConfig.CustomEndpoint)
	logger.Debugf("Created storage handle: protocol=%s, baseURI=%s", clientConfig.ClientProtocol, baseURI)

	return &storageClient{
		client:     sc,
		httpClient: httpClient,
		baseURI:    baseURI,
	}, nil
}

func (sh *storageClient) BucketHandle(bucketName string, billingProject string) gcs.Bucket {
	storageBucketHandle := sh.client.Bucket(bucketName)

	if billingProject != "" {
		storageBucketHandle = storageBucketHandle.UserProject(billingProject)
	}

	return &bucketHandle{
		bucket:         storageBucketHandle,
		bucketName:     bucketName,
		billingProject: billingProject,
		httpClient:     sh.httpClient,
		baseURI:        sh.baseURI,
	}
}

func (sh *storageClient) Close() error {
	return sh.client.Close()
}
