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

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/internal/storage/storageutil"
)

const host string = "127.0.0.1"

const DefaultBucketName string = "gcsstream-default-bucket"
const DefaultObjectName string = "default object.txt"
const ContentInDefaultObject string = "Hello GCSStream!!!"
const DefaultGeneration int64 = 780

func GetDefaultObject() fakestorage.Object {
	return fakestorage.Object{
		ObjectAttrs: fakestorage.ObjectAttrs{
			BucketName: DefaultBucketName,
			Name:       DefaultObjectName,
			Generation: DefaultGeneration,
		},
		Content: []byte(ContentInDefaultObject),
	}
}

// CreateFakeStorageServer starts a plain-HTTP fake GCS server on a free
// local port, seeded with objects.
func CreateFakeStorageServer(objects []fakestorage.Object) (*fakestorage.Server, error) {
	return fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: objects,
		Scheme:         "http",
		Host:           host,
	})
}

// NewFakeStorageHandle returns a StorageHandle whose metadata and range
// requests both go to the given fake server.
func NewFakeStorageHandle(ctx context.Context, server *fakestorage.Server, protocol cfg.Protocol) (StorageHandle, error) {
	return NewStorageHandle(ctx, storageutil.StorageClientConfig{
		ClientProtocol:      protocol,
		UserAgent:           "gcsstream-test",
		CustomEndpoint:      server.URL(),
		MaxIdleConnsPerHost: 10,
	})
}
