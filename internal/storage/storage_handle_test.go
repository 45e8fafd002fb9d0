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
	"io"
	"testing"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/internal/storage/gcs"
	"github.com/googlecloudplatform/gcsstream/internal/storage/storageutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const missingObjectName = "missing.txt"

type StorageHandleTest struct {
	suite.Suite
	ctx           context.Context
	fakeServer    *fakestorage.Server
	storageHandle StorageHandle
}

func TestStorageHandleSuite(t *testing.T) {
	suite.Run(t, new(StorageHandleTest))
}

func (t *StorageHandleTest) SetupTest() {
	var err error
	t.ctx = context.Background()
	t.fakeServer, err = CreateFakeStorageServer([]fakestorage.Object{GetDefaultObject()})
	require.NoError(t.T(), err)
	t.storageHandle, err = NewFakeStorageHandle(t.ctx, t.fakeServer, cfg.HTTP1)
	require.NoError(t.T(), err)
}

func (t *StorageHandleTest) TearDownTest() {
	t.storageHandle.Close()
	t.fakeServer.Stop()
}

func (t *StorageHandleTest) readAll(bucket gcs.Bucket, req *gcs.ReadObjectRequest) (string, error) {
	rc, err := bucket.NewReader(t.ctx, req)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	return string(data), err
}

func (t *StorageHandleTest) TestNewStorageHandleHttp2() {
	sh, err := NewFakeStorageHandle(t.ctx, t.fakeServer, cfg.HTTP2)

	require.NoError(t.T(), err)
	assert.NotNil(t.T(), sh)
	assert.NoError(t.T(), sh.Close())
}

func (t *StorageHandleTest) TestNewStorageHandleInvalidProtocol() {
	sh, err := NewStorageHandle(t.ctx, storageutil.StorageClientConfig{
		ClientProtocol: cfg.Protocol("carrier-pigeon"),
		CustomEndpoint: t.fakeServer.URL(),
	})

	assert.ErrorContains(t.T(), err, "invalid client-protocol requested")
	assert.Nil(t.T(), sh)
}

func (t *StorageHandleTest) TestBucketHandleName() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	assert.Equal(t.T(), DefaultBucketName, bucket.Name())
}

func (t *StorageHandleTest) TestStatObject() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	o, err := bucket.StatObject(t.ctx, &gcs.StatObjectRequest{Name: DefaultObjectName})

	require.NoError(t.T(), err)
	assert.Equal(t.T(), DefaultObjectName, o.Name)
	assert.Equal(t.T(), uint64(len(ContentInDefaultObject)), o.Size)
	assert.Equal(t.T(), DefaultGeneration, o.Generation)
	assert.NotNil(t.T(), o.CRC32C)
}

func (t *StorageHandleTest) TestStatObjectNotFound() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	o, err := bucket.StatObject(t.ctx, &gcs.StatObjectRequest{Name: missingObjectName})

	assert.Nil(t.T(), o)
	assert.True(t.T(), gcs.IsNotFound(err))
}

func (t *StorageHandleTest) TestNewReaderFullObject() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	content, err := t.readAll(bucket, &gcs.ReadObjectRequest{Name: DefaultObjectName})

	require.NoError(t.T(), err)
	assert.Equal(t.T(), ContentInDefaultObject, content)
}

func (t *StorageHandleTest) TestNewReaderRange() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	content, err := t.readAll(bucket, &gcs.ReadObjectRequest{
		Name:  DefaultObjectName,
		Range: &gcs.ByteRange{Start: 6, Limit: 14},
	})

	require.NoError(t.T(), err)
	assert.Equal(t.T(), ContentInDefaultObject[6:14], content)
}

func (t *StorageHandleTest) TestNewReaderRangePastEnd() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	content, err := t.readAll(bucket, &gcs.ReadObjectRequest{
		Name:  DefaultObjectName,
		Range: &gcs.ByteRange{Start: 10, Limit: 1000},
	})

	require.NoError(t.T(), err)
	assert.Equal(t.T(), ContentInDefaultObject[10:], content)
}

func (t *StorageHandleTest) TestNewReaderEmptyRange() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	content, err := t.readAll(bucket, &gcs.ReadObjectRequest{
		Name:  missingObjectName,
		Range: &gcs.ByteRange{Start: 3, Limit: 3},
	})

	require.NoError(t.T(), err)
	assert.Empty(t.T(), content)
}

func (t *StorageHandleTest) TestNewReaderObjectNotFound() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")

	_, err := t.readAll(bucket, &gcs.ReadObjectRequest{
		Name:  missingObjectName,
		Range: &gcs.ByteRange{Start: 0, Limit: 10},
	})

	assert.True(t.T(), gcs.IsNotFound(err))
}

func (t *StorageHandleTest) TestNewReaderBucketNotFound() {
	bucket := t.storageHandle.BucketHandle("missing-bucket", "")

	_, err := t.readAll(bucket, &gcs.ReadObjectRequest{Name: DefaultObjectName})

	assert.True(t.T(), gcs.IsNotFound(err))
}

func (t *StorageHandleTest) TestNewReaderAfterDelete() {
	bucket := t.storageHandle.BucketHandle(DefaultBucketName, "")
	_, err := bucket.StatObject(t.ctx, &gcs.StatObjectRequest{Name: DefaultObjectName})
	require.NoError(t.T(), err)
	require.NoError(t.T(), t.fakeServer.Client().Bucket(DefaultBucketName).Object(DefaultObjectName).Delete(t.ctx))

	_, err = t.readAll(bucket, &gcs.ReadObjectRequest{Name: DefaultObjectName})

	assert.True(t.T(), gcs.IsNotFound(err))
}
