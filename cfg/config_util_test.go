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

package cfg

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSizeBytes(t *testing.T) {
	assert.Equal(t, int64(DefaultBufferSizeBytes), (&ReadConfig{}).BufferSizeBytes())
	assert.Equal(t, int64(DefaultBufferSizeBytes), (&ReadConfig{BufferSize: -5}).BufferSizeBytes())
	assert.Equal(t, int64(1024), (&ReadConfig{BufferSize: 1024}).BufferSizeBytes())
}

func TestConfigStringRedactsAccessToken(t *testing.T) {
	c := Config{GcsAuth: GcsAuthConfig{AccessToken: "ya29.secret"}}

	s := c.String()

	assert.NotContains(t, s, "ya29.secret")
	assert.Contains(t, s, "<redacted>")
	assert.Equal(t, "ya29.secret", c.GcsAuth.AccessToken)
}

func TestBindFlagsDefaults(t *testing.T) {
	v := viper.New()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, BindFlags(v, flagSet))
	require.NoError(t, flagSet.Parse([]string{"--buffer-size=1MiB", "--log-severity=debug", "--client-protocol=grpc"}))

	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(DecodeHook()), func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" })

	require.NoError(t, err)
	assert.Equal(t, ByteSize(1<<20), c.Read.BufferSize)
	assert.Equal(t, DebugLogSeverity, c.Logging.Severity)
	assert.Equal(t, GRPC, c.GcsConnection.ClientProtocol)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, int64(512), c.Logging.LogRotate.MaxFileSizeMb)
	assert.Equal(t, float64(-1), c.GcsConnection.LimitOpsPerSec)
	assert.True(t, c.GcsAuth.ReuseTokenFromUrl)
	assert.Equal(t, int64(DefaultMaxParallelDownloads()), c.Read.MaxParallelDownloads)
	assert.NoError(t, ValidateConfig(&c))
}
