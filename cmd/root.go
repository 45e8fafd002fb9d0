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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/googlecloudplatform/gcsstream/cfg"
	"github.com/googlecloudplatform/gcsstream/common"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// streamFn is what the root command runs once the config has been parsed and
// validated.
type streamFn func(ctx context.Context, c *cfg.Config, bucketName string, objectNames []string) error

// NewRootCmd returns the root command. The stream function is injected so
// that flag and config-file handling can be tested on their own.
func NewRootCmd(stream streamFn) (*cobra.Command, error) {
	var (
		configObj cfg.Config
		cfgFile   string
	)
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "gcsstream [flags] bucket object [object...]",
		Short: "Stream GCS objects through fixed-size range requests",
		Long: `gcsstream reads Cloud Storage objects front to back with one ranged GET
per buffer window and writes them to stdout, or into an output directory
with several objects in flight at once.`,
		Version:      common.GetVersion(),
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile, &configObj); err != nil {
				return err
			}
			return cfg.ValidateConfig(&configObj)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return stream(cmd.Context(), &configObj, args[0], args[1:])
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "The path to the YAML config file. Flags take precedence over values from the file.")
	if err := cfg.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("error while binding flags: %w", err)
	}
	return rootCmd, nil
}

func initConfig(v *viper.Viper, cfgFile string, configObj *cfg.Config) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error while reading the config file: %w", err)
		}
	}

	err := v.Unmarshal(configObj, viper.DecodeHook(cfg.DecodeHook()), func(decoderConfig *mapstructure.DecoderConfig) {
		decoderConfig.TagName = "yaml"
		decoderConfig.ErrorUnused = true
	})
	if err != nil {
		return fmt.Errorf("error while unmarshalling the config: %w", err)
	}
	return nil
}

func Execute() {
	rootCmd, err := NewRootCmd(streamObjects)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while creating the root command: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
