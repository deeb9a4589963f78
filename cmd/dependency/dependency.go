/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dependency

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	logger "github.com/waterlab/potability/internal/wqlog"
)

// InitCommandAndConfig adds the config flag and the version command to cmd,
// settings of v can be overridden by environment variables with envPrefix.
func InitCommandAndConfig(cmd *cobra.Command, v *viper.Viper, name, envPrefix string) {
	cmd.PersistentFlags().String("config", DefaultConfigPath(name), "the path of configuration file with yaml extension name")
	cmd.AddCommand(VersionCmd)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// DefaultConfigPath returns $HOME/.<name>/<name>.yaml.
func DefaultConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name + ".yaml"
	}

	return filepath.Join(home, "."+name, name+".yaml")
}

// ReadConfigFile reads config file into the given viper instance. If we're
// reading the default configuration file and the file does not exist, nil will
// be returned.
func ReadConfigFile(v *viper.Viper, cmd *cobra.Command) error {
	flag := cmd.Flag("config")
	v.SetConfigFile(flag.Value.String())
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !flag.Changed {
			return nil
		}

		return err
	}

	logger.Infof("load config file %s", v.ConfigFileUsed())
	return nil
}

// GetConfigFromViper decodes the settings of v into cfg by yaml tag names.
func GetConfigFromViper(v *viper.Viper, cfg any) error {
	return v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.Squash = true
	})
}

// SetupQuitSignalHandler calls handler once on the first SIGINT or SIGTERM.
func SetupQuitSignalHandler(handler func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var done bool
		for sig := range signals {
			logger.Infof("receive %s signal", sig)
			if !done {
				done = true
				handler()
			}
		}
	}()
}
