/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "doctran",
	Short: "Format-preserving document translator",
	Long: `Translate the natural-language content of structured documents while
preserving per-character formatting, and keep mirrored regions (such as
merged cells) displaying identical translated text.

Duplicate texts are collapsed into single requests and previously seen
translations are served from a persistent cache, so repeated runs cost as
few translation-API calls as possible.

Use "doctran translate --help" for translation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/doctran/doctran.yaml)")
}

// initConfig loads the optional config file and binds DOCTRAN_* environment
// variables. A missing config file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doctran"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("doctran")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DOCTRAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
