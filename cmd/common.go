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

	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/cache"
	"github.com/valpere/doctran/internal/translator"
)

// buildProvider constructs the translation provider selected by name.
func buildProvider(name string, cfg translator.Config) (translator.Provider, error) {
	switch name {
	case "google":
		return translator.NewGoogleProvider(cfg.Credentials), nil
	case "mymemory":
		return translator.NewMyMemoryProvider(cfg.Email, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: google, mymemory)", name)
	}
}

// resolveCachePath picks the cache file location: explicit flag, then
// config/env, then the per-user default.
func resolveCachePath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := viper.GetString("cache.file"); v != "" {
		return v, nil
	}
	return cache.DefaultPath()
}
