// Copyright 2026 The vfsemu Authors.
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

// Package engineconfig decodes the loosely-typed option map a caller
// passes when constructing an engine (mirroring a constructor kwargs
// bag) into a strongly-typed Config via mitchellh/mapstructure plus a
// small decode hook for the one option type that isn't natively
// representable in a map[string]any (an octal-looking umask). The "os"
// option is decoded as a plain string and parsed later by Profile.
package engineconfig

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/fakefsgo/vfsemu/pathutil"
	"github.com/fakefsgo/vfsemu/perms"
)

// Octal is a mode-like value that, when sourced from a string option
// ("022"), is parsed in base 8 rather than base 10, for the umask option.
type Octal uint16

// Config is every recognized engine construction option.
type Config struct {
	OS                    string `mapstructure:"os"`
	IsCaseSensitive       *bool  `mapstructure:"is_case_sensitive"`
	PathSeparator         string `mapstructure:"path_separator"`
	AlternativePathSeparator string `mapstructure:"alternative_path_separator"`
	ShuffleListdirResults bool   `mapstructure:"shuffle_listdir_results"`
	AllowRootUser         bool   `mapstructure:"allow_root_user"`
	PatchOpenCode         bool   `mapstructure:"patch_open_code"`
	PatchDefaultArgs      bool   `mapstructure:"patch_default_args"`
	UseKnownPatches       bool   `mapstructure:"use_known_patches"`
	Umask                 Octal  `mapstructure:"umask"`
	UID                   *uint32 `mapstructure:"uid"`
	GID                   *uint32 `mapstructure:"gid"`
}

// DecodeHook parses string values bound for the Octal type in base 8
// (an optional "0o" prefix is accepted); every other value passes through
// unchanged.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
			if f.Kind() != reflect.String {
				return data, nil
			}
			if t != reflect.TypeOf(Octal(0)) {
				return data, nil
			}
			s := data.(string)
			v, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid umask %q: %w", s, err)
			}
			return Octal(v), nil
		},
	)
}

// Decode converts a loosely-typed option map into a Config, applying
// DefaultConfig's values for anything absent from opts.
func Decode(opts map[string]any) (Config, error) {
	cfg := DefaultConfig()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(opts); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the option set a freshly constructed engine
// assumes absent explicit overrides: no OS override (Profile falls back
// to the OS its caller passes, with that OS's default case sensitivity),
// no shuffling, root override enabled, and the standard 022 umask.
func DefaultConfig() Config {
	return Config{
		OS:              "",
		ShuffleListdirResults: false,
		AllowRootUser:   true,
		UseKnownPatches: true,
		Umask:           Octal(perms.DefaultUmask),
	}
}

// Profile builds the pathutil.Profile this Config implies, defaulting OS
// to the caller-supplied hostOS when unset, so engineconfig itself stays
// independent of runtime.GOOS. vfs.New passes pathutil.Linux.
func (c Config) Profile(hostOS pathutil.OS) (pathutil.Profile, error) {
	osValue := hostOS
	if c.OS != "" {
		parsed, ok := pathutil.ParseOS(c.OS)
		if !ok {
			return pathutil.Profile{}, fmt.Errorf("unrecognized os option: %q", c.OS)
		}
		osValue = parsed
	}

	profile := pathutil.DefaultProfile(osValue)

	if c.IsCaseSensitive != nil {
		profile.CaseSensitive = *c.IsCaseSensitive
	}
	if c.PathSeparator != "" {
		profile.Separator = []rune(c.PathSeparator)[0]
	}
	if c.AlternativePathSeparator != "" {
		profile.AltSeparator = []rune(c.AlternativePathSeparator)[0]
	}

	return profile, nil
}
