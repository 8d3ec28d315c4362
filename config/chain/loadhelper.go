// Copyright 2026 Corvus Labs
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

package chain

import (
	"fmt"
	"os"
)

// LoadParamsWithFallback loads chain parameters from cfgPath when it
// exists, and otherwise falls back to the embedded parameters for the
// named network.
func LoadParamsWithFallback(cfgPath, network string) (*Params, error) {
	if cfgPath != "" {
		_, err := os.Stat(cfgPath)
		if err == nil {
			return NewParamsFromFile(cfgPath)
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"failed to check chain parameter file %q: %w",
				cfgPath,
				err,
			)
		}
	}
	embedded := "networks/" + network + ".yaml"
	ret, err := NewParamsFromEmbedFS(EmbeddedNetworksFS, embedded)
	if err != nil {
		return nil, fmt.Errorf(
			"no embedded chain parameters for network %q: %w",
			network,
			err,
		)
	}
	return ret, nil
}
