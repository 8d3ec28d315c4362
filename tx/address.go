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

package tx

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// AddressFromPublicKey derives the base58check address for a compressed
// public key under the given network address version
func AddressFromPublicKey(publicKey []byte, version byte) (string, error) {
	if len(publicKey) != PublicKeySize {
		return "", fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrBadPublicKey,
			PublicKeySize,
			len(publicKey),
		)
	}
	return base58.CheckEncode(btcutil.Hash160(publicKey), version), nil
}

// DecodeAddress checks an address and returns its public key hash and
// network address version
func DecodeAddress(address string) ([]byte, byte, error) {
	payload, version, err := base58.CheckDecode(address)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrBadAddress, address, err)
	}
	return payload, version, nil
}
