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

package types

const (
	TransactionBlobKeyPrefix = "t"
)

// TransactionBlobKey returns the blob key for a serialized transaction
// payload. Block headers are fully represented by metadata rows, so only
// transaction payloads live in the blob store.
func TransactionBlobKey(hash []byte) []byte {
	key := []byte(TransactionBlobKeyPrefix)
	key = append(key, hash...)
	return key
}
