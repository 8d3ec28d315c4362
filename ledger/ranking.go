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

package ledger

import (
	"bytes"
	"cmp"
	"slices"
)

// RecomputeDelegateRanking rebuilds every delegate's vote balance from its
// voters' current balances and assigns 1-based ranks: highest vote balance
// first, ties broken by ascending public key byte order. Ranks are always
// recomputed wholesale, never patched.
func (s *WalletStore) RecomputeDelegateRanking() {
	delegates := s.Delegates()
	for _, delegate := range delegates {
		delegate.VoteBalance = 0
		delegate.Rate = 0
	}
	s.byAddress.Range(func(_ string, wallet *Wallet) bool {
		if len(wallet.Vote) == 0 {
			return true
		}
		if delegate, ok := s.byPublicKey.Load(string(wallet.Vote)); ok {
			if delegate.IsDelegate() {
				delegate.VoteBalance += wallet.Balance
			}
		}
		return true
	})
	slices.SortFunc(delegates, func(a, b *Wallet) int {
		if c := cmp.Compare(b.VoteBalance, a.VoteBalance); c != 0 {
			return c
		}
		return bytes.Compare(a.PublicKey, b.PublicKey)
	})
	for i, delegate := range delegates {
		delegate.Rate = i + 1
	}
}

// TopDelegates returns up to n delegates ordered by rank
func (s *WalletStore) TopDelegates(n int) []*Wallet {
	delegates := s.Delegates()
	slices.SortFunc(delegates, func(a, b *Wallet) int {
		return cmp.Compare(a.Rate, b.Rate)
	})
	if len(delegates) > n {
		delegates = delegates[:n]
	}
	return delegates
}
