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

// Package chain provides the per-network chain parameters: address version,
// chain epoch, milestone schedule, and genesis data. Parameters for the
// known corvus networks are embedded and can be overridden from a file.
package chain

import (
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoMilestones      = errors.New("no milestones defined")
	ErrBadMilestoneOrder = errors.New("milestone heights must be ascending")
)

// Milestone is one entry in the chain's height-indexed parameter schedule.
// A milestone applies from its height until the next milestone's height.
type Milestone struct {
	Height          uint64 `yaml:"height"`
	ActiveDelegates int    `yaml:"activeDelegates"`
	BlockTime       uint   `yaml:"blockTime"`
	Reward          uint64 `yaml:"reward"`
}

// Params describes a corvus network.
type Params struct {
	Name             string      `yaml:"name"`
	AddressVersion   uint8       `yaml:"addressVersion"`
	Epoch            time.Time   `yaml:"epoch"`
	GenesisBlockHash string      `yaml:"genesisBlockHash"`
	GenesisWallets   []string    `yaml:"genesisWallets"`
	Milestones       []Milestone `yaml:"milestones"`
}

func NewParamsFromReader(r io.Reader) (*Params, error) {
	var ret Params
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&ret); err != nil {
		return nil, err
	}
	if err := ret.validate(); err != nil {
		return nil, err
	}
	return &ret, nil
}

func NewParamsFromFile(file string) (*Params, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewParamsFromReader(f)
}

// NewParamsFromEmbedFS loads chain parameters from an embedded filesystem.
// The file parameter is a path relative to the root of the embedded FS.
func NewParamsFromEmbedFS(fs embed.FS, file string) (*Params, error) {
	f, err := fs.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewParamsFromReader(f)
}

func (p *Params) validate() error {
	if len(p.Milestones) == 0 {
		return ErrNoMilestones
	}
	var lastHeight uint64
	for i, m := range p.Milestones {
		if i > 0 && m.Height <= lastHeight {
			return fmt.Errorf(
				"%w: %d follows %d",
				ErrBadMilestoneOrder,
				m.Height,
				lastHeight,
			)
		}
		lastHeight = m.Height
		if m.ActiveDelegates <= 0 {
			return fmt.Errorf(
				"milestone at height %d has no active delegates",
				m.Height,
			)
		}
	}
	return nil
}

// MilestoneFor returns the milestone in effect at the given height
func (p *Params) MilestoneFor(height uint64) Milestone {
	ret := p.Milestones[0]
	for _, m := range p.Milestones[1:] {
		if m.Height > height {
			break
		}
		ret = m
	}
	return ret
}

// ActiveDelegates returns the size of the active delegate set at the given
// height
func (p *Params) ActiveDelegates(height uint64) int {
	return p.MilestoneFor(height).ActiveDelegates
}

// GenesisHashBytes returns the genesis block hash as raw bytes
func (p *Params) GenesisHashBytes() ([]byte, error) {
	ret, err := hex.DecodeString(p.GenesisBlockHash)
	if err != nil {
		return nil, fmt.Errorf("bad genesis block hash: %w", err)
	}
	return ret, nil
}

// TimeFromEpoch converts a chain timestamp, expressed as seconds since the
// chain epoch, to wall-clock time
func (p *Params) TimeFromEpoch(offset uint32) time.Time {
	return p.Epoch.Add(time.Duration(offset) * time.Second)
}
