package types

import (
	"fmt"
)

// GenesisState is the full exported state of the oracle
type GenesisState struct {
	Params      Params                  `json:"params"`
	AdminState  AdminState              `json:"admin_state"`
	Feeds       []Feed                  `json:"feeds"`
	Reputations []Reputation            `json:"reputations"`
	Submissions []Submission            `json:"submissions"`
	Rounds      []ConsensusRound        `json:"rounds"`
	History     []ConsensusHistoryEntry `json:"history"`
}

// DefaultGenesis returns the default genesis state for the oracle module.
// Owner and emergency admin are empty and must be filled before InitGenesis.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Feeds:       []Feed{},
		Reputations: []Reputation{},
		Submissions: []Submission{},
		Rounds:      []ConsensusRound{},
		History:     []ConsensusHistoryEntry{},
	}
}

// NewGenesisState returns the default genesis with the two principals set
func NewGenesisState(owner, emergencyAdmin string) *GenesisState {
	gs := DefaultGenesis()
	gs.AdminState = AdminState{Owner: owner, EmergencyAdmin: emergencyAdmin}
	return gs
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if err := gs.AdminState.Validate(); err != nil {
		return ErrInvalidGenesis.Wrap(err.Error())
	}

	feeds := make(map[uint64]bool, len(gs.Feeds))
	for _, f := range gs.Feeds {
		if err := f.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("feed %d: %s", f.Id, err)
		}
		if feeds[f.Id] {
			return ErrInvalidGenesis.Wrapf("duplicate feed %d", f.Id)
		}
		if f.Id > gs.AdminState.FeedCount {
			return ErrInvalidGenesis.Wrapf("feed %d exceeds feed count %d", f.Id, gs.AdminState.FeedCount)
		}
		feeds[f.Id] = true
	}
	if uint64(len(gs.Feeds)) != gs.AdminState.FeedCount {
		return ErrInvalidGenesis.Wrapf("feed count %d does not match %d feeds", gs.AdminState.FeedCount, len(gs.Feeds))
	}

	reporters := make(map[string]bool, len(gs.Reputations))
	for _, r := range gs.Reputations {
		if reporters[r.Reporter] {
			return ErrInvalidGenesis.Wrapf("duplicate reputation for %s", r.Reporter)
		}
		if r.Score < gs.Params.MinScore || r.Score > gs.Params.MaxScore {
			return ErrInvalidGenesis.Wrapf("reputation score %d of %s outside bounds", r.Score, r.Reporter)
		}
		reporters[r.Reporter] = true
	}

	submissions := make(map[string]bool, len(gs.Submissions))
	for _, s := range gs.Submissions {
		if !feeds[s.FeedId] {
			return ErrInvalidGenesis.Wrapf("submission references unknown feed %d", s.FeedId)
		}
		key := fmt.Sprintf("%d/%d/%s", s.FeedId, s.WindowId, s.Reporter)
		if submissions[key] {
			return ErrInvalidGenesis.Wrapf("duplicate submission %s", key)
		}
		submissions[key] = true
	}

	for _, r := range gs.Rounds {
		if !feeds[r.FeedId] {
			return ErrInvalidGenesis.Wrapf("round references unknown feed %d", r.FeedId)
		}
	}

	for _, h := range gs.History {
		if !feeds[h.FeedId] {
			return ErrInvalidGenesis.Wrapf("history entry references unknown feed %d", h.FeedId)
		}
	}

	return nil
}
