package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names
const (
	TypeMsgCreateFeed           = "create_feed"
	TypeMsgSubmitFeedData       = "submit_feed_data"
	TypeMsgFinalizeConsensus    = "finalize_consensus"
	TypeMsgSlashOracle          = "slash_oracle"
	TypeMsgToggleEmergencyPause = "toggle_emergency_pause"
	TypeMsgSetEmergencyAdmin    = "set_emergency_admin"
)

// Msg is implemented by every oracle message. The signer is the caller
// identity supplied by the ledger.
type Msg interface {
	Type() string
	GetSigner() string
	ValidateBasic() error
}

var (
	_ Msg = &MsgCreateFeed{}
	_ Msg = &MsgSubmitFeedData{}
	_ Msg = &MsgFinalizeConsensus{}
	_ Msg = &MsgSlashOracle{}
	_ Msg = &MsgToggleEmergencyPause{}
	_ Msg = &MsgSetEmergencyAdmin{}
)

// MsgServer is the transaction surface of the oracle
type MsgServer interface {
	CreateFeed(context.Context, *MsgCreateFeed) (*MsgCreateFeedResponse, error)
	SubmitFeedData(context.Context, *MsgSubmitFeedData) (*MsgSubmitFeedDataResponse, error)
	FinalizeConsensus(context.Context, *MsgFinalizeConsensus) (*MsgFinalizeConsensusResponse, error)
	SlashOracle(context.Context, *MsgSlashOracle) (*MsgSlashOracleResponse, error)
	ToggleEmergencyPause(context.Context, *MsgToggleEmergencyPause) (*MsgToggleEmergencyPauseResponse, error)
	SetEmergencyAdmin(context.Context, *MsgSetEmergencyAdmin) (*MsgSetEmergencyAdminResponse, error)
}

func validateSigner(signer string) error {
	if _, err := sdk.AccAddressFromBech32(signer); err != nil {
		return ErrInvalidAddress.Wrapf("invalid signer address: %s", err)
	}
	return nil
}

// MsgCreateFeed registers a new feed. Owner only.
type MsgCreateFeed struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type MsgCreateFeedResponse struct {
	FeedId uint64 `json:"feed_id"`
}

// NewMsgCreateFeed creates a new MsgCreateFeed instance
func NewMsgCreateFeed(owner, name string) *MsgCreateFeed {
	return &MsgCreateFeed{Owner: owner, Name: name}
}

func (msg *MsgCreateFeed) Type() string      { return TypeMsgCreateFeed }
func (msg *MsgCreateFeed) GetSigner() string { return msg.Owner }

// ValidateBasic implements Msg
func (msg *MsgCreateFeed) ValidateBasic() error {
	return validateSigner(msg.Owner)
}

// MsgSubmitFeedData submits one price observation backed by a burn
type MsgSubmitFeedData struct {
	Reporter   string   `json:"reporter"`
	FeedId     uint64   `json:"feed_id"`
	Price      math.Int `json:"price"`
	BurnAmount math.Int `json:"burn_amount"`
}

type MsgSubmitFeedDataResponse struct {
	WindowId int64    `json:"window_id"`
	Weight   math.Int `json:"weight"`
}

// NewMsgSubmitFeedData creates a new MsgSubmitFeedData instance
func NewMsgSubmitFeedData(reporter string, feedID uint64, price, burnAmount math.Int) *MsgSubmitFeedData {
	return &MsgSubmitFeedData{
		Reporter:   reporter,
		FeedId:     feedID,
		Price:      price,
		BurnAmount: burnAmount,
	}
}

func (msg *MsgSubmitFeedData) Type() string      { return TypeMsgSubmitFeedData }
func (msg *MsgSubmitFeedData) GetSigner() string { return msg.Reporter }

// ValidateBasic implements Msg. Amount checks are left to the keeper so
// that rejection order matches the submission pipeline.
func (msg *MsgSubmitFeedData) ValidateBasic() error {
	if err := validateSigner(msg.Reporter); err != nil {
		return err
	}
	if msg.Price.IsNil() || msg.BurnAmount.IsNil() {
		return ErrInvalidAmount.Wrap("price and burn amount are required")
	}
	return nil
}

// MsgFinalizeConsensus closes a window. Anyone may call it.
type MsgFinalizeConsensus struct {
	Sender   string `json:"sender"`
	FeedId   uint64 `json:"feed_id"`
	WindowId int64  `json:"window_id"`
}

type MsgFinalizeConsensusResponse struct {
	ConsensusPrice math.Int `json:"consensus_price"`
	Round          uint64   `json:"round"`
}

// NewMsgFinalizeConsensus creates a new MsgFinalizeConsensus instance
func NewMsgFinalizeConsensus(sender string, feedID uint64, windowID int64) *MsgFinalizeConsensus {
	return &MsgFinalizeConsensus{Sender: sender, FeedId: feedID, WindowId: windowID}
}

func (msg *MsgFinalizeConsensus) Type() string      { return TypeMsgFinalizeConsensus }
func (msg *MsgFinalizeConsensus) GetSigner() string { return msg.Sender }

// ValidateBasic implements Msg
func (msg *MsgFinalizeConsensus) ValidateBasic() error {
	if err := validateSigner(msg.Sender); err != nil {
		return err
	}
	if msg.WindowId < 0 {
		return ErrInvalidTimestamp.Wrapf("window id cannot be negative: %d", msg.WindowId)
	}
	return nil
}

// MsgSlashOracle marks a submission invalid and penalizes its author. Owner only.
type MsgSlashOracle struct {
	Owner    string `json:"owner"`
	FeedId   uint64 `json:"feed_id"`
	WindowId int64  `json:"window_id"`
	Reporter string `json:"reporter"`
}

type MsgSlashOracleResponse struct {
	Score uint64 `json:"score"`
}

// NewMsgSlashOracle creates a new MsgSlashOracle instance
func NewMsgSlashOracle(owner string, feedID uint64, windowID int64, reporter string) *MsgSlashOracle {
	return &MsgSlashOracle{Owner: owner, FeedId: feedID, WindowId: windowID, Reporter: reporter}
}

func (msg *MsgSlashOracle) Type() string      { return TypeMsgSlashOracle }
func (msg *MsgSlashOracle) GetSigner() string { return msg.Owner }

// ValidateBasic implements Msg
func (msg *MsgSlashOracle) ValidateBasic() error {
	if err := validateSigner(msg.Owner); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Reporter); err != nil {
		return ErrInvalidAddress.Wrapf("invalid reporter address: %s", err)
	}
	return nil
}

// MsgToggleEmergencyPause flips the global pause flag. Emergency admin only.
type MsgToggleEmergencyPause struct {
	Admin string `json:"admin"`
}

type MsgToggleEmergencyPauseResponse struct {
	Paused bool `json:"paused"`
}

// NewMsgToggleEmergencyPause creates a new MsgToggleEmergencyPause instance
func NewMsgToggleEmergencyPause(admin string) *MsgToggleEmergencyPause {
	return &MsgToggleEmergencyPause{Admin: admin}
}

func (msg *MsgToggleEmergencyPause) Type() string      { return TypeMsgToggleEmergencyPause }
func (msg *MsgToggleEmergencyPause) GetSigner() string { return msg.Admin }

// ValidateBasic implements Msg
func (msg *MsgToggleEmergencyPause) ValidateBasic() error {
	return validateSigner(msg.Admin)
}

// MsgSetEmergencyAdmin rotates the emergency admin. Owner only.
type MsgSetEmergencyAdmin struct {
	Owner    string `json:"owner"`
	NewAdmin string `json:"new_admin"`
}

type MsgSetEmergencyAdminResponse struct{}

// NewMsgSetEmergencyAdmin creates a new MsgSetEmergencyAdmin instance
func NewMsgSetEmergencyAdmin(owner, newAdmin string) *MsgSetEmergencyAdmin {
	return &MsgSetEmergencyAdmin{Owner: owner, NewAdmin: newAdmin}
}

func (msg *MsgSetEmergencyAdmin) Type() string      { return TypeMsgSetEmergencyAdmin }
func (msg *MsgSetEmergencyAdmin) GetSigner() string { return msg.Owner }

// ValidateBasic implements Msg
func (msg *MsgSetEmergencyAdmin) ValidateBasic() error {
	if err := validateSigner(msg.Owner); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.NewAdmin); err != nil {
		return ErrInvalidAddress.Wrapf("invalid new admin address: %s", err)
	}
	return nil
}
