package contract

import (
	"time"
)

// AccountId identifies a participant. Opaque, comparable, used as a map key.
type AccountId string

func (a AccountId) String() string {
	return string(a)
}

// Hash is a lowercase hex encoded keccak-256 digest.
type Hash = string

// Stake is an amount of value attached to a call, in base token units.
type Stake uint64

// RegisterResult is the outcome of a registration-style operation.
type RegisterResult string

// ActionResult is the outcome of a commit or reveal operation.
type ActionResult string

const (
	RegisterSuccess           = RegisterResult("Success")
	RegisterAlreadyRegistered = RegisterResult("AlreadyRegistered")

	ActionSuccess = ActionResult("Success")
	ActionFail    = ActionResult("Fail")
)

// CallContext carries the per-call inputs the execution environment supplies:
// the caller's identity, the current time and the value attached to the call.
type CallContext struct {
	Caller          AccountId
	Now             time.Time
	AttachedDeposit Stake
}

// MinerProposal is a miner's committed answer for a single request. Answer
// and IsRevealed are written exactly once, at reveal time.
type MinerProposal struct {
	ProposalHash Hash `json:"proposal_hash"`
	Answer       bool `json:"answer"`
	IsRevealed   bool `json:"is_revealed"`
}

// ValidatorProposal is a validator's committed ranking for a single request.
// MinerAddresses holds exactly SlateSize entries once revealed.
type ValidatorProposal struct {
	ProposalHash   Hash        `json:"proposal_hash"`
	IsRevealed     bool        `json:"is_revealed"`
	MinerAddresses []AccountId `json:"miner_addresses"`
}

// Request is one governance question under deliberation. StartTime anchors
// the stage clock and is immutable after creation.
type Request struct {
	Sender              AccountId                        `json:"sender"`
	RequestID           Hash                             `json:"request_id"`
	StartTime           int64                            `json:"start_time"`
	MinersProposals     map[AccountId]*MinerProposal     `json:"miners_proposals"`
	ValidatorsProposals map[AccountId]*ValidatorProposal `json:"validators_proposals"`
}
