package contract

import (
	"fmt"

	"github.com/earthmind-network/earthmind-go/common"
	"github.com/earthmind-network/earthmind-go/contract/config"
	"github.com/earthmind-network/earthmind-go/events"
)

// Contract is the whole oracle state: participant registries plus the
// request store. Every public operation takes the state explicitly along
// with a CallContext; nothing is read from ambient globals. Calls are
// expected to be serialized by the owner (see the node service).
type Contract struct {
	Miners     map[AccountId]Stake `json:"miners"`
	Validators map[AccountId]Stake `json:"validators"`
	Protocols  map[AccountId]Stake `json:"protocols"`
	Requests   map[Hash]*Request   `json:"requests"`

	logger common.Logger
	sink   events.Sink
}

func New(logger common.Logger, sink events.Sink) *Contract {
	return &Contract{
		Miners:     make(map[AccountId]Stake),
		Validators: make(map[AccountId]Stake),
		Protocols:  make(map[AccountId]Stake),
		Requests:   make(map[Hash]*Request),
		logger:     logger,
		sink:       sink,
	}
}

// Attach re-binds the runtime collaborators after a snapshot restore.
func (c *Contract) Attach(logger common.Logger, sink events.Sink) {
	c.logger = logger
	c.sink = sink
	if c.Miners == nil {
		c.Miners = make(map[AccountId]Stake)
	}
	if c.Validators == nil {
		c.Validators = make(map[AccountId]Stake)
	}
	if c.Protocols == nil {
		c.Protocols = make(map[AccountId]Stake)
	}
	if c.Requests == nil {
		c.Requests = make(map[Hash]*Request)
	}
}

func (c *Contract) emit(event *events.EventLog) {
	if err := c.sink.Publish(event); err != nil {
		c.logger.Log("failed to publish event %s: %v", event.Event, err)
	}
}

// RegisterMiner admits the caller into the miner registry. The stake gate
// runs before any state mutation so a rejected call leaves no trace beyond
// the log.
func (c *Contract) RegisterMiner(ctx CallContext) (RegisterResult, error) {
	if ctx.AttachedDeposit < config.MinMinerStake {
		return "", fmt.Errorf("%w: miner deposit %d < %d", ErrInsufficientStake, ctx.AttachedDeposit, Stake(config.MinMinerStake))
	}

	if c.IsMinerRegistered(ctx.Caller) {
		c.logger.Log("Attempted to register an already registered miner: %s", ctx.Caller)
		return RegisterAlreadyRegistered, nil
	}

	c.Miners[ctx.Caller] = ctx.AttachedDeposit

	c.emit(events.NewRegisterMiner(ctx.Caller.String()))

	return RegisterSuccess, nil
}

func (c *Contract) IsMinerRegistered(minerID AccountId) bool {
	_, ok := c.Miners[minerID]
	return ok
}

// RegisterValidator mirrors RegisterMiner against the validator registry.
// The two registries are disjoint on purpose: an account may hold both roles.
func (c *Contract) RegisterValidator(ctx CallContext) (RegisterResult, error) {
	if ctx.AttachedDeposit < config.MinValidatorStake {
		return "", fmt.Errorf("%w: validator deposit %d < %d", ErrInsufficientStake, ctx.AttachedDeposit, Stake(config.MinValidatorStake))
	}

	if c.IsValidatorRegistered(ctx.Caller) {
		c.logger.Log("Attempted to register an already registered validator: %s", ctx.Caller)
		return RegisterAlreadyRegistered, nil
	}

	c.Validators[ctx.Caller] = ctx.AttachedDeposit

	c.emit(events.NewRegisterValidator(ctx.Caller.String()))

	return RegisterSuccess, nil
}

func (c *Contract) IsValidatorRegistered(validatorID AccountId) bool {
	_, ok := c.Validators[validatorID]
	return ok
}

// RegisterProtocol admits a consumer protocol account against the
// registration fee.
func (c *Contract) RegisterProtocol(ctx CallContext) (RegisterResult, error) {
	if ctx.AttachedDeposit < config.ProtocolRegistrationFee {
		return "", fmt.Errorf("%w: protocol deposit %d < %d", ErrInsufficientStake, ctx.AttachedDeposit, Stake(config.ProtocolRegistrationFee))
	}

	if c.IsAccountRegistered(ctx.Caller) {
		c.logger.Log("Attempted to register an already registered account: %s", ctx.Caller)
		return RegisterAlreadyRegistered, nil
	}

	c.Protocols[ctx.Caller] = ctx.AttachedDeposit

	c.emit(events.NewRegisterProtocol(ctx.Caller.String()))

	return RegisterSuccess, nil
}

func (c *Contract) IsAccountRegistered(accountID AccountId) bool {
	_, ok := c.Protocols[accountID]
	return ok
}

// RequestGovernanceDecision opens a new request keyed by the content hash of
// the message. Submitting identical content again is AlreadyRegistered, not
// a second request.
func (c *Contract) RequestGovernanceDecision(ctx CallContext, message string) RegisterResult {
	newRequestID := RequestIDFromMessage(message)

	if _, ok := c.Requests[newRequestID]; ok {
		c.logger.Log("Attempted to register an already registered request: %s", newRequestID)
		return RegisterAlreadyRegistered
	}

	c.Requests[newRequestID] = &Request{
		Sender:              ctx.Caller,
		RequestID:           newRequestID,
		StartTime:           ctx.Now.UnixNano(),
		MinersProposals:     make(map[AccountId]*MinerProposal),
		ValidatorsProposals: make(map[AccountId]*ValidatorProposal),
	}

	c.emit(events.NewRegisterRequest(newRequestID))

	return RegisterSuccess
}

// GetRequestByID looks a request up by its content-derived identifier.
func (c *Contract) GetRequestByID(requestID Hash) (*Request, bool) {
	request, ok := c.Requests[requestID]
	return request, ok
}

// requestChecked fetches a request whose existence was already validated in
// the same call. Requests are never deleted, so a miss here is a logic bug,
// not a user-facing failure.
func (c *Contract) requestChecked(requestID Hash) (*Request, error) {
	request, ok := c.Requests[requestID]
	if !ok {
		return nil, fmt.Errorf("%w: request %s vanished after existence check", ErrInvariant, requestID)
	}
	return request, nil
}

// CommitByMiner stores a miner's hashed answer. Checks run in order and each
// failure short-circuits with a logged Fail; none of them mutates state.
func (c *Contract) CommitByMiner(ctx CallContext, requestID Hash, answerHash Hash) ActionResult {
	miner := ctx.Caller

	if !c.IsMinerRegistered(miner) {
		c.logger.Log("Miner not registered: %s", miner)
		return ActionFail
	}

	request, ok := c.Requests[requestID]
	if !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return ActionFail
	}

	if stage := StageAt(request.StartTime, ctx.Now); stage != StageCommitMiners {
		c.logger.Log("Not at CommitMiners stage: %s", stage)
		return ActionFail
	}

	if _, ok := request.MinersProposals[miner]; ok {
		c.logger.Log("This miner have a commit answer: %s", miner)
		return ActionFail
	}

	request.MinersProposals[miner] = &MinerProposal{
		ProposalHash: answerHash,
		Answer:       false,
		IsRevealed:   false,
	}

	c.emit(events.NewCommitMiner(requestID, answerHash))

	return ActionSuccess
}

// CommitByValidator stores a validator's hashed slate during the
// CommitValidators window.
func (c *Contract) CommitByValidator(ctx CallContext, requestID Hash, answerHash Hash) ActionResult {
	validator := ctx.Caller

	if !c.IsValidatorRegistered(validator) {
		c.logger.Log("Validator is not registered: %s", validator)
		return ActionFail
	}

	request, ok := c.Requests[requestID]
	if !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return ActionFail
	}

	if stage := StageAt(request.StartTime, ctx.Now); stage != StageCommitValidators {
		c.logger.Log("Not at CommitValidators stage: %s", stage)
		return ActionFail
	}

	if _, ok := request.ValidatorsProposals[validator]; ok {
		c.logger.Log("This validator have a commit answer: %s", validator)
		return ActionFail
	}

	request.ValidatorsProposals[validator] = &ValidatorProposal{
		ProposalHash:   answerHash,
		IsRevealed:     false,
		MinerAddresses: []AccountId{},
	}

	c.emit(events.NewCommitValidator(requestID, answerHash))

	return ActionSuccess
}

// RevealByMiner opens a miner's commitment. The recomputed hash of
// (request, caller, answer, message) must match the stored commitment byte
// for byte; a proposal reveals at most once.
func (c *Contract) RevealByMiner(ctx CallContext, requestID Hash, answer bool, message string) (ActionResult, error) {
	miner := ctx.Caller

	if !c.IsMinerRegistered(miner) {
		c.logger.Log("Miner not registered: %s", miner)
		return ActionFail, nil
	}

	if _, ok := c.GetRequestByID(requestID); !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return ActionFail, nil
	}

	request, err := c.requestChecked(requestID)
	if err != nil {
		return "", err
	}

	if stage := StageAt(request.StartTime, ctx.Now); stage != StageRevealMiners {
		c.logger.Log("Not at RevealMiners stage: %s", stage)
		return ActionFail, nil
	}

	proposal, ok := request.MinersProposals[miner]
	if !ok {
		c.logger.Log("Proposal not found")
		return ActionFail, nil
	}

	if proposal.IsRevealed {
		c.logger.Log("Proposal already revealed")
		return ActionFail, nil
	}

	if proposal.ProposalHash != minerAnswerHash(requestID, miner, answer, message) {
		c.logger.Log("Answer don't match")
		return ActionFail, nil
	}

	proposal.Answer = answer
	proposal.IsRevealed = true

	c.emit(events.NewRevealMiner(requestID, answer, message))

	return ActionSuccess, nil
}

// RevealByValidator opens a validator's slate. The slate must contain
// exactly SlateSize miners; it is never truncated or padded.
func (c *Contract) RevealByValidator(ctx CallContext, requestID Hash, answer []AccountId, message string) (ActionResult, error) {
	validator := ctx.Caller

	if !c.IsValidatorRegistered(validator) {
		c.logger.Log("Validator is not registered: %s", validator)
		return ActionFail, nil
	}

	if _, ok := c.GetRequestByID(requestID); !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return ActionFail, nil
	}

	request, err := c.requestChecked(requestID)
	if err != nil {
		return "", err
	}

	if stage := StageAt(request.StartTime, ctx.Now); stage != StageRevealValidators {
		c.logger.Log("Not at RevealValidators stage: %s", stage)
		return ActionFail, nil
	}

	proposal, ok := request.ValidatorsProposals[validator]
	if !ok {
		c.logger.Log("Proposal not found")
		return ActionFail, nil
	}

	if proposal.IsRevealed {
		c.logger.Log("Proposal already revealed")
		return ActionFail, nil
	}

	if len(answer) != config.SlateSize {
		c.logger.Log("Invalid answer")
		return ActionFail, nil
	}

	if proposal.ProposalHash != validatorAnswerHash(requestID, validator, answer, message) {
		c.logger.Log("Answer don't match")
		return ActionFail, nil
	}

	proposal.IsRevealed = true
	proposal.MinerAddresses = append(proposal.MinerAddresses, answer...)

	answerForLog := make([]string, len(answer))
	for i, id := range answer {
		answerForLog[i] = id.String()
	}
	c.emit(events.NewRevealValidator(requestID, answerForLog, message))

	return ActionSuccess, nil
}
