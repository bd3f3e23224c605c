package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/earthmind-network/earthmind-go/common"
	"github.com/earthmind-network/earthmind-go/contract/config"
	"github.com/earthmind-network/earthmind-go/events"
)

type captureSink struct {
	published []*events.EventLog
}

func (s *captureSink) Publish(event *events.EventLog) error {
	s.published = append(s.published, event)
	return nil
}

func (s *captureSink) last(t *testing.T) *events.EventLog {
	t.Helper()
	require.NotEmpty(t, s.published)
	return s.published[len(s.published)-1]
}

func newTestContract(t *testing.T) *Contract {
	t.Helper()
	return New(common.NewLogger("test_contract"), &captureSink{})
}

func newTestContractWithSink(t *testing.T) (*Contract, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	return New(common.NewLogger("test_contract"), sink), sink
}

func minerCtx(miner AccountId, now time.Time) CallContext {
	return CallContext{
		Caller:          miner,
		Now:             now,
		AttachedDeposit: config.MinMinerStake,
	}
}

func validatorCtx(validator AccountId, now time.Time) CallContext {
	return CallContext{
		Caller:          validator,
		Now:             now,
		AttachedDeposit: config.MinValidatorStake,
	}
}

func TestRegisterMiner(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	now := time.Now()

	result, err := c.RegisterMiner(minerCtx("miner1.near", now))
	req.NoError(err)
	req.Equal(RegisterSuccess, result)
	req.True(c.IsMinerRegistered("miner1.near"))
	req.Equal(events.TypeRegisterMiner, sink.last(t).Event)

	result, err = c.RegisterMiner(minerCtx("miner1.near", now))
	req.NoError(err)
	req.Equal(RegisterAlreadyRegistered, result)
	req.Len(sink.published, 1)

	req.False(c.IsMinerRegistered("miner2.near"))
}

func TestRegisterMinerInsufficientStake(t *testing.T) {
	req := require.New(t)

	c := newTestContract(t)

	ctx := minerCtx("miner1.near", time.Now())
	ctx.AttachedDeposit = config.MinMinerStake - 1
	_, err := c.RegisterMiner(ctx)
	req.ErrorIs(err, ErrInsufficientStake)
	req.False(c.IsMinerRegistered("miner1.near"))
}

func TestRegisterValidator(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	now := time.Now()

	result, err := c.RegisterValidator(validatorCtx("validator1.near", now))
	req.NoError(err)
	req.Equal(RegisterSuccess, result)
	req.True(c.IsValidatorRegistered("validator1.near"))
	req.Equal(events.TypeRegisterValidator, sink.last(t).Event)

	// A miner stake is not enough for a validator.
	ctx := validatorCtx("validator2.near", now)
	ctx.AttachedDeposit = config.MinMinerStake
	_, err = c.RegisterValidator(ctx)
	req.ErrorIs(err, ErrInsufficientStake)

	result, err = c.RegisterValidator(validatorCtx("validator1.near", now))
	req.NoError(err)
	req.Equal(RegisterAlreadyRegistered, result)
}

func TestRegisterValidatorDoesNotExcludeMinerRole(t *testing.T) {
	req := require.New(t)

	c := newTestContract(t)
	now := time.Now()

	_, err := c.RegisterMiner(minerCtx("both.near", now))
	req.NoError(err)
	result, err := c.RegisterValidator(validatorCtx("both.near", now))
	req.NoError(err)
	req.Equal(RegisterSuccess, result)

	req.True(c.IsMinerRegistered("both.near"))
	req.True(c.IsValidatorRegistered("both.near"))
}

func TestRegisterProtocol(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)

	ctx := CallContext{
		Caller:          "protocol.near",
		Now:             time.Now(),
		AttachedDeposit: config.ProtocolRegistrationFee,
	}
	result, err := c.RegisterProtocol(ctx)
	req.NoError(err)
	req.Equal(RegisterSuccess, result)
	req.True(c.IsAccountRegistered("protocol.near"))
	req.Equal(events.TypeRegisterProtocol, sink.last(t).Event)

	result, err = c.RegisterProtocol(ctx)
	req.NoError(err)
	req.Equal(RegisterAlreadyRegistered, result)

	ctx.Caller = "poor.near"
	ctx.AttachedDeposit = config.ProtocolRegistrationFee - 1
	_, err = c.RegisterProtocol(ctx)
	req.ErrorIs(err, ErrInsufficientStake)
	req.False(c.IsAccountRegistered("poor.near"))
}

func TestRequestGovernanceDecision(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	now := time.Now()
	ctx := CallContext{Caller: "earthmind.near", Now: now}

	req.Equal(RegisterSuccess, c.RequestGovernanceDecision(ctx, nftMessage))
	req.Equal(events.TypeRegisterRequest, sink.last(t).Event)

	request, ok := c.GetRequestByID(nftRequestID)
	req.True(ok)
	req.Equal(AccountId("earthmind.near"), request.Sender)
	req.Equal(nftRequestID, request.RequestID)
	req.Equal(now.UnixNano(), request.StartTime)
	req.Empty(request.MinersProposals)
	req.Empty(request.ValidatorsProposals)

	// Identical content maps to the same id, even from another caller.
	other := CallContext{Caller: "other.near", Now: now.Add(time.Minute)}
	req.Equal(RegisterAlreadyRegistered, c.RequestGovernanceDecision(other, nftMessage))

	request, _ = c.GetRequestByID(nftRequestID)
	req.Equal(AccountId("earthmind.near"), request.Sender)

	_, ok = c.GetRequestByID(protocolRequestID)
	req.False(ok)
}

// setupRequest registers the standard participants and opens a request
// started at the returned base time.
func setupRequest(t *testing.T, c *Contract) time.Time {
	t.Helper()
	req := require.New(t)

	base := time.Now()
	for _, miner := range slateOfTen() {
		_, err := c.RegisterMiner(minerCtx(miner, base))
		req.NoError(err)
	}
	_, err := c.RegisterValidator(validatorCtx("validator1.near", base))
	req.NoError(err)

	ctx := CallContext{Caller: "earthmind.near", Now: base}
	req.Equal(RegisterSuccess, c.RequestGovernanceDecision(ctx, nftMessage))
	return base
}

func TestCommitByMiner(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	base := setupRequest(t, c)

	ctx := minerCtx("miner1.near", base.Add(time.Second))
	hash := c.HashMinerAnswer(ctx, nftRequestID, true, nftMessage)

	req.Equal(ActionSuccess, c.CommitByMiner(ctx, nftRequestID, hash))
	req.Equal(events.TypeCommitMiner, sink.last(t).Event)

	proposal := c.Requests[nftRequestID].MinersProposals["miner1.near"]
	req.Equal(hash, proposal.ProposalHash)
	req.False(proposal.IsRevealed)

	// Second commit from the same miner is rejected.
	req.Equal(ActionFail, c.CommitByMiner(ctx, nftRequestID, hash))

	// Unregistered miners and unknown requests are rejected.
	req.Equal(ActionFail, c.CommitByMiner(minerCtx("stranger.near", base.Add(time.Second)), nftRequestID, hash))
	req.Equal(ActionFail, c.CommitByMiner(ctx, protocolRequestID, hash))

	// Outside the CommitMiners window nothing is accepted.
	late := minerCtx("miner2.near", base.Add(31*time.Second))
	req.Equal(ActionFail, c.CommitByMiner(late, nftRequestID, hash))
}

func TestCommitByValidator(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	base := setupRequest(t, c)

	ctx := validatorCtx("validator1.near", base.Add(61*time.Second))
	hash, err := c.HashValidatorAnswer(ctx, nftRequestID, slateOfTen(), nftMessage)
	req.NoError(err)

	// The validator window opens only after both miner windows.
	early := validatorCtx("validator1.near", base.Add(time.Second))
	req.Equal(ActionFail, c.CommitByValidator(early, nftRequestID, hash))

	req.Equal(ActionSuccess, c.CommitByValidator(ctx, nftRequestID, hash))
	req.Equal(events.TypeCommitValidator, sink.last(t).Event)

	req.Equal(ActionFail, c.CommitByValidator(ctx, nftRequestID, hash))
	req.Equal(ActionFail, c.CommitByValidator(validatorCtx("stranger.near", ctx.Now), nftRequestID, hash))
}

func TestRevealByMiner(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	base := setupRequest(t, c)

	commitCtx := minerCtx("miner1.near", base.Add(time.Second))
	hash := c.HashMinerAnswer(commitCtx, nftRequestID, true, nftMessage)
	req.Equal(ActionSuccess, c.CommitByMiner(commitCtx, nftRequestID, hash))

	revealCtx := minerCtx("miner1.near", base.Add(31*time.Second))

	// Wrong answer or wrong message cannot open the commitment.
	result, err := c.RevealByMiner(revealCtx, nftRequestID, false, nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)
	result, err = c.RevealByMiner(revealCtx, nftRequestID, true, protocolMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)

	proposal := c.Requests[nftRequestID].MinersProposals["miner1.near"]
	req.False(proposal.IsRevealed)

	result, err = c.RevealByMiner(revealCtx, nftRequestID, true, nftMessage)
	req.NoError(err)
	req.Equal(ActionSuccess, result)
	req.Equal(events.TypeRevealMiner, sink.last(t).Event)
	req.True(proposal.IsRevealed)
	req.True(proposal.Answer)

	// At most once.
	result, err = c.RevealByMiner(revealCtx, nftRequestID, true, nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)
	req.True(proposal.IsRevealed)
}

func TestRevealByMinerWithoutCommit(t *testing.T) {
	req := require.New(t)

	c := newTestContract(t)
	base := setupRequest(t, c)

	revealCtx := minerCtx("miner2.near", base.Add(31*time.Second))
	result, err := c.RevealByMiner(revealCtx, nftRequestID, true, nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)
}

func TestRevealByMinerWrongStage(t *testing.T) {
	req := require.New(t)

	c := newTestContract(t)
	base := setupRequest(t, c)

	ctx := minerCtx("miner1.near", base.Add(time.Second))
	hash := c.HashMinerAnswer(ctx, nftRequestID, true, nftMessage)
	req.Equal(ActionSuccess, c.CommitByMiner(ctx, nftRequestID, hash))

	// Still in the commit window.
	result, err := c.RevealByMiner(ctx, nftRequestID, true, nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)

	// Window already over.
	late := minerCtx("miner1.near", base.Add(61*time.Second))
	result, err = c.RevealByMiner(late, nftRequestID, true, nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)
}

func TestRevealByValidator(t *testing.T) {
	req := require.New(t)

	c, sink := newTestContractWithSink(t)
	base := setupRequest(t, c)

	commitCtx := validatorCtx("validator1.near", base.Add(61*time.Second))
	hash, err := c.HashValidatorAnswer(commitCtx, nftRequestID, slateOfTen(), nftMessage)
	req.NoError(err)
	req.Equal(ActionSuccess, c.CommitByValidator(commitCtx, nftRequestID, hash))

	revealCtx := validatorCtx("validator1.near", base.Add(91*time.Second))

	// A slate of the wrong size is rejected before hashing.
	result, err := c.RevealByValidator(revealCtx, nftRequestID, slateOfTen()[:9], nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)

	// A reordered slate does not match the commitment.
	reordered := slateOfTen()
	reordered[0], reordered[9] = reordered[9], reordered[0]
	result, err = c.RevealByValidator(revealCtx, nftRequestID, reordered, nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)

	result, err = c.RevealByValidator(revealCtx, nftRequestID, slateOfTen(), nftMessage)
	req.NoError(err)
	req.Equal(ActionSuccess, result)
	req.Equal(events.TypeRevealValidator, sink.last(t).Event)

	proposal := c.Requests[nftRequestID].ValidatorsProposals["validator1.near"]
	req.True(proposal.IsRevealed)
	req.Equal(slateOfTen(), proposal.MinerAddresses)

	// At most once.
	result, err = c.RevealByValidator(revealCtx, nftRequestID, slateOfTen(), nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)
	req.Equal(slateOfTen(), proposal.MinerAddresses)
}

func TestRevealByValidatorUnknownRequest(t *testing.T) {
	req := require.New(t)

	c := newTestContract(t)
	base := setupRequest(t, c)

	revealCtx := validatorCtx("validator1.near", base.Add(91*time.Second))
	result, err := c.RevealByValidator(revealCtx, protocolRequestID, slateOfTen(), nftMessage)
	req.NoError(err)
	req.Equal(ActionFail, result)
}
