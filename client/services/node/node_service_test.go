package node

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/earthmind-network/earthmind-go/client/api/dto"
	clientconfig "github.com/earthmind-network/earthmind-go/client/config"
	"github.com/earthmind-network/earthmind-go/client/modules/state"
	"github.com/earthmind-network/earthmind-go/common"
	"github.com/earthmind-network/earthmind-go/contract"
	"github.com/earthmind-network/earthmind-go/contract/config"
	"github.com/earthmind-network/earthmind-go/events"
)

const (
	testMessage   = "It's a cool NFT"
	testRequestID = "0504fbdd23f833749a13dcde971238ba62bdde0ed02ea5424f5a522f50fae726"
)

func newTestNode(t *testing.T) (*BaseNodeService, *state.LevelDBState) {
	t.Helper()

	st, err := state.NewLevelDBState(t.TempDir(), "test_topic")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	node, err := NewNode(clientconfig.Default(), st, common.NewLogger("test_node"), events.NoopSink{})
	require.NoError(t, err)
	return node, st
}

func testSlate() []string {
	return []string{
		"miner1.near", "miner2.near", "miner3.near", "miner4.near", "miner5.near",
		"miner6.near", "miner7.near", "miner8.near", "miner9.near", "miner10.near",
	}
}

func TestNodeService_Registration(t *testing.T) {
	req := require.New(t)

	node, _ := newTestNode(t)

	result, err := node.RegisterMiner(&dto.RegisterParticipantDTO{
		Account: "miner1.near",
		Deposit: config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)
	req.True(node.IsMinerRegistered(&dto.AccountIdDTO{Account: "miner1.near"}))

	result, err = node.RegisterMiner(&dto.RegisterParticipantDTO{
		Account: "miner1.near",
		Deposit: config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterAlreadyRegistered, result)

	_, err = node.RegisterValidator(&dto.RegisterParticipantDTO{
		Account: "validator1.near",
		Deposit: config.TokenUnit,
	})
	req.Error(err)
	req.False(node.IsValidatorRegistered(&dto.AccountIdDTO{Account: "validator1.near"}))

	result, err = node.RegisterValidator(&dto.RegisterParticipantDTO{
		Account: "validator1.near",
		Deposit: 2 * config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)

	req.True(node.IsAccountRegistered(&dto.AccountIdDTO{Account: "miner1.near"}))
	req.False(node.IsAccountRegistered(&dto.AccountIdDTO{Account: "stranger.near"}))
}

func TestNodeService_FullRound(t *testing.T) {
	req := require.New(t)

	node, _ := newTestNode(t)

	base := time.Now()
	now := base
	node.nowFn = func() time.Time { return now }

	for _, miner := range testSlate() {
		result, err := node.RegisterMiner(&dto.RegisterParticipantDTO{
			Account: miner,
			Deposit: config.TokenUnit,
		})
		req.NoError(err)
		req.Equal(contract.RegisterSuccess, result)
	}
	result, err := node.RegisterValidator(&dto.RegisterParticipantDTO{
		Account: "validator1.near",
		Deposit: 2 * config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)

	result, err = node.RequestGovernanceDecision(&dto.GovernanceDecisionDTO{
		Sender:  "earthmind.near",
		Deposit: config.TokenUnit,
		Message: testMessage,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)

	request, err := node.GetRequestByID(&dto.RequestIdDTO{RequestID: testRequestID})
	req.NoError(err)
	req.Equal(contract.AccountId("earthmind.near"), request.Sender)

	minerHash, err := node.HashMinerAnswer(&dto.HashMinerAnswerDTO{
		Account:   "miner1.near",
		RequestID: testRequestID,
		Answer:    true,
		Message:   testMessage,
	})
	req.NoError(err)

	action, err := node.CommitByMiner(&dto.CommitDTO{
		Account:    "miner1.near",
		RequestID:  testRequestID,
		AnswerHash: minerHash,
	})
	req.NoError(err)
	req.Equal(contract.ActionSuccess, action)

	// Reveals are rejected while commits are still open.
	action, err = node.RevealByMiner(&dto.RevealMinerDTO{
		Account:   "miner1.near",
		RequestID: testRequestID,
		Answer:    true,
		Message:   testMessage,
	})
	req.NoError(err)
	req.Equal(contract.ActionFail, action)

	now = base.Add(31 * time.Second)

	action, err = node.RevealByMiner(&dto.RevealMinerDTO{
		Account:   "miner1.near",
		RequestID: testRequestID,
		Answer:    true,
		Message:   testMessage,
	})
	req.NoError(err)
	req.Equal(contract.ActionSuccess, action)

	now = base.Add(61 * time.Second)

	validatorHash, err := node.HashValidatorAnswer(&dto.HashValidatorAnswerDTO{
		Account:   "validator1.near",
		RequestID: testRequestID,
		Answer:    testSlate(),
		Message:   testMessage,
	})
	req.NoError(err)

	action, err = node.CommitByValidator(&dto.CommitDTO{
		Account:    "validator1.near",
		RequestID:  testRequestID,
		AnswerHash: validatorHash,
	})
	req.NoError(err)
	req.Equal(contract.ActionSuccess, action)

	now = base.Add(91 * time.Second)

	action, err = node.RevealByValidator(&dto.RevealValidatorDTO{
		Account:   "validator1.near",
		RequestID: testRequestID,
		Answer:    testSlate(),
		Message:   testMessage,
	})
	req.NoError(err)
	req.Equal(contract.ActionSuccess, action)

	now = base.Add(121 * time.Second)

	votes, err := node.VotesForMiner(&dto.MinerVotesDTO{
		RequestID: testRequestID,
		Miner:     "miner1.near",
	})
	req.NoError(err)
	req.Equal(uint64(1), votes)

	topten, err := node.GetTopTenVoters(&dto.RequestIdDTO{RequestID: testRequestID})
	req.NoError(err)
	req.Len(topten, config.SlateSize)
	req.Contains(topten, contract.AccountId("miner1.near"))

	revealed, err := node.GetMinersThatCommitAndReveal(&dto.RequestIdDTO{RequestID: testRequestID})
	req.NoError(err)
	req.Equal([]contract.AccountId{"miner1.near"}, revealed)
}

// countingState counts contract snapshots on top of a real store.
type countingState struct {
	state.State
	saves int
}

func (c *countingState) SaveContract(ct *contract.Contract) error {
	c.saves++
	return c.State.SaveContract(ct)
}

func TestNodeService_NoSnapshotWithoutMutation(t *testing.T) {
	req := require.New(t)

	st, err := state.NewLevelDBState(t.TempDir(), "test_topic")
	req.NoError(err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	counting := &countingState{State: st}

	node, err := NewNode(clientconfig.Default(), counting, common.NewLogger("test_node"), events.NoopSink{})
	req.NoError(err)

	result, err := node.RegisterMiner(&dto.RegisterParticipantDTO{
		Account: "miner1.near",
		Deposit: config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)
	req.Equal(1, counting.saves)

	// Rejected registrations leave the store untouched.
	result, err = node.RegisterMiner(&dto.RegisterParticipantDTO{
		Account: "miner1.near",
		Deposit: config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterAlreadyRegistered, result)
	req.Equal(1, counting.saves)

	_, err = node.RegisterValidator(&dto.RegisterParticipantDTO{
		Account: "validator1.near",
		Deposit: config.TokenUnit,
	})
	req.Error(err)
	req.Equal(1, counting.saves)

	result, err = node.RequestGovernanceDecision(&dto.GovernanceDecisionDTO{
		Sender:  "earthmind.near",
		Deposit: config.TokenUnit,
		Message: testMessage,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)
	req.Equal(2, counting.saves)

	result, err = node.RequestGovernanceDecision(&dto.GovernanceDecisionDTO{
		Sender:  "earthmind.near",
		Deposit: config.TokenUnit,
		Message: testMessage,
	})
	req.NoError(err)
	req.Equal(contract.RegisterAlreadyRegistered, result)
	req.Equal(2, counting.saves)
}

func TestNodeService_RestoresStateAcrossRestart(t *testing.T) {
	req := require.New(t)

	node, st := newTestNode(t)

	result, err := node.RegisterMiner(&dto.RegisterParticipantDTO{
		Account: "miner1.near",
		Deposit: config.TokenUnit,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)

	result, err = node.RequestGovernanceDecision(&dto.GovernanceDecisionDTO{
		Sender:  "earthmind.near",
		Deposit: config.TokenUnit,
		Message: testMessage,
	})
	req.NoError(err)
	req.Equal(contract.RegisterSuccess, result)

	restarted, err := NewNode(clientconfig.Default(), st, common.NewLogger("test_node"), events.NoopSink{})
	req.NoError(err)

	req.True(restarted.IsMinerRegistered(&dto.AccountIdDTO{Account: "miner1.near"}))

	request, err := restarted.GetRequestByID(&dto.RequestIdDTO{RequestID: testRequestID})
	req.NoError(err)
	req.Equal(contract.AccountId("earthmind.near"), request.Sender)
}

func TestNodeService_UnknownRequest(t *testing.T) {
	req := require.New(t)

	node, _ := newTestNode(t)

	_, err := node.GetRequestByID(&dto.RequestIdDTO{RequestID: testRequestID})
	req.Error(err)

	_, err = node.VotesForMiner(&dto.MinerVotesDTO{RequestID: testRequestID, Miner: "miner1.near"})
	req.Error(err)

	_, err = node.GetTopTenVoters(&dto.RequestIdDTO{RequestID: testRequestID})
	req.Error(err)
}
