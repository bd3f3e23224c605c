package node

import (
	"fmt"
	"sync"
	"time"

	"github.com/earthmind-network/earthmind-go/client/api/dto"
	"github.com/earthmind-network/earthmind-go/client/config"
	"github.com/earthmind-network/earthmind-go/client/modules/state"
	"github.com/earthmind-network/earthmind-go/common"
	"github.com/earthmind-network/earthmind-go/contract"
	"github.com/earthmind-network/earthmind-go/events"
)

type NodeService interface {
	GetLogger() common.Logger
	GetNodeName() string

	RegisterMiner(dto *dto.RegisterParticipantDTO) (contract.RegisterResult, error)
	RegisterValidator(dto *dto.RegisterParticipantDTO) (contract.RegisterResult, error)
	RegisterProtocol(dto *dto.RegisterParticipantDTO) (contract.RegisterResult, error)
	IsMinerRegistered(dto *dto.AccountIdDTO) bool
	IsValidatorRegistered(dto *dto.AccountIdDTO) bool
	IsAccountRegistered(dto *dto.AccountIdDTO) bool

	RequestGovernanceDecision(dto *dto.GovernanceDecisionDTO) (contract.RegisterResult, error)
	GetRequestByID(dto *dto.RequestIdDTO) (*contract.Request, error)

	HashMinerAnswer(dto *dto.HashMinerAnswerDTO) (contract.Hash, error)
	HashValidatorAnswer(dto *dto.HashValidatorAnswerDTO) (contract.Hash, error)

	CommitByMiner(dto *dto.CommitDTO) (contract.ActionResult, error)
	CommitByValidator(dto *dto.CommitDTO) (contract.ActionResult, error)
	RevealByMiner(dto *dto.RevealMinerDTO) (contract.ActionResult, error)
	RevealByValidator(dto *dto.RevealValidatorDTO) (contract.ActionResult, error)

	VotesForMiner(dto *dto.MinerVotesDTO) (uint64, error)
	GetTopTenVoters(dto *dto.RequestIdDTO) ([]contract.AccountId, error)
	GetMinersThatCommitAndReveal(dto *dto.RequestIdDTO) ([]contract.AccountId, error)
}

// BaseNodeService owns the oracle aggregate. Every call that touches the
// aggregate runs under the service mutex, so the aggregate itself stays
// single-threaded. Mutations are snapshotted to the state store before the
// result is returned.
type BaseNodeService struct {
	sync.Mutex
	nodeName string
	contract *contract.Contract
	state    state.State
	Logger   common.Logger

	nowFn func() time.Time
}

func NewNode(cfg *config.Config, st state.State, logger common.Logger, sink events.Sink) (*BaseNodeService, error) {
	c, err := st.LoadContract()
	if err != nil {
		return nil, fmt.Errorf("failed to load contract state: %w", err)
	}
	if c == nil {
		c = contract.New(logger, sink)
	} else {
		c.Attach(logger, sink)
	}

	return &BaseNodeService{
		nodeName: cfg.NodeName,
		contract: c,
		state:    st,
		Logger:   logger,
		nowFn:    time.Now,
	}, nil
}

func (s *BaseNodeService) GetLogger() common.Logger {
	return s.Logger
}

func (s *BaseNodeService) GetNodeName() string {
	return s.nodeName
}

func (s *BaseNodeService) callContext(account string, deposit uint64) contract.CallContext {
	return contract.CallContext{
		Caller:          contract.AccountId(account),
		Now:             s.nowFn(),
		AttachedDeposit: contract.Stake(deposit),
	}
}

func (s *BaseNodeService) save() error {
	if err := s.state.SaveContract(s.contract); err != nil {
		return fmt.Errorf("failed to save contract state: %w", err)
	}
	return nil
}

func (s *BaseNodeService) RegisterMiner(d *dto.RegisterParticipantDTO) (contract.RegisterResult, error) {
	s.Lock()
	defer s.Unlock()

	result, err := s.contract.RegisterMiner(s.callContext(d.Account, d.Deposit))
	if err != nil || result != contract.RegisterSuccess {
		return result, err
	}
	return result, s.save()
}

func (s *BaseNodeService) RegisterValidator(d *dto.RegisterParticipantDTO) (contract.RegisterResult, error) {
	s.Lock()
	defer s.Unlock()

	result, err := s.contract.RegisterValidator(s.callContext(d.Account, d.Deposit))
	if err != nil || result != contract.RegisterSuccess {
		return result, err
	}
	return result, s.save()
}

func (s *BaseNodeService) RegisterProtocol(d *dto.RegisterParticipantDTO) (contract.RegisterResult, error) {
	s.Lock()
	defer s.Unlock()

	result, err := s.contract.RegisterProtocol(s.callContext(d.Account, d.Deposit))
	if err != nil || result != contract.RegisterSuccess {
		return result, err
	}
	return result, s.save()
}

func (s *BaseNodeService) IsMinerRegistered(d *dto.AccountIdDTO) bool {
	s.Lock()
	defer s.Unlock()

	return s.contract.IsMinerRegistered(contract.AccountId(d.Account))
}

func (s *BaseNodeService) IsValidatorRegistered(d *dto.AccountIdDTO) bool {
	s.Lock()
	defer s.Unlock()

	return s.contract.IsValidatorRegistered(contract.AccountId(d.Account))
}

func (s *BaseNodeService) IsAccountRegistered(d *dto.AccountIdDTO) bool {
	s.Lock()
	defer s.Unlock()

	return s.contract.IsAccountRegistered(contract.AccountId(d.Account))
}

func (s *BaseNodeService) RequestGovernanceDecision(d *dto.GovernanceDecisionDTO) (contract.RegisterResult, error) {
	s.Lock()
	defer s.Unlock()

	result := s.contract.RequestGovernanceDecision(s.callContext(d.Sender, d.Deposit), d.Message)
	if result != contract.RegisterSuccess {
		return result, nil
	}
	return result, s.save()
}

func (s *BaseNodeService) GetRequestByID(d *dto.RequestIdDTO) (*contract.Request, error) {
	s.Lock()
	defer s.Unlock()

	request, ok := s.contract.GetRequestByID(d.RequestID)
	if !ok {
		return nil, fmt.Errorf("request is not registered: %s", d.RequestID)
	}
	return request, nil
}

func (s *BaseNodeService) HashMinerAnswer(d *dto.HashMinerAnswerDTO) (contract.Hash, error) {
	s.Lock()
	defer s.Unlock()

	return s.contract.HashMinerAnswer(s.callContext(d.Account, 0), d.RequestID, d.Answer, d.Message), nil
}

func (s *BaseNodeService) HashValidatorAnswer(d *dto.HashValidatorAnswerDTO) (contract.Hash, error) {
	s.Lock()
	defer s.Unlock()

	return s.contract.HashValidatorAnswer(s.callContext(d.Account, 0), d.RequestID, toAccountIds(d.Answer), d.Message)
}

func (s *BaseNodeService) CommitByMiner(d *dto.CommitDTO) (contract.ActionResult, error) {
	s.Lock()
	defer s.Unlock()

	result := s.contract.CommitByMiner(s.callContext(d.Account, 0), d.RequestID, d.AnswerHash)
	if result != contract.ActionSuccess {
		return result, nil
	}
	return result, s.save()
}

func (s *BaseNodeService) CommitByValidator(d *dto.CommitDTO) (contract.ActionResult, error) {
	s.Lock()
	defer s.Unlock()

	result := s.contract.CommitByValidator(s.callContext(d.Account, 0), d.RequestID, d.AnswerHash)
	if result != contract.ActionSuccess {
		return result, nil
	}
	return result, s.save()
}

func (s *BaseNodeService) RevealByMiner(d *dto.RevealMinerDTO) (contract.ActionResult, error) {
	s.Lock()
	defer s.Unlock()

	result, err := s.contract.RevealByMiner(s.callContext(d.Account, 0), d.RequestID, d.Answer, d.Message)
	if err != nil || result != contract.ActionSuccess {
		return result, err
	}
	return result, s.save()
}

func (s *BaseNodeService) RevealByValidator(d *dto.RevealValidatorDTO) (contract.ActionResult, error) {
	s.Lock()
	defer s.Unlock()

	result, err := s.contract.RevealByValidator(s.callContext(d.Account, 0), d.RequestID, toAccountIds(d.Answer), d.Message)
	if err != nil || result != contract.ActionSuccess {
		return result, err
	}
	return result, s.save()
}

func (s *BaseNodeService) VotesForMiner(d *dto.MinerVotesDTO) (uint64, error) {
	s.Lock()
	defer s.Unlock()

	votes, ok := s.contract.VotesForMiner(d.RequestID, contract.AccountId(d.Miner))
	if !ok {
		return 0, fmt.Errorf("request is not registered: %s", d.RequestID)
	}
	return votes, nil
}

func (s *BaseNodeService) GetTopTenVoters(d *dto.RequestIdDTO) ([]contract.AccountId, error) {
	s.Lock()
	defer s.Unlock()

	topten, ok := s.contract.GetTopTenVoters(d.RequestID)
	if !ok {
		return nil, fmt.Errorf("request is not registered: %s", d.RequestID)
	}
	return topten, nil
}

func (s *BaseNodeService) GetMinersThatCommitAndReveal(d *dto.RequestIdDTO) ([]contract.AccountId, error) {
	s.Lock()
	defer s.Unlock()

	miners, ok := s.contract.GetListMinersThatCommitAndReveal(d.RequestID)
	if !ok {
		return nil, fmt.Errorf("request is not registered: %s", d.RequestID)
	}
	return miners, nil
}

func toAccountIds(accounts []string) []contract.AccountId {
	ids := make([]contract.AccountId, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, contract.AccountId(account))
	}
	return ids
}
