package dto

// This packages contains DTO (Data Transfer Object) structures
// for providing validated and sanitized values to service layer

type RegisterParticipantDTO struct {
	Account string
	Deposit uint64
}

type AccountIdDTO struct {
	Account string
}

type GovernanceDecisionDTO struct {
	Sender  string
	Deposit uint64
	Message string
}

type RequestIdDTO struct {
	RequestID string
}

type CommitDTO struct {
	Account    string
	RequestID  string
	AnswerHash string
}

type RevealMinerDTO struct {
	Account   string
	RequestID string
	Answer    bool
	Message   string
}

type RevealValidatorDTO struct {
	Account   string
	RequestID string
	Answer    []string
	Message   string
}

type HashMinerAnswerDTO struct {
	Account   string
	RequestID string
	Answer    bool
	Message   string
}

type HashValidatorAnswerDTO struct {
	Account   string
	RequestID string
	Answer    []string
	Message   string
}

type MinerVotesDTO struct {
	RequestID string
	Miner     string
}
