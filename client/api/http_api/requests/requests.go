package requests

type RegisterParticipantForm struct {
	Account string `json:"account" validate:"attr=account,min=2"`
	Deposit uint64 `json:"deposit"`
}

type AccountIdForm struct {
	Account string `query:"account" json:"account" validate:"attr=account,min=2"`
}

type GovernanceDecisionForm struct {
	Sender  string `json:"sender" validate:"attr=sender,min=2"`
	Deposit uint64 `json:"deposit"`
	Message string `json:"message" validate:"attr=message,min=1"`
}

type RequestIdForm struct {
	RequestID string `query:"requestID" json:"request_id" validate:"attr=request_id,min=64"`
}

type CommitForm struct {
	Account    string `json:"account" validate:"attr=account,min=2"`
	RequestID  string `json:"request_id" validate:"attr=request_id,min=64"`
	AnswerHash string `json:"answer_hash" validate:"attr=answer_hash,min=64"`
}

type RevealMinerForm struct {
	Account   string `json:"account" validate:"attr=account,min=2"`
	RequestID string `json:"request_id" validate:"attr=request_id,min=64"`
	Answer    bool   `json:"answer"`
	Message   string `json:"message" validate:"attr=message,min=1"`
}

type RevealValidatorForm struct {
	Account   string   `json:"account" validate:"attr=account,min=2"`
	RequestID string   `json:"request_id" validate:"attr=request_id,min=64"`
	Answer    []string `json:"answer"`
	Message   string   `json:"message" validate:"attr=message,min=1"`
}

type HashMinerAnswerForm struct {
	Account   string `json:"account" validate:"attr=account,min=2"`
	RequestID string `json:"request_id" validate:"attr=request_id,min=64"`
	Answer    bool   `json:"answer"`
	Message   string `json:"message" validate:"attr=message,min=1"`
}

type HashValidatorAnswerForm struct {
	Account   string   `json:"account" validate:"attr=account,min=2"`
	RequestID string   `json:"request_id" validate:"attr=request_id,min=64"`
	Answer    []string `json:"answer"`
	Message   string   `json:"message" validate:"attr=message,min=1"`
}

type MinerVotesForm struct {
	RequestID string `query:"requestID" json:"request_id" validate:"attr=request_id,min=64"`
	Miner     string `query:"miner" json:"miner" validate:"attr=miner,min=2"`
}
