package events

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	Standard = "emip001"
	Version  = "1.0.0"

	// WireTag prefixes every serialized envelope on the log line.
	WireTag = "EVENT_JSON:"
)

const (
	TypeRegisterMiner     = "register_miner"
	TypeRegisterValidator = "register_validator"
	TypeRegisterProtocol  = "register_protocol"
	TypeRegisterRequest   = "register_request"
	TypeCommitMiner       = "commit_miner"
	TypeCommitValidator   = "commit_validator"
	TypeRevealMiner       = "reveal_miner"
	TypeRevealValidator   = "reveal_validator"
	TypeToptenMiners      = "topten_miners"
)

// EventLog is the envelope every state transition emits. Field order and
// nesting are part of the wire contract with off-chain consumers: data is
// always an array, even for a single entry.
type EventLog struct {
	Standard string      `json:"standard"`
	Version  string      `json:"version"`
	Event    string      `json:"event"`
	Data     interface{} `json:"data"`
}

// Marshal renders the JSON envelope. Messages and account ids pass through
// verbatim: &, < and > must not be escaped, consumers match lines byte for
// byte.
func (e *EventLog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// String renders the single-line wire form.
func (e *EventLog) String() string {
	encoded, err := e.Marshal()
	if err != nil {
		return fmt.Sprintf("%s{\"error\":%q}", WireTag, err.Error())
	}
	return WireTag + string(encoded)
}

type RegisterMinerLog struct {
	Miner string `json:"miner"`
}

type RegisterValidatorLog struct {
	Validator string `json:"validator"`
}

type RegisterProtocolLog struct {
	Account string `json:"account"`
}

type RegisterRequestLog struct {
	RequestID string `json:"request_id"`
}

type CommitMinerLog struct {
	RequestID string `json:"request_id"`
	Answer    string `json:"answer"`
}

type CommitValidatorLog struct {
	RequestID string `json:"request_id"`
	Answer    string `json:"answer"`
}

type RevealMinerLog struct {
	RequestID string `json:"request_id"`
	Answer    bool   `json:"answer"`
	Message   string `json:"message"`
}

type RevealValidatorLog struct {
	RequestID string   `json:"request_id"`
	Answer    []string `json:"answer"`
	Message   string   `json:"message"`
}

type ToptenMinersLog struct {
	RequestID string   `json:"request_id"`
	Topten    []string `json:"topten"`
}

func newEvent(event string, data interface{}) *EventLog {
	return &EventLog{
		Standard: Standard,
		Version:  Version,
		Event:    event,
		Data:     data,
	}
}

func NewRegisterMiner(miner string) *EventLog {
	return newEvent(TypeRegisterMiner, []RegisterMinerLog{{Miner: miner}})
}

func NewRegisterValidator(validator string) *EventLog {
	return newEvent(TypeRegisterValidator, []RegisterValidatorLog{{Validator: validator}})
}

func NewRegisterProtocol(account string) *EventLog {
	return newEvent(TypeRegisterProtocol, []RegisterProtocolLog{{Account: account}})
}

func NewRegisterRequest(requestID string) *EventLog {
	return newEvent(TypeRegisterRequest, []RegisterRequestLog{{RequestID: requestID}})
}

func NewCommitMiner(requestID, answer string) *EventLog {
	return newEvent(TypeCommitMiner, []CommitMinerLog{{RequestID: requestID, Answer: answer}})
}

func NewCommitValidator(requestID, answer string) *EventLog {
	return newEvent(TypeCommitValidator, []CommitValidatorLog{{RequestID: requestID, Answer: answer}})
}

func NewRevealMiner(requestID string, answer bool, message string) *EventLog {
	return newEvent(TypeRevealMiner, []RevealMinerLog{{RequestID: requestID, Answer: answer, Message: message}})
}

func NewRevealValidator(requestID string, answer []string, message string) *EventLog {
	return newEvent(TypeRevealValidator, []RevealValidatorLog{{RequestID: requestID, Answer: answer, Message: message}})
}

func NewToptenMiners(requestID string, topten []string) *EventLog {
	return newEvent(TypeToptenMiners, []ToptenMinersLog{{RequestID: requestID, Topten: topten}})
}
