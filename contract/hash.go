package contract

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"golang.org/x/crypto/sha3"

	"github.com/earthmind-network/earthmind-go/contract/config"
)

func keccak256(data []byte) Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RequestIDFromMessage derives the request identifier as the content hash of
// the governance message. Identical content always maps to the same id.
func RequestIDFromMessage(message string) Hash {
	return keccak256([]byte(message))
}

// minerAnswerHash builds the commitment pre-image for a miner's boolean
// answer. The layout binds the commitment to one request, one caller and one
// plaintext; reveal verification replays it byte for byte.
func minerAnswerHash(requestID Hash, miner AccountId, answer bool, message string) Hash {
	preimage := requestID + miner.String() + strconv.FormatBool(answer) + message
	return keccak256([]byte(preimage))
}

// validatorAnswerHash builds the commitment pre-image for a validator's
// ranked slate: request id, caller, the ten account ids in slate order, then
// the free-form message.
func validatorAnswerHash(requestID Hash, validator AccountId, answer []AccountId, message string) Hash {
	preimage := make([]byte, 0, len(requestID)+len(validator)+len(message))
	preimage = append(preimage, requestID...)
	preimage = append(preimage, validator.String()...)
	for _, id := range answer {
		preimage = append(preimage, id.String()...)
	}
	preimage = append(preimage, message...)
	return keccak256(preimage)
}

// HashMinerAnswer is the pure hashing helper miners call before committing.
func (c *Contract) HashMinerAnswer(ctx CallContext, requestID Hash, answer bool, message string) Hash {
	return minerAnswerHash(requestID, ctx.Caller, answer, message)
}

// HashValidatorAnswer is the pure hashing helper validators call before
// committing. A slate whose length differs from SlateSize violates the
// documented precondition and aborts the call.
func (c *Contract) HashValidatorAnswer(ctx CallContext, requestID Hash, answer []AccountId, message string) (Hash, error) {
	if len(answer) != config.SlateSize {
		return "", fmt.Errorf("%w: slate must contain exactly %d miners, got %d",
			ErrInvalidSlateLength, config.SlateSize, len(answer))
	}
	return validatorAnswerHash(requestID, ctx.Caller, answer, message), nil
}
