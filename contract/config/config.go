package config

import "time"

// TokenUnit is one whole token in base units.
const TokenUnit = 1_000_000_000_000_000_000

const (
	CommitMinerDuration     = 30 * time.Second
	RevealMinerDuration     = 30 * time.Second
	CommitValidatorDuration = 30 * time.Second
	RevealValidatorDuration = 30 * time.Second

	MinMinerStake           = 1 * TokenUnit
	MinValidatorStake       = 2 * TokenUnit
	ProtocolRegistrationFee = 1 * TokenUnit

	// SlateSize is the exact number of miners a validator ranks.
	SlateSize = 10
)
