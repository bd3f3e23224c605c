package contract

import (
	"sort"

	"github.com/earthmind-network/earthmind-go/contract/config"
	"github.com/earthmind-network/earthmind-go/events"
)

// VotesForMiner counts how many times the miner appears across the revealed
// validator slates of a request: one vote per appearance, rank position
// carries no weight. Read-only with respect to proposals.
func (c *Contract) VotesForMiner(requestID Hash, minerID AccountId) (uint64, bool) {
	request, ok := c.Requests[requestID]
	if !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return 0, false
	}

	var votes uint64
	for _, proposal := range request.ValidatorsProposals {
		if !proposal.IsRevealed {
			continue
		}
		for _, address := range proposal.MinerAddresses {
			if address == minerID {
				votes++
			}
		}
	}

	c.logger.Log("%s have %d votes", minerID, votes)

	return votes, true
}

// GetTopTenVoters ranks miners by vote count over the revealed validator
// slates and returns the top SlateSize of them. Ties break by ascending
// account id so the emitted ranking is deterministic.
func (c *Contract) GetTopTenVoters(requestID Hash) ([]AccountId, bool) {
	request, ok := c.Requests[requestID]
	if !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return nil, false
	}

	counts := make(map[AccountId]uint64)
	for _, proposal := range request.ValidatorsProposals {
		if !proposal.IsRevealed {
			continue
		}
		for _, address := range proposal.MinerAddresses {
			counts[address]++
		}
	}

	ranked := make([]AccountId, 0, len(counts))
	for minerID := range counts {
		ranked = append(ranked, minerID)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > config.SlateSize {
		ranked = ranked[:config.SlateSize]
	}

	topten := make([]string, len(ranked))
	for i, minerID := range ranked {
		topten[i] = minerID.String()
	}
	c.emit(events.NewToptenMiners(requestID, topten))

	return ranked, true
}

// GetListMinersThatCommitAndReveal returns the miners of a request that both
// committed and revealed, sorted by account id.
func (c *Contract) GetListMinersThatCommitAndReveal(requestID Hash) ([]AccountId, bool) {
	request, ok := c.Requests[requestID]
	if !ok {
		c.logger.Log("Request is not registered: %s", requestID)
		return nil, false
	}

	miners := make([]AccountId, 0, len(request.MinersProposals))
	for minerID, proposal := range request.MinersProposals {
		if proposal.IsRevealed {
			miners = append(miners, minerID)
		}
	}
	sort.Slice(miners, func(i, j int) bool { return miners[i] < miners[j] })

	return miners, true
}
