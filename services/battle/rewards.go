package battle

import (
	battle_constants "Quizrush/constants/battle"
	battle_models "Quizrush/models/battle"
	"sort"
)

// rankingsLocked derives the current ranking from participant state alone:
// score descending, join time ascending as the tiebreaker. The ranking is
// never stored, only recomputed.
func (r *Room) rankingsLocked() []battle_models.RankingEntry {
	roster := make([]*battle_models.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		roster = append(roster, p)
	}
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].Score != roster[j].Score {
			return roster[i].Score > roster[j].Score
		}
		return roster[i].JoinedAt.Before(roster[j].JoinedAt)
	})

	rankings := make([]battle_models.RankingEntry, len(roster))
	for i, p := range roster {
		rankings[i] = battle_models.RankingEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Score:         p.Score,
			Rank:          i + 1,
		}
	}
	return rankings
}

// Rankings is the exported snapshot used by tests and the resync payload.
func (r *Room) Rankings() []battle_models.RankingEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rankingsLocked()
}

// ComputeRewards maps a final ranking to the reward distribution. Amounts
// strictly decrease down the podium, so rank 1 always exceeds rank 2.
func ComputeRewards(rankings []battle_models.RankingEntry) []battle_models.Reward {
	rewards := make([]battle_models.Reward, len(rankings))
	for i, entry := range rankings {
		var amount int
		switch entry.Rank {
		case 1:
			amount = battle_constants.FirstPlaceReward
		case 2:
			amount = battle_constants.SecondPlaceReward
		case 3:
			amount = battle_constants.ThirdPlaceReward
		default:
			amount = battle_constants.DefaultPlaceReward
		}
		rewards[i] = battle_models.Reward{
			ParticipantID: entry.ParticipantID,
			RewardType:    battle_constants.RewardTypeCoins,
			Amount:        amount,
		}
	}
	return rewards
}
