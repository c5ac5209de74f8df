package usecase

import (
	"math/rand"

	"points-leaderboard/internal/domain"
)

// AwardSource produces the point amount for one claim. Injectable so
// tests can pin the draw and assert exact balances.
type AwardSource interface {
	Draw() int
}

type randomAwardSource struct{}

func NewRandomAwardSource() AwardSource {
	return randomAwardSource{}
}

// Draw returns a uniformly distributed amount in [MinAward, MaxAward].
func (randomAwardSource) Draw() int {
	return domain.MinAward + rand.Intn(domain.MaxAward-domain.MinAward+1)
}
