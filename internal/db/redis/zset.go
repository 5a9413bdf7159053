package redis

import (
	"context"
	"strconv"

	"github.com/kailas-cloud/partdex/internal/db"
)

// ZAdd inserts or updates a sorted-set member.
func (s *Store) ZAdd(ctx context.Context, key, member string, score float64) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRangeAfter returns up to limit members strictly after the
// (afterScore, afterMember) cursor position, ascending. This is the
// pagination primitive: paging by score alone would skip members that
// share the score of the last seen one, so members on the cursor score
// are re-read and filtered by the member tie-break (Redis orders
// equal-score members lexicographically).
func (s *Store) ZRangeAfter(
	ctx context.Context, key string, afterScore float64, afterMember string, limit int,
) ([]db.ScoredMember, error) {
	if afterMember == "" {
		return s.rangeByScore(ctx, key, "-inf", limit)
	}

	scoreArg := strconv.FormatFloat(afterScore, 'f', -1, 64)
	cmd := s.b().Zrangebyscore().Key(key).Min(scoreArg).Max(scoreArg).
		Withscores().Build()
	ties, err := s.do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}

	out := make([]db.ScoredMember, 0, limit)
	for _, z := range ties {
		if z.Member <= afterMember {
			continue
		}
		out = append(out, db.ScoredMember{Member: z.Member, Score: z.Score})
		if len(out) == limit {
			return out, nil
		}
	}

	rest, err := s.rangeByScore(ctx, key, "("+scoreArg, limit-len(out))
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

func (s *Store) rangeByScore(ctx context.Context, key, min string, limit int) ([]db.ScoredMember, error) {
	cmd := s.b().Zrangebyscore().Key(key).Min(min).Max("+inf").
		Withscores().Limit(0, int64(limit)).Build()

	scores, err := s.do(ctx, cmd).AsZScores()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}

	out := make([]db.ScoredMember, len(scores))
	for i, z := range scores {
		out[i] = db.ScoredMember{Member: z.Member, Score: z.Score}
	}
	return out, nil
}

// ZRem removes a sorted-set member.
func (s *Store) ZRem(ctx context.Context, key, member string) error {
	cmd := s.b().Zrem().Key(key).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}
