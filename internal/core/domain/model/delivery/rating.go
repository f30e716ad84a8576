package delivery

import (
	"strings"
	"time"

	"parceltrack/internal/pkg/errs"
)

const (
	ScoreMin = 1
	ScoreMax = 5

	maxCommentLength = 1000
)

// Rating is the client's one-time verdict on a completed delivery.
type Rating struct {
	score   int
	comment string
	ratedAt time.Time
}

// NewRating validates the score against [1, 5].
func NewRating(score int, comment string, ratedAt time.Time) (Rating, error) {
	if score < ScoreMin || score > ScoreMax {
		return Rating{}, errs.NewValueIsOutOfRangeError("score", score, ScoreMin, ScoreMax)
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return Rating{}, errs.NewValueIsOutOfRangeError("comment length", len(comment), 0, maxCommentLength)
	}

	return Rating{
		score:   score,
		comment: comment,
		ratedAt: ratedAt.UTC(),
	}, nil
}

func (r Rating) Score() int {
	return r.score
}

func (r Rating) Comment() string {
	return r.comment
}

func (r Rating) RatedAt() time.Time {
	return r.ratedAt
}
