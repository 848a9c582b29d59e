package engine

import (
	"slices"

	"github.com/samber/lo"

	"wordduel/internal/domain"
	"wordduel/internal/words"
)

// Candidate is a scored word buildable from a rack
type Candidate struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
}

// Referee judges submissions for one tier. It satisfies domain.Judge.
type Referee struct {
	index     *words.Index
	minLength int
}

var _ domain.Judge = (*Referee)(nil)

// NewReferee creates a referee applying the tier's minimum word length
func NewReferee(index *words.Index, tier domain.Tier) *Referee {
	return &Referee{index: index, minLength: ProfileFor(tier).MinWordLength}
}

// MinLength returns the minimum accepted word length
func (r *Referee) MinLength() int {
	return r.minLength
}

// Judge validates word against the rack and scores it. Rejections score 0
// and carry the first failing reason, checked in this order: empty, too
// short, blocked, not in dictionary, not buildable.
func (r *Referee) Judge(word string, rack domain.Rack) domain.Judgement {
	w := domain.Normalize(word)
	switch {
	case w == "":
		return domain.Judgement{Verdict: domain.VerdictEmpty}
	case len(w) < r.minLength:
		return domain.Judgement{Verdict: domain.VerdictTooShort}
	case r.index.IsBlocked(w):
		return domain.Judgement{Verdict: domain.VerdictBlocked}
	case !r.index.IsValid(w):
		return domain.Judgement{Verdict: domain.VerdictNotInDictionary}
	case !rack.CanBuild(w):
		return domain.Judgement{Verdict: domain.VerdictNotBuildable}
	}
	return domain.Judgement{Verdict: domain.VerdictOK, Score: Score(w, rack)}
}

// Candidates returns every playable word for the rack, best first: score
// descending, then length descending, then alphabetical
func (r *Referee) Candidates(rack domain.Rack) []Candidate {
	found := r.index.FindBuildableWords(rack.String(), r.minLength)
	candidates := lo.Map(found, func(w string, _ int) Candidate {
		return Candidate{Word: w, Score: Score(w, rack)}
	})
	slices.SortFunc(candidates, compareCandidates)
	return candidates
}

func compareCandidates(a, b Candidate) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if len(a.Word) != len(b.Word) {
		return len(b.Word) - len(a.Word)
	}
	switch {
	case a.Word < b.Word:
		return -1
	case a.Word > b.Word:
		return 1
	}
	return 0
}

// BestPlay returns the top candidate for the rack, or "" and 0 if none
func (r *Referee) BestPlay(rack domain.Rack) (string, int) {
	c := r.Candidates(rack)
	if len(c) == 0 {
		return "", 0
	}
	return c[0].Word, c[0].Score
}
