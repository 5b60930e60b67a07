package exam

import (
	"context"
	"math/rand"
)

// StartSession produces the randomized presentation of an exam for the
// student taking it: question order and each question's option key order are
// independently shuffled. The canonical stored order is never modified and
// no shuffle is persisted; two calls yield independent permutations.
func (s *Service) StartSession(ctx context.Context, examID string) (Exam, []Question, error) {
	e, qs, err := s.Detail(ctx, examID)
	if err != nil {
		return Exam{}, nil, err
	}
	shuffled := shuffleQuestions(qs)
	for i := range shuffled {
		shuffled[i].Options = shuffleOptions(shuffled[i].Options)
	}
	return e, shuffled, nil
}

// shuffleQuestions returns a uniformly permuted copy. Empty and single
// element inputs come back unchanged.
func shuffleQuestions(qs []Question) []Question {
	if len(qs) < 2 {
		return qs
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// shuffleOptions permutes the key order of the mapping; key→text
// associations (and therefore the stored answer key) are unaffected.
func shuffleOptions(m OptionMap) OptionMap {
	if m.Len() < 2 {
		return m
	}
	keys := m.Keys()
	rand.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	return m.Reordered(keys)
}
