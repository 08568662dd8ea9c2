package pdbindex

import (
	"errors"
	"math/rand"
	"time"
)

// ErrNoCandidates is returned when no category of an index has any IDs.
var ErrNoCandidates = errors.New("pdb index has no non-empty category")

// Selector picks random IDs from an index. It is not safe for
// concurrent use because *rand.Rand is not.
type Selector struct {
	idx        Index
	categories []string
	rng        *rand.Rand
}

// NewSelector precomputes the non-empty categories of idx. A nil rng
// is replaced by a time-seeded source.
func NewSelector(idx Index, rng *rand.Rand) (*Selector, error) {
	var categories []string
	for _, category := range idx.Categories() {
		if len(idx[category]) > 0 {
			categories = append(categories, category)
		}
	}
	if len(categories) == 0 {
		return nil, ErrNoCandidates
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{
		idx:        idx,
		categories: categories,
		rng:        rng,
	}, nil
}

// Select picks a category uniformly, then an ID uniformly within it.
func (s *Selector) Select() string {
	category := s.categories[s.rng.Intn(len(s.categories))]
	ids := s.idx[category]
	return ids[s.rng.Intn(len(ids))]
}

// SelectRandom is a convenience for a one-off selection.
func SelectRandom(idx Index, rng *rand.Rand) (string, error) {
	s, err := NewSelector(idx, rng)
	if err != nil {
		return "", err
	}
	return s.Select(), nil
}
