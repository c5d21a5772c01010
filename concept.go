package shapeset

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// MixedClass is the class whose concepts mix two vocabularies.
const MixedClass = 0

// Concept is the ordered list of shape types assigned to one class for one
// batch.
type Concept []Shape

// String joins the shape names with "+".
func (c Concept) String() string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.String()
	}
	return strings.Join(names, "+")
}

// ClassConcept pairs a class index with its concept for one batch.
type ClassConcept struct {
	Class   int
	Concept Concept
}

// ClassRules maps a vocabulary group id (≥1) to the shapes its class may
// draw from. Group ids double as class indices; class 0 is the mixed class.
type ClassRules map[int][]Shape

// DefaultClassRules returns the two stock vocabularies: round shapes for
// class 1 and angular shapes for class 2.
func DefaultClassRules() ClassRules {
	return ClassRules{
		1: {Circle, Capsule, Ellipse},
		2: {Square, Pentagon, Triangle},
	}
}

// Groups returns the vocabulary group ids in ascending order.
func (r ClassRules) Groups() []int {
	ids := make([]int, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Classes returns every class index in traversal order: the mixed class
// followed by the group ids ascending.
func (r ClassRules) Classes() []int {
	return append([]int{MixedClass}, r.Groups()...)
}

// Validate checks group ids, vocabularies and the two mixing groups.
func (r ClassRules) Validate(mix [2]int) error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no vocabulary groups", ErrInvalidClassRule)
	}
	for _, id := range r.Groups() {
		if id <= MixedClass {
			return fmt.Errorf("%w: group id %d is reserved", ErrInvalidClassRule, id)
		}
		vocab := r[id]
		if len(vocab) == 0 {
			return fmt.Errorf("%w: group %d has an empty vocabulary", ErrInvalidClassRule, id)
		}
		for _, s := range vocab {
			if !s.Valid() {
				return fmt.Errorf("group %d: %w: %v", id, ErrUnknownShapeType, s)
			}
		}
	}
	for _, id := range mix {
		if _, ok := r[id]; !ok {
			return fmt.Errorf("%w: mixing group %d is not defined", ErrInvalidClassRule, id)
		}
	}
	return nil
}

// SampleConcepts draws one concept of length k per class in ascending class
// order.
//
// The mixed class draws a split s uniformly from [2, k), takes s shapes
// from vocabulary mix[0] and k-s from vocabulary mix[1]. Every other class
// draws k shapes from its own vocabulary. All draws are with replacement.
func SampleConcepts(rules ClassRules, k int, mix [2]int, rng *rand.Rand) ([]ClassConcept, error) {
	if k < 3 {
		return nil, fmt.Errorf("%w: k=%d, need k >= 3 for a split in [2, k)", ErrInvalidConceptCardinality, k)
	}
	if err := rules.Validate(mix); err != nil {
		return nil, err
	}

	split := 2 + rng.IntN(k-2)
	mixed := make(Concept, 0, k)
	mixed = appendDraws(mixed, rules[mix[0]], split, rng)
	mixed = appendDraws(mixed, rules[mix[1]], k-split, rng)

	out := []ClassConcept{{Class: MixedClass, Concept: mixed}}
	for _, id := range rules.Groups() {
		out = append(out, ClassConcept{
			Class:   id,
			Concept: appendDraws(make(Concept, 0, k), rules[id], k, rng),
		})
	}
	return out, nil
}

func appendDraws(dst Concept, vocab []Shape, n int, rng *rand.Rand) Concept {
	for range n {
		dst = append(dst, vocab[rng.IntN(len(vocab))])
	}
	return dst
}
