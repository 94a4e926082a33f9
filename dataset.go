/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	// Marker value for a trait an animal possesses.
	yesMarker = "yes"

	// Reserved descriptive attributes, excluded from question generation.
	attrBlurb  = "Blurb"
	attrTrivia = "Trivia"
	attrGroup  = "Group"
)

func reservedAttribute(name string) bool {
	return name == attrBlurb || name == attrTrivia || name == attrGroup
}

// AnimalStore is the read-only animal/attribute mapping every game reads
// from. The on-disk format is trait-major (attribute → animal → value);
// the loader inverts it so lookups are animal-major. The key set of the
// reserved Group attribute defines the animal universe.
type AnimalStore struct {
	animals map[string]map[string]string
	names   []string // sorted
	traits  []string // sorted, reserved attributes excluded
}

func loadAnimalStore(data []byte) (*AnimalStore, error) {
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing animal dataset: %w", err)
	}

	groups, ok := raw[attrGroup]
	if !ok || len(groups) == 0 {
		return nil, fmt.Errorf("animal dataset is missing the %q attribute", attrGroup)
	}

	s := &AnimalStore{
		animals: make(map[string]map[string]string, len(groups)),
	}

	for name := range groups {
		s.animals[name] = make(map[string]string)
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)

	for trait, values := range raw {
		for name, value := range values {
			attrs, ok := s.animals[name]
			if !ok {
				return nil, fmt.Errorf("trait %q references unknown animal %q", trait, name)
			}
			attrs[trait] = value
		}
		if !reservedAttribute(trait) {
			s.traits = append(s.traits, trait)
		}
	}
	sort.Strings(s.traits)

	return s, nil
}

// loadAnimalStoreFromFile reads an external dataset, for deployments that
// want to swap the embedded one without rebuilding.
func loadAnimalStoreFromFile(path string) (*AnimalStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return loadAnimalStore(data)
}

// Names returns every known animal name, sorted.
func (s *AnimalStore) Names() []string {
	return s.names
}

// Traits returns every non-reserved attribute name, sorted.
func (s *AnimalStore) Traits() []string {
	return s.traits
}

func (s *AnimalStore) Has(name string) bool {
	_, ok := s.animals[name]
	return ok
}

// Resolve maps a player-typed name onto a canonical animal name,
// ignoring case and surrounding whitespace.
func (s *AnimalStore) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if s.Has(name) {
		return name, true
	}
	for _, candidate := range s.names {
		if strings.EqualFold(candidate, name) {
			return candidate, true
		}
	}
	return "", false
}

// Value returns the animal's value for a trait, or "" when unset.
func (s *AnimalStore) Value(name, trait string) string {
	return s.animals[name][trait]
}

// HasTrait reports whether the animal carries the yes marker for a trait.
func (s *AnimalStore) HasTrait(name, trait string) bool {
	return s.animals[name][trait] == yesMarker
}

func (s *AnimalStore) Blurb(name string) string {
	return s.animals[name][attrBlurb]
}

func (s *AnimalStore) Trivia(name string) string {
	return s.animals[name][attrTrivia]
}

func (s *AnimalStore) Group(name string) string {
	return s.animals[name][attrGroup]
}

// MatchTrait finds the first trait (in sorted order) whose name contains
// the given substring, ignoring case. Used by freeform questions and the
// private check action.
func (s *AnimalStore) MatchTrait(substring string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return "", false
	}
	for _, trait := range s.traits {
		if strings.Contains(strings.ToLower(trait), needle) {
			return trait, true
		}
	}
	return "", false
}
