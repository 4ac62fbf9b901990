package store

import (
	"context"
	"sync"

	"faceid/internal/contest/models"
	"faceid/pkg/platform/sentinel"
)

type participantKey struct {
	contestID uint64
	hash      string
}

// InMemory is a process-local store used by tests and when no database is
// configured.
type InMemory struct {
	mu           sync.RWMutex
	contests     map[uint64]struct{}
	participants map[participantKey]models.Participant
	order        []participantKey
}

func NewInMemory() *InMemory {
	return &InMemory{
		contests:     make(map[uint64]struct{}),
		participants: make(map[participantKey]models.Participant),
	}
}

// SaveParticipant records the contest and the participant, ignoring rows that
// already exist. It reports whether the participant was new.
func (s *InMemory) SaveParticipant(_ context.Context, p *models.Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contests[p.ContestID] = struct{}{}
	key := participantKey{contestID: p.ContestID, hash: p.ImageHash}
	if _, exists := s.participants[key]; exists {
		return false, nil
	}
	s.participants[key] = clone(*p)
	s.order = append(s.order, key)
	return true, nil
}

func (s *InMemory) ListParticipants(_ context.Context, contestID uint64) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Participant
	for _, key := range s.order {
		if key.contestID == contestID {
			out = append(out, clone(s.participants[key]))
		}
	}
	return out, nil
}

func (s *InMemory) FindParticipant(_ context.Context, contestID uint64, imageHash string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[participantKey{contestID: contestID, hash: imageHash}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := clone(p)
	return &c, nil
}

func clone(p models.Participant) models.Participant {
	p.ImageContent = append([]byte(nil), p.ImageContent...)
	p.Proof = append([]byte(nil), p.Proof...)
	p.FeatureVector = append(p.FeatureVector[:0:0], p.FeatureVector...)
	return p
}
