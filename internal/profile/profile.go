package profile

import (
	"context"
	"encoding/json"
	"log"

	"github.com/novalabs/nova-backend/internal/store"
)

// StorageKey is the single document the profile lives under.
const StorageKey = "nova_user_profile"

// UserProfile is collected during onboarding and read to personalize the
// avatar and greeting. Singleton per storage.
type UserProfile struct {
	Name      string   `json:"name"`
	Gender    string   `json:"gender"` // male, female, other
	Goal      string   `json:"goal"`
	Feeling   string   `json:"feeling"`
	Interests []string `json:"interests"`
}

type Service struct {
	kv store.KV
}

func NewService(kv store.KV) *Service {
	return &Service{kv: kv}
}

// Get returns nil when no profile has been saved; absence is not an error.
// A malformed document is treated the same and logged.
func (s *Service) Get(ctx context.Context) (*UserProfile, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var p UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("[profile] malformed profile document: %v", err)
		return nil, nil
	}
	return &p, nil
}

func (s *Service) Save(ctx context.Context, p UserProfile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, StorageKey, string(b))
}

func (s *Service) Delete(ctx context.Context) error {
	return s.kv.Delete(ctx, StorageKey)
}
