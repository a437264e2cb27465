package services

import (
	"log"

	"fiestas-server/models"
)

// ConsentStore persists the cookie consent of a client.
type ConsentStore interface {
	GetConsent(clientID string) (*models.Consent, error)
	SaveConsent(clientID string, c models.Consent) error
	DeleteConsent(clientID string) error
}

type ConsentService struct {
	store ConsentStore
}

func NewConsentService(store ConsentStore) *ConsentService {
	return &ConsentService{store: store}
}

// Get returns the stored consent and whether the client has answered yet.
// An unanswered client gets the default consent.
func (cs *ConsentService) Get(clientID string) (models.Consent, bool, error) {
	c, err := cs.store.GetConsent(clientID)
	if err != nil {
		return models.DefaultConsent(), false, err
	}
	if c == nil {
		return models.DefaultConsent(), false, nil
	}
	return *c, true, nil
}

// Effective is the consent used to gate analytics. Lookup failures deny.
func (cs *ConsentService) Effective(clientID string) models.Consent {
	c, _, err := cs.Get(clientID)
	if err != nil {
		log.Printf("[ConsentService] Treating %s as unanswered: %v", clientID, err)
		return models.DefaultConsent()
	}
	return c
}

func (cs *ConsentService) AcceptAll(clientID string) (models.Consent, error) {
	return cs.save(clientID, models.FullConsent())
}

func (cs *ConsentService) AcceptNecessary(clientID string) (models.Consent, error) {
	return cs.save(clientID, models.DefaultConsent())
}

// SetCustom stores c with necessary cookies always on.
func (cs *ConsentService) SetCustom(clientID string, c models.Consent) (models.Consent, error) {
	return cs.save(clientID, c)
}

func (cs *ConsentService) Reset(clientID string) error {
	return cs.store.DeleteConsent(clientID)
}

func (cs *ConsentService) save(clientID string, c models.Consent) (models.Consent, error) {
	c.Necessary = true
	if err := cs.store.SaveConsent(clientID, c); err != nil {
		return models.Consent{}, err
	}
	return c, nil
}
