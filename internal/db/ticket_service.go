package db

import (
	"github.com/balkashynov/inctrack/internal/models"
)

// Tickets stores incidents in the incidents table
type Tickets struct {
	store *Store
}

// EnsureSchema creates the incidents table when missing
func (t *Tickets) EnsureSchema() error {
	return t.store.migrate(&models.Incident{})
}

// ListAll retrieves every incident in insertion order
func (t *Tickets) ListAll() ([]models.Incident, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	incidents := []models.Incident{}
	if err := t.store.db.Order("id ASC").Find(&incidents).Error; err != nil {
		return nil, err
	}
	for i := range incidents {
		incidents[i].CreatedOn = incidents[i].CreatedOn.Local()
	}
	return incidents, nil
}

// Append saves one incident
func (t *Tickets) Append(incident models.Incident) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	incident.ID = 0
	if err := t.store.db.Create(&incident).Error; err != nil {
		return classify(t.store.path, err)
	}
	return nil
}
