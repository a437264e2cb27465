package services

import "log"

// FavoritesStore persists the favorite event IDs of a client.
type FavoritesStore interface {
	GetFavorites(clientID string) ([]string, error)
	SaveFavorites(clientID string, ids []string) error
}

type FavoritesService struct {
	store FavoritesStore
}

func NewFavoritesService(store FavoritesStore) *FavoritesService {
	return &FavoritesService{store: store}
}

// Favorites returns the stored IDs, or an empty list when the client has none.
func (fs *FavoritesService) Favorites(clientID string) ([]string, error) {
	ids, err := fs.store.GetFavorites(clientID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return []string{}, nil
	}
	return ids, nil
}

// Replace stores ids, dropping duplicates and keeping the first occurrence.
func (fs *FavoritesService) Replace(clientID string, ids []string) ([]string, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if err := fs.store.SaveFavorites(clientID, unique); err != nil {
		return nil, err
	}
	return unique, nil
}

// Toggle adds id when absent and removes it when present.
func (fs *FavoritesService) Toggle(clientID, id string) (bool, []string, error) {
	current, err := fs.Favorites(clientID)
	if err != nil {
		return false, nil, err
	}

	next := make([]string, 0, len(current)+1)
	added := true
	for _, existing := range current {
		if existing == id {
			added = false
			continue
		}
		next = append(next, existing)
	}
	if added {
		next = append(next, id)
	}

	if err := fs.store.SaveFavorites(clientID, next); err != nil {
		return false, nil, err
	}
	log.Printf("[FavoritesService] Client %s toggled %s (added=%t, total=%d)", clientID, id, added, len(next))
	return added, next, nil
}

func (fs *FavoritesService) Clear(clientID string) error {
	return fs.store.SaveFavorites(clientID, []string{})
}
