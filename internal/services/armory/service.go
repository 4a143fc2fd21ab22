package armory

import (
	"context"
	"sort"

	"github.com/bastiongames/bastion/internal/model"
	"github.com/bastiongames/bastion/internal/storage"
)

// InventoryEntry is one inventory row joined to its tower
type InventoryEntry struct {
	TowerID     model.TowerID `json:"tower_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Quantity    int           `json:"quantity"`
}

// Service manages the tower catalog and per-player inventories
type Service struct {
	store storage.Storage
}

// New creates a new armory service
func New(store storage.Storage) *Service {
	return &Service{store: store}
}

// ListTowers returns the full tower catalog ordered by id. Storage returns
// towers unordered.
func (s *Service) ListTowers(ctx context.Context) ([]*model.Tower, error) {
	towers, err := s.store.ListTowers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(towers, func(i, j int) bool { return towers[i].ID < towers[j].ID })
	return towers, nil
}

// GetTower returns one catalog tower by id
func (s *Service) GetTower(ctx context.Context, id model.TowerID) (*model.Tower, error) {
	return s.store.GetTower(ctx, id)
}

// CreateTower adds a tower to the catalog. Tower names are unique.
func (s *Service) CreateTower(ctx context.Context, name, description string) (*model.Tower, error) {
	if name == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	if len(name) > 50 {
		return nil, model.NewValidationError("name", "must be at most 50 characters")
	}
	tower := &model.Tower{Name: name, Description: description}
	if err := s.store.CreateTower(ctx, tower); err != nil {
		return nil, err
	}
	return tower, nil
}

// Inventory returns the player's owned towers joined to catalog entries
func (s *Service) Inventory(ctx context.Context, playerID model.PlayerID) ([]*InventoryEntry, error) {
	items, err := s.store.GetInventory(ctx, playerID)
	if err != nil {
		return nil, err
	}

	entries := make([]*InventoryEntry, 0, len(items))
	for _, item := range items {
		tower, err := s.store.GetTower(ctx, item.TowerID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &InventoryEntry{
			TowerID:     item.TowerID,
			Name:        tower.Name,
			Description: tower.Description,
			Quantity:    item.Quantity,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TowerID < entries[j].TowerID })
	return entries, nil
}

// AddToInventory grants the player quantity copies of a tower. Quantities
// accumulate onto any existing stack.
func (s *Service) AddToInventory(ctx context.Context, playerID model.PlayerID, towerID model.TowerID, quantity int) error {
	if quantity < 1 {
		return model.NewValidationError("quantity", "must be at least 1")
	}
	return s.store.AddInventoryItem(ctx, &model.InventoryItem{
		PlayerID: playerID,
		TowerID:  towerID,
		Quantity: quantity,
	})
}
