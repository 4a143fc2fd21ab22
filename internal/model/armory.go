package model

// TowerID uniquely identifies a tower in the catalog
type TowerID int64

// Tower is a catalog entry players can collect
type Tower struct {
	ID          TowerID
	Name        string // unique
	Description string
}

// InventoryItem is a stack of towers owned by a player.
// One record per (player, tower) pair; adding more accumulates Quantity.
type InventoryItem struct {
	PlayerID PlayerID
	TowerID  TowerID
	Quantity int
}
