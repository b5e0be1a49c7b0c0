package model

import "fmt"

// EntityType identifies a kind of synchronizable record. Each type has its
// own Sankhya resource and its own local table.
type EntityType string

const (
	EntityTypePartners   EntityType = "partners"
	EntityTypeTradeTypes EntityType = "trade_types"
)

// ParseEntityType validates a raw entity type string
func ParseEntityType(raw string) (EntityType, error) {
	switch EntityType(raw) {
	case EntityTypePartners, EntityTypeTradeTypes:
		return EntityType(raw), nil
	default:
		return "", fmt.Errorf("unknown entity type: %q", raw)
	}
}

// Valid reports whether the entity type is one of the known kinds
func (t EntityType) Valid() bool {
	_, err := ParseEntityType(string(t))
	return err == nil
}

// Table returns the local table holding records of this type
func (t EntityType) Table() string {
	switch t {
	case EntityTypePartners:
		return "sync_partners"
	case EntityTypeTradeTypes:
		return "sync_trade_types"
	default:
		return ""
	}
}

func (t EntityType) String() string {
	return string(t)
}
