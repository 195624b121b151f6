package domain

import "time"

type SeedKingdom struct {
	Name      string `yaml:"name" json:"name"`
	Tag       string `yaml:"tag" json:"tag"`
	GuestRole string `yaml:"guest_role,omitempty" json:"guest_role,omitempty"`
}

type Seed struct {
	Kingdoms []SeedKingdom `yaml:"kingdoms" json:"kingdoms"`
}

// NewSeededDocument builds a fresh zeroed document with one squad per kingdom,
// in seed order.
func NewSeededDocument(seed Seed, now time.Time) *Document {
	doc := NewDocument()
	for _, k := range seed.Kingdoms {
		if k.Name == "" {
			continue
		}
		if _, dup := doc.Squads[k.Name]; dup {
			continue
		}
		doc.Squads[k.Name] = NewSquad(k.Name, k.Tag, now)
		doc.SquadRegistry[k.Name] = k.Tag
		doc.Order = append(doc.Order, k.Name)
		if k.GuestRole != "" {
			doc.GuestRegistry[k.Name] = k.GuestRole
		}
	}
	doc.UpdatedAt = now
	return doc
}
