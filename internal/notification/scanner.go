package notification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"MyPlants/internal/plant"
)

// PlantSource lists plants whose reminder has not been sent. *plant.Repository implements it.
type PlantSource interface {
	FindUnnotified(ctx context.Context) ([]*plant.Plant, error)
}

// DueGroups maps a tenant id to its due plants, in store order.
type DueGroups map[string][]*plant.Plant

// Len is the number of due plants across tenants.
func (g DueGroups) Len() int {
	n := 0
	for _, plants := range g {
		n += len(plants)
	}
	return n
}

// Tenants returns the tenant ids in a stable order.
func (g DueGroups) Tenants() []string {
	tenants := make([]string, 0, len(g))
	for t := range g {
		tenants = append(tenants, t)
	}
	sort.Strings(tenants)
	return tenants
}

// Scanner finds plants that need a watering reminder.
type Scanner struct {
	plants PlantSource
}

func NewScanner(plants PlantSource) *Scanner {
	return &Scanner{plants: plants}
}

// ScanDue groups by owner every plant that is due at now. Plants with reminders
// switched off are skipped however overdue they are.
func (s *Scanner) ScanDue(ctx context.Context, now time.Time) (DueGroups, error) {
	candidates, err := s.plants.FindUnnotified(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan plants: %w", err)
	}

	groups := DueGroups{}
	for _, p := range candidates {
		if !p.RemindersOn() {
			continue
		}
		if !p.IsDue(now) {
			continue
		}
		groups[p.OwnerID] = append(groups[p.OwnerID], p)
	}
	return groups, nil
}
