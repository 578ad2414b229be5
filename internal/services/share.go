package services

import (
	"context"
	"fmt"

	"chipin/internal/domain"

	"github.com/shopspring/decimal"
)

// shareCalculator loads the counts and caps the share and status rules need.
type shareCalculator struct {
	groupRepo domain.GroupRepository
	eventRepo domain.EventRepository
}

func (c shareCalculator) share(ctx context.Context, e *domain.Event) (decimal.Decimal, error) {
	joined, err := c.eventRepo.CountMembers(ctx, e.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("count event members: %w", err)
	}
	groupSize := 0
	if joined == 0 {
		if groupSize, err = c.groupRepo.CountMembers(ctx, e.GroupID); err != nil {
			return decimal.Zero, fmt.Errorf("count group members: %w", err)
		}
	}
	return domain.CalculateShare(e.TotalSpend, joined, groupSize), nil
}

// checkStatus recomputes e.Status from every current group member's cap.
// The caller persists the result.
func (c shareCalculator) checkStatus(ctx context.Context, e *domain.Event) error {
	share, err := c.share(ctx, e)
	if err != nil {
		return err
	}
	members, err := c.groupRepo.ListMembers(ctx, e.GroupID)
	if err != nil {
		return fmt.Errorf("list group members: %w", err)
	}
	caps := make([]decimal.Decimal, len(members))
	for i, m := range members {
		caps[i] = m.SpendingCap()
	}
	e.Status = domain.EvaluateStatus(share, caps)
	return nil
}
