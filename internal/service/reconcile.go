package service

import (
	"context"
	"sort"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
)

// reconcileScooter closes the scooter's open postponement when both of its
// payments are paid. The caller must hold the scooter lock.
func reconcileScooter(ctx context.Context, r repository.Repositories, scooterID int32, now time.Time) (*domain.Postponement, error) {
	open, err := r.Postponements.GetOpenByScooter(ctx, scooterID)
	if err != nil || open == nil {
		return nil, err
	}
	payments, err := r.Payments.ListByScooter(ctx, scooterID)
	if err != nil {
		return nil, err
	}

	ok, original := engine.PlanCloseIfBothPaid(open, payments)
	if !ok {
		return nil, nil
	}
	if original.Amount != 0 {
		if err := r.Payments.UpdateAmount(ctx, original.ID, 0); err != nil {
			return nil, err
		}
	}
	if err := r.Postponements.Close(ctx, open.ID, now); err != nil {
		return nil, err
	}
	open.IsClosed = true
	open.ClosedAt = &now

	logger.Info("Postponement reconciled", "scooterID", scooterID, "postponementID", open.ID)
	return open, nil
}

// markPaidAndReconcile marks payments paid and reconciles every scooter they
// belong to. Scooters are locked in id order.
func markPaidAndReconcile(ctx context.Context, r repository.Repositories, ids []int32, now time.Time) (*domain.MarkPaidResult, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, domain.ValidationErrorf("no payments given")
	}

	payments, err := r.Payments.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(payments) != len(ids) {
		found := map[int32]bool{}
		for _, p := range payments {
			found[p.ID] = true
		}
		var missing []int32
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, domain.NotFoundf("payments %v", missing)
	}

	var scooterIDs []int32
	for _, p := range payments {
		scooterIDs = append(scooterIDs, p.ScooterID)
	}
	scooterIDs = uniqueIDs(scooterIDs)
	for _, id := range scooterIDs {
		if _, err := r.Scooters.LockByID(ctx, id); err != nil {
			return nil, err
		}
	}

	paid, err := r.Payments.MarkPaid(ctx, ids, now)
	if err != nil {
		return nil, err
	}

	result := &domain.MarkPaidResult{Paid: paid, ClosedPostponements: []int32{}}
	for _, id := range scooterIDs {
		closed, err := reconcileScooter(ctx, r, id, now)
		if err != nil {
			return nil, err
		}
		if closed != nil {
			result.ClosedPostponements = append(result.ClosedPostponements, closed.ID)
		}
	}
	return result, nil
}

// uniqueIDs returns ids sorted with duplicates removed.
func uniqueIDs(ids []int32) []int32 {
	out := make([]int32, 0, len(ids))
	seen := make(map[int32]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func scooterIDs(scooters []domain.Scooter) []int32 {
	ids := make([]int32, len(scooters))
	for i, s := range scooters {
		ids[i] = s.ID
	}
	return ids
}

// clientSnapshot loads a client's payments and open postponements.
func clientSnapshot(ctx context.Context, r repository.Repositories, clientID int32) ([]domain.Payment, []domain.Postponement, error) {
	if _, err := r.Clients.GetByID(ctx, clientID); err != nil {
		return nil, nil, err
	}
	scooters, err := r.Scooters.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	payments, err := r.Payments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	open, err := r.Postponements.ListOpenByScooters(ctx, scooterIDs(scooters))
	if err != nil {
		return nil, nil, err
	}
	return payments, open, nil
}
