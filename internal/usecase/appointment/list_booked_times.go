package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
)

type ListBookedTimes struct {
	repo  domain.Repository
	cache BookedTimesCache
}

func NewListBookedTimes(repo domain.Repository, cache BookedTimesCache) *ListBookedTimes {
	return &ListBookedTimes{repo: repo, cache: cache}
}

// Execute returns the confirmed times for barber on date, sorted. Pending and
// cancelled bookings do not occupy a slot.
func (uc *ListBookedTimes) Execute(
	ctx context.Context,
	barberID string,
	date string,
) ([]string, error) {

	barberID = strings.TrimSpace(barberID)
	date = strings.TrimSpace(date)

	var gen int64
	if uc.cache != nil {
		times, g, ok := uc.cache.Get(ctx, barberID, date)
		if ok {
			return times, nil
		}
		gen = g
	}

	times, err := uc.repo.ListConfirmedTimes(ctx, barberID, date)
	if err != nil {
		return nil, err
	}

	// A transition that commits during the read bumps the generation, so
	// this write can no longer shadow it.
	if uc.cache != nil {
		uc.cache.Set(ctx, barberID, date, gen, times)
	}
	return times, nil
}
