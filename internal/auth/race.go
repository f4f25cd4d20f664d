package auth

import (
	"fmt"
	"time"

	"vendorflow-backend/internal/models"
)

// profileResult is the terminal outcome of a profile lookup.
type profileResult struct {
	profile *models.Profile
	err     error
}

// raceProfileLookup runs lookup in its own goroutine and waits at most
// timeout for it to settle. The first of {lookup, timeout} to settle wins.
// When the timeout wins, the lookup is left running detached and its
// eventual result is discarded; it can never overwrite state committed by
// the winner. The boolean reports whether the lookup settled in time.
func raceProfileLookup(lookup func() (*models.Profile, error), timeout time.Duration) (profileResult, bool) {
	// Buffered so the losing lookup can settle without a reader.
	done := make(chan profileResult, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				// A panicking lookup must still settle the race.
				done <- profileResult{err: fmt.Errorf("profile lookup panicked: %v", rec)}
			}
		}()
		profile, err := lookup()
		done <- profileResult{profile: profile, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res, true
	case <-timer.C:
		return profileResult{}, false
	}
}
