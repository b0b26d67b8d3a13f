// Package incumbent keeps the best complete solution found during a search
// run and publishes every improvement.
//
// Tracker:
//
//   - Offer records a leaf. The best solution only changes when the
//     candidate is strictly cheaper; ties keep the earlier solution, which
//     keeps sequential runs reproducible.
//   - Every improvement appends an Event. Event costs are strictly
//     decreasing and their timestamps are non-decreasing.
//   - Threshold is the value branch-and-bound prunes against: the best cost,
//     or the worst cost of the solution pool once the pool is full. It is
//     mirrored in an atomic so expansion workers read it without locking;
//     a stale read is always the more conservative (larger) value.
//
// Pool:
//
//	Pool keeps the k cheapest leaves seen so far (k == 1 is the plain
//	incumbent).
//
// Reporter:
//
//	Reporter hands events to a Sink on its own goroutine so the search loop
//	never waits on a slow consumer. Emission can be throttled with a minimum
//	interval (golang.org/x/time/rate); a throttled event is replaced by any
//	newer one and the latest pending event is always delivered by Close.
package incumbent
