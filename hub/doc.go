// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub delivers score updates to live subscribers.

Each subscriber owns a bounded queue of serialized envelopes:

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	for {
		select {
		case msg := <-sub.Messages():
			// write msg to the client
		case <-sub.Done():
			return
		}
	}

Publish never blocks. When a subscriber's queue is full it is evicted and
its Done channel closes; the transport then tears the connection down.
The message channel is never closed, so a concurrent Publish cannot panic.

Envelope:

	{"type":"score_update","scores":{...},"totals":{...},"leaderboard":[...],"jury_list":[...]}
*/
package hub
