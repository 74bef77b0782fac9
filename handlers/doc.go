// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP and WebSocket handlers for the jury
scoring service.

# Handler Types

Each handler is a struct over the mutation gate or the broadcast hub:

  - ScoreHandler: score submission, finalize, full snapshot, leaderboard
  - JuryHandler: public jury list, profile lookup and self-service profile creation
  - AdminHandler: participant and jury management behind X-Admin-Key
  - LiveHandler: WebSocket stream of score updates

	scores := handlers.NewScoreHandler(g)
	live := handlers.NewLiveHandler(h, cfg)

# Scoring

	POST /update_score    {participant_id, jury_id, contest, score}
	POST /finalize_scores {participant_id, jury_id}

Both answer {success, error?}. Rejections carry a specific reason:

	400 score must be between 0 and 5
	400 contest must be one of contest1, contest2, contest3
	404 participant or jury member not found
	409 scores are already finalized
	500 failed to save score

# Live Updates

GET /ws upgrades to WebSocket. Every accepted mutation pushes one
score_update envelope to every connection. A client that falls behind is
dropped; it reconnects and reloads GET /scores.

Each connection runs a read pump (disconnect detection, pongs) and a
write pump (the only writer). Either side failing unsubscribes.
*/
package handlers
