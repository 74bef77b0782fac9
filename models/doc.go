// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Participant: id, short code, display name
  - JuryMember: id, unique name, access code
  - ScoreRecord: one jury member's three contest scores for a participant
  - Snapshot: participants, jury list, score matrix, totals, leaderboard

# Contests

Contest names are parsed into a closed enum; anything outside
contest1, contest2, contest3 is rejected with ErrInvalidContest:

	field, err := models.ParseContestField("contest2")

# Live Envelope

Every accepted mutation pushes a ScoreUpdate:

	{"type": "score_update", "scores": {...}, "totals": {...},
	 "leaderboard": [...], "jury_list": [...]}

# Request Types

  - UpdateScoreRequest: participant_id, jury_id, contest, score
  - FinalizeScoresRequest: participant_id, jury_id
  - AddParticipantRequest: code, name
  - AddJuryRequest: name

Requests carry go-playground/validator tags checked by middleware.Validate.
*/
package models
