// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate derives totals, the leaderboard and the score matrix from
stored records. Every function is pure; nothing here touches the database.

	snap := aggregate.BuildSnapshot(participants, jury, records)

A participant's total is the sum of all three contests over every jury
member, with missing records counted as zero. The leaderboard is sorted
descending by total with a stable sort, so ties keep participant order.
*/
package aggregate
