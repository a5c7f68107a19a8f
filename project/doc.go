// Package project extracts a battle summary from a decoded replay.
//
// The node tree of a replay has no schema: fields are addressed by position
// and their positions differ between games. Each supported game has a
// [Layout] describing where the summary fields live. [Summarize] parses the
// game title, picks the matching layout and reads the fields through it.
//
// # Tree Shape
//
// All known layouts share this outline:
//
//	root
//	  BATTLE_REPLAY
//	    [1] EMPIRE_REPLAY      [0] is the game title
//	    [2] BATTLE_SETUP
//	          [0] BATTLE_SETUP_INFO
//	    [4] BATTLE_RESULTS
//	          [n] ALLIANCES    one BATTLE_RESULT_ALLIANCE per team
//	                [16] ARMIES  one BATTLE_RESULT_ARMY per player
//
// The position of ALLIANCES, the map field in BATTLE_SETUP_INFO and the
// location of a player's region id are what the layouts vary.
package project
