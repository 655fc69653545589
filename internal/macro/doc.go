// Package macro runs Lua scripts that edit the session through the command
// history, so an entire script lands as a single undo entry.
//
// Scripts see a `wavestorm` table with track editing functions:
//
//	wavestorm.add_clip("Drums", "kick", 0, 4)
//	wavestorm.remove_clip("Drums", 1)
//	wavestorm.move_clip("Drums", 1, 3)
//	wavestorm.set_param("Drums", "volume", 0.8)
//	n = wavestorm.clip_count("Drums")
//	v = wavestorm.param("Drums", "volume")
//
// Clip indexes are 1-based on the Lua side. Every mutating call executes
// immediately inside a batch opened for the script; if the script errors
// the batch is cancelled and all of its edits are rolled back.
//
// The interpreter is sandboxed: only the base, table, string, and math
// libraries are opened, so scripts cannot touch the filesystem or spawn
// processes. A gopher-lua LState is not goroutine-safe; each Run uses a
// fresh state confined to the calling goroutine.
package macro
