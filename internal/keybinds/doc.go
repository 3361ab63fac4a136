/*
Package keybinds maps key strings to actions per view context.

# Contexts

	global  available everywhere (ctrl+c, tab)
	chat    chat tab with the message input focused
	api     API tab with the endpoint list focused
	filter  endpoint filter input
	editor  request body editor

Match looks in the given context first and falls back to global. Text inputs
(chat, filter, editor) only bind control keys so typing is never swallowed.

# Configuration

User overrides live under the keybinds key of the application config:

	keybinds:
	  chat:
	    ctrl+k: clear_chat
	  api:
	    "x,ctrl+x": run_test
	    r: none

Comma separated keys bind several keys at once and the action "none" removes
a default binding. Unknown contexts or actions are rejected.
*/
package keybinds
