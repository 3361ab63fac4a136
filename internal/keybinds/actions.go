package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the view in which keybindings are active
type Context string

const (
	ContextGlobal Context = "global" // Available everywhere
	ContextChat   Context = "chat"   // Chat tab, message input focused
	ContextAPI    Context = "api"    // API tab, endpoint list focused
	ContextFilter Context = "filter" // Endpoint filter input
	ContextEditor Context = "editor" // Request body editor
)

const (
	// Global actions
	ActionQuit      Action = "quit"
	ActionQuitForce Action = "quit_force"
	ActionSwitchTab Action = "switch_tab"

	// Chat actions
	ActionSendMessage Action = "send_message"
	ActionClearChat   Action = "clear_chat"
	ActionScrollUp    Action = "scroll_up"
	ActionScrollDown  Action = "scroll_down"

	// API tester actions
	ActionNavigateUp     Action = "navigate_up"
	ActionNavigateDown   Action = "navigate_down"
	ActionOpenFilter     Action = "open_filter"
	ActionEditBody       Action = "edit_body"
	ActionRunTest        Action = "run_test"
	ActionLoadSample     Action = "load_sample"
	ActionToggleCollapse Action = "toggle_collapse"
	ActionCopyResult     Action = "copy_result"

	// Filter and editor actions
	ActionApplyFilter  Action = "apply_filter"
	ActionCancelFilter Action = "cancel_filter"
	ActionCloseEditor  Action = "close_editor"
)

// knownContexts lists every context a user config may target
var knownContexts = map[Context]bool{
	ContextGlobal: true,
	ContextChat:   true,
	ContextAPI:    true,
	ContextFilter: true,
	ContextEditor: true,
}

// knownActions lists every action a user config may bind
var knownActions = map[Action]bool{
	ActionQuit:           true,
	ActionQuitForce:      true,
	ActionSwitchTab:      true,
	ActionSendMessage:    true,
	ActionClearChat:      true,
	ActionScrollUp:       true,
	ActionScrollDown:     true,
	ActionNavigateUp:     true,
	ActionNavigateDown:   true,
	ActionOpenFilter:     true,
	ActionEditBody:       true,
	ActionRunTest:        true,
	ActionLoadSample:     true,
	ActionToggleCollapse: true,
	ActionCopyResult:     true,
	ActionApplyFilter:    true,
	ActionCancelFilter:   true,
	ActionCloseEditor:    true,
}

// IsKnownAction reports whether action is handled by the TUI
func IsKnownAction(action Action) bool {
	return knownActions[action]
}

// IsKnownContext reports whether context exists
func IsKnownContext(context Context) bool {
	return knownContexts[context]
}
