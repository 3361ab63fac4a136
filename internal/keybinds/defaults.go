package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerChatBindings(r)
	registerAPIBindings(r)
	registerFilterBindings(r)
	registerEditorBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "tab", ActionSwitchTab)
}

// Chat input is a text area, so printable keys must stay unbound here
func registerChatBindings(r *Registry) {
	r.Register(ContextChat, "enter", ActionSendMessage)
	r.Register(ContextChat, "ctrl+l", ActionClearChat)
	r.Register(ContextChat, "esc", ActionQuit)
	r.RegisterMultiple(ContextChat, []string{"pgup", "ctrl+u"}, ActionScrollUp)
	r.RegisterMultiple(ContextChat, []string{"pgdown", "ctrl+d"}, ActionScrollDown)
}

func registerAPIBindings(r *Registry) {
	r.RegisterMultiple(ContextAPI, []string{"q", "esc"}, ActionQuit)
	r.RegisterMultiple(ContextAPI, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextAPI, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextAPI, "/", ActionOpenFilter)
	r.RegisterMultiple(ContextAPI, []string{"e", "enter"}, ActionEditBody)
	r.RegisterMultiple(ContextAPI, []string{"ctrl+r", "r"}, ActionRunTest)
	r.Register(ContextAPI, "ctrl+s", ActionLoadSample)
	r.Register(ContextAPI, "c", ActionToggleCollapse)
	r.Register(ContextAPI, "y", ActionCopyResult)
	r.RegisterMultiple(ContextAPI, []string{"pgup", "ctrl+u"}, ActionScrollUp)
	r.RegisterMultiple(ContextAPI, []string{"pgdown", "ctrl+d"}, ActionScrollDown)
}

func registerFilterBindings(r *Registry) {
	r.Register(ContextFilter, "enter", ActionApplyFilter)
	r.Register(ContextFilter, "esc", ActionCancelFilter)
}

func registerEditorBindings(r *Registry) {
	r.Register(ContextEditor, "esc", ActionCloseEditor)
	r.Register(ContextEditor, "ctrl+r", ActionRunTest)
	r.Register(ContextEditor, "ctrl+s", ActionLoadSample)
}
