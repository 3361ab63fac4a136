/*
Package tui implements the terminal user interface for restchat.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: view state on top of a session.Session
  - Update: processes key presses and request completions
  - View: renders the active tab

# Key Components

  - model.go: Model struct, messages and Update
  - init.go: construction and Run
  - keys.go: keybind routing per context
  - actions.go: side effects (chat send, endpoint test, clipboard)
  - chat_view.go, api_view.go: tab rendering
  - render.go: styles, tab bar, status bar and layout

# Requests

Chat and endpoint tests run as tea.Cmd functions. Their completion arrives
as chatResponseMsg or testResultMsg. Only one of each kind is in flight at a
time; new sends are refused until the previous one completes. Clearing the
chat cancels the outstanding reply through the session.
*/
package tui
