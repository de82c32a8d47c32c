// Package renderer provides the display layer for the pixed editor.
//
// The renderer is responsible for:
//   - Drawing canvas cells as colored terminal blocks
//   - Mapping screen coordinates back to canvas cells
//   - Rendering the editing cursor and status line
//   - Backend abstraction for terminal output
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│   Canvas blit │ Cursor │ Status line    │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend (tests) │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	backend, _ := backend.NewTerminal()
//	r := renderer.New(backend, renderer.DefaultOptions())
//	r.Render(view)
package renderer
