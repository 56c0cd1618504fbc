/*
Package ports defines the driven ports (interfaces) of the Quill preview server.

These interfaces decouple the preview protocol from the story runtime, allowing the
command loop to drive any engine that can navigate passages and expose its state.

# Key Interfaces

  - Engine: Navigates the passage graph and owns the live SessionState.
  - EngineFactory: Builds the single Engine of a process from the story document.
*/
package ports
