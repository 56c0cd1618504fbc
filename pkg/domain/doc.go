/*
Package domain contains the core domain models of the Quill preview engine.

It defines the entities shared by the story runtime and the preview protocol, such as
Passages, Choices, rendered Outputs and the mutable Session State. This package is kept
pure and free of external dependencies like I/O or persistence.

# Key Entities

  - Story: The decoded story document (passages, initial passage, seed state).
  - Passage: A named unit of narrative content and the choices leaving it.
  - Output: The rendered view of a passage (content, visible choices, passage id).
  - SessionState: The variable mapping evaluated by the story's logic.
*/
package domain
