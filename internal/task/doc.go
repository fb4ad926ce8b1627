// Package task defines the board's task model and the persisted envelope.
//
// The envelope stored under the board key follows the schema defined in
// board.schema.json:
//
//	{
//	  "schema_version": 1,
//	  "saved_at": "2026-01-01T00:00:00Z",
//	  "tasks": [
//	    {
//	      "id": "4b6f1c2e-9a0d-4f7e-9a43-1c2e4b6f9a0d",
//	      "title": "Task title",
//	      "description": "Free text",
//	      "status": "backlog"
//	    }
//	  ]
//	}
//
// # Validation
//
// The package supports two validation modes:
//
// 1. JSON Schema validation (when a schema file is provided):
//   - Full validation against JSON Schema draft-2020-12
//
// 2. Minimal fallback validation (when no schema is available):
//   - Envelope checks (schema_version, tasks presence)
//   - Task field checks (id presence and uniqueness, title presence, status enum)
//
// # Task Status Values
//
//   - "backlog": task has not been started
//   - "in_progress": task is being worked on
//   - "done": task is complete
//   - "empty": synthetic placeholder for rendering a blank column; never persisted
//
// # Envelope Format
//
// When encoding, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Stable key ordering (via JSON marshaling)
package task
