// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): extraction, segmentation,
// embedding, vector search, generation and persistence.
package services
