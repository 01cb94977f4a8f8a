// Package orchestrator wires definitions, presenters, sanitizers, themes and
// renderers into a single Generate call.
package orchestrator
