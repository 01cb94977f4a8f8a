// Package template defines the template rendering seam used by the template
// backed table renderers. Adapters live in subpackages.
package template
