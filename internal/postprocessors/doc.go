// Package postprocessors provides the text slicing strategies used before
// submitting oversized input to the AI service.
package postprocessors
