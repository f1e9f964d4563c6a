// Package models provides functionality for listing and categorizing
// available OpenAI models. It helps users discover which chat and TTS
// models are available with their API key, for the --list-models flag
// and for picking an alternative when a model is unavailable.
package models
