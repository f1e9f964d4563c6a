// Package inflect provides heuristic recognition of Danish inflected word
// forms in free text. It is a bounded suffix heuristic, not a morphological
// analyzer.
package inflect
