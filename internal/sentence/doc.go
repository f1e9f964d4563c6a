// Package sentence implements the sentence-generation and validation
// pipeline. It requests example sentences and glosses for Danish words from
// a language-generation service, parses and validates the responses, and
// escalates through retry strategies until every word either has enough
// sentences containing the exact requested form (or a deliberately
// substituted inflected form) or carries a terminal error.
package sentence
