// Package processor contains the core pipeline for turning Danish words
// into Anki flashcard materials. It drives sentence generation, enriches
// records with grammar data from ordnet.dk, downloads pronunciation audio
// and illustration images, and hands the results to the anki package for
// CSV and .apkg export. Both the CLI and the GUI run through it.
package processor
