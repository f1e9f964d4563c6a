// Package ordnet scrapes the Danish dictionary at ordnet.dk (Den Danske
// Ordbog) for pronunciation, grammar and definition data. It provides a
// lookup client with a circuit breaker and a parser for the DDO result
// pages, including the pronunciation audio links used by the audio
// download step.
package ordnet
