// Package annotate is the client of the annotation service that parses a
// sentence into its basic and enhanced dependency graphs.
//
// The service accepts
//
//	POST <base>/api/1/annotate
//	{"sentence": "...", "enhance_ud": true, "enhanced_plus_plus": true, "enhanced_extra": false}
//
// and answers with one Odin payload per annotation scheme:
//
//	{"basic": {...odin...}, "plus": {...odin...}}
//
// [Client.Annotate] validates the sentence, serves repeated requests from
// a [cache.Cache] and retries transient failures (connection errors, 429,
// 5xx) with exponential backoff. Errors carry the NETWORK_ERROR or
// TIMEOUT code from package errors so the HTTP API maps them to 502/504.
package annotate
