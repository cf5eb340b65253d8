// Package upload validates event-log uploads against a fixed policy before
// they are relayed anywhere.
//
// A file is accepted when its filename extension is in the allow-set
// (.csv, .xes, .xlsx) or its declared content type is in the MIME allow-set.
// When no content type is declared, the staged bytes are sniffed with
// mimetype as a fallback. The policy also enforces the single-file-per-
// request constraint and a maximum payload size.
//
// Validation is total: every filename/content-type pair classifies as accept
// or reject, never anything in between.
package upload
