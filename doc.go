// Package cooked renders forum post markup into sanitized HTML.
//
// Input is a markdown dialect extended with BBCode-style bracket tags
// ([quote], [wrap], [grid], inline [b]/[url]/...) and forum constructs:
// upload:// placeholder URIs, watched-word substitution, #slug hashtags
// and onebox expansion of bare URLs. Parsing produces a flat token
// stream with nested children on inline containers; rule modules rewrite
// the stream in ordered core passes; the HTML output then passes through
// an allow-list sanitizer before it is returned.
//
// The simplest way to invoke the pipeline is New followed by Render. Call
// Parse instead to get the token stream for your own post-processing.
//
// Rendering never fails on malformed input. Broken bracket syntax,
// unresolvable lookups and rejected link targets all degrade to literal
// or plain-text output.
package cooked
