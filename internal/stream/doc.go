// Package stream presents a DVD title's video object stream as a linear,
// forward-only, block-granular byte stream.
//
// A Source resolves a locator to a disc, picks a playable title, validates
// the navigation structures along the way, and then hands out one 2048-byte
// logical block per Read call until the title-set file is exhausted. Seeking
// is a permanent no; callers that need random access must buffer upstream.
package stream
