// Command dvdstream reads DVD title streams from discs, devices, and
// extracted disc images.
//
// It wraps the stream source in a small CLI: inspect a disc (info, titles),
// copy a title's video objects to a file or pipe (dump), watch a drive for
// inserted media (watch), and manage the scan history (cache).
package main
