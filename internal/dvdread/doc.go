// Package dvdread exposes the disc-reading capability set the stream source
// consumes: open a disc, open navigation info, list titles, open a title-set
// file, and read logical blocks.
//
// The package mirrors the shape of a DVD navigation library without decoding
// IFO binary structures itself. The bundled filesystem backend serves mounted
// discs and extracted disc images by scanning the VIDEO_TS directory layout;
// anything deeper (UDF, PGC navigation, CSS) belongs to a real disc library
// behind the same interfaces.
package dvdread
