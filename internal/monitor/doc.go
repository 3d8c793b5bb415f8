// Package monitor watches udev netlink events for optical disc insertion.
//
// It backs `dvdstream watch`, which blocks until media appears in the
// configured drive. Listening on the udev socket avoids polling the drive
// and needs no udev rules.
package monitor
