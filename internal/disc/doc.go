// Package disc interfaces with physical optical drives.
//
// It maps device locators to mount points, queries tray state through the
// CDROM ioctl interface, reads disc labels via lsblk, and ejects media.
// Device quirks stay here so the stream source only ever sees directory
// paths it can read.
package disc
