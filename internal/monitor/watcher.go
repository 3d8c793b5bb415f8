package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"dvdstream/internal/logging"
)

// InsertEvent describes a matched disc-insertion uevent.
type InsertEvent struct {
	Device string
	Action string
}

// Watcher listens for disc-insertion netlink events on one device.
type Watcher struct {
	device string
	logger *slog.Logger
}

// NewWatcher creates a watcher for the given /dev path.
func NewWatcher(device string, logger *slog.Logger) (*Watcher, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, errors.New("watcher requires a device path")
	}
	return &Watcher{
		device: device,
		logger: logging.NewComponentLogger(logger, "monitor"),
	}, nil
}

// WaitForDisc blocks until media is inserted into the watched device or the
// context is cancelled.
func (w *Watcher) WaitForDisc(ctx context.Context) (InsertEvent, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return InsertEvent{}, fmt.Errorf("connect to netlink socket: %w", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())
	defer close(monitorQuit)

	w.logger.Info("waiting for disc",
		logging.String(logging.FieldDevice, w.device),
	)

	for {
		select {
		case <-ctx.Done():
			return InsertEvent{}, ctx.Err()
		case uevent := <-queue:
			devname := extractDeviceName(uevent)
			if devname == "" || devname != w.device {
				w.logger.Debug("ignoring event for other device",
					logging.String(logging.FieldDevice, devname),
				)
				continue
			}
			w.logger.Info("disc media detected",
				logging.String(logging.FieldDevice, devname),
				logging.String("action", string(uevent.Action)),
			)
			return InsertEvent{Device: devname, Action: string(uevent.Action)}, nil
		case err := <-errs:
			w.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

// buildMatcher matches SUBSYSTEM=block, ID_CDROM=1, ID_CDROM_MEDIA=1,
// ACTION=change|add, the event shape udev emits when media lands in a drive.
func buildMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

// extractDeviceName gets the device path from a uevent.
func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
