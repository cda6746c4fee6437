package player

import (
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const mprisPrefix = "org.mpris.MediaPlayer2."

// ListServices returns the names of all mpris players on the bus, sorted.
func ListServices(bus *dbus.Conn) ([]string, error) {
	var names []string
	err := bus.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list dbus names: %w", err)
	}

	return filterServices(names), nil
}

func filterServices(names []string) []string {
	var services []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) && len(name) > len(mprisPrefix) {
			services = append(services, name)
		}
	}
	sort.Strings(services)
	return services
}

// Identity returns the human readable player name, or "" when the player
// does not publish one.
func Identity(bus *dbus.Conn, service string) string {
	variant, err := bus.Object(service, mprisPath).GetProperty(mprisRootIface + ".Identity")
	if err != nil {
		return ""
	}

	identity, _ := variant.Value().(string)
	return identity
}
