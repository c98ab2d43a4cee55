package domain

import "strings"

// BindHost is the address dev and preview servers listen on.
type BindHost string

const (
	// LoopbackHost keeps servers reachable from this machine only.
	LoopbackHost BindHost = "127.0.0.1"
	// AllInterfacesHost exposes servers on every network interface.
	AllInterfacesHost BindHost = "0.0.0.0"

	// HostPlaceholder is replaced with the effective bind host in argv and environment values.
	HostPlaceholder = "{host}"
)

// HostFor returns the bind host for the all-interfaces switch.
func HostFor(allInterfaces bool) BindHost {
	if allInterfaces {
		return AllInterfacesHost
	}
	return LoopbackHost
}

// String implements fmt.Stringer.
func (h BindHost) String() string {
	if h == "" {
		return string(LoopbackHost)
	}
	return string(h)
}

// Expand replaces every host placeholder in s.
func (h BindHost) Expand(s string) string {
	return strings.ReplaceAll(s, HostPlaceholder, h.String())
}
