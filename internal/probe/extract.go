package probe

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ExtractPayload pulls the receiver-stream bytes out of a captured packet.
// Only IPv4/UDP traffic on the receiver's port is accepted. toDevice is
// true when the packet is addressed to the receiver, i.e. the bytes were
// solicited by the autopilot side.
func ExtractPayload(packet gopacket.Packet, devicePort uint16) (payload []byte, toDevice bool, err error) {
	if l := packet.Layer(layers.LayerTypeIPv4); l == nil {
		return nil, false, fmt.Errorf("not an IPv4 packet")
	}

	l := packet.Layer(layers.LayerTypeUDP)
	if l == nil {
		return nil, false, fmt.Errorf("not a UDP packet")
	}
	udp := l.(*layers.UDP)

	switch devicePort {
	case uint16(udp.DstPort):
		toDevice = true
	case uint16(udp.SrcPort):
		toDevice = false
	default:
		return nil, false, fmt.Errorf("packet does not involve device port %d", devicePort)
	}

	if len(udp.Payload) == 0 {
		return nil, toDevice, fmt.Errorf("empty UDP payload")
	}
	return udp.Payload, toDevice, nil
}
