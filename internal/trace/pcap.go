package trace

import (
	"WSNSpectra/internal/model"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ICMPv6 type carrying RPL control messages (RFC 6550).
const icmpv6TypeRPL = 155

var rplCodes = map[uint8]string{
	0x00: "DIS",
	0x01: "DIO",
	0x02: "DAO",
	0x03: "DAO-ACK",
}

// PcapOptions controls how captured addresses map onto trace node names.
type PcapOptions struct {
	// SinkNodes lists node ids (low 16 bits of the interface id) that are the border router/sink.
	SinkNodes []int
}

// ReadPcap converts an RPL network capture into trace records.
// Every captured packet was delivered, so all records are Successful.
func ReadPcap(path string, opts PcapOptions) ([]model.PacketRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap file '%s': %w", path, err)
	}
	defer file.Close()

	reader, err := pcapgo.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcap header of '%s': %w", path, err)
	}

	sinks := make(map[int]bool, len(opts.SinkNodes))
	for _, id := range opts.SinkNodes {
		sinks[id] = true
	}

	var records []model.PacketRecord
	skipped := 0
	for {
		data, _, err := reader.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read packet from '%s': %w", path, err)
		}

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.Default)
		record, ok := parsePacket(packet, sinks)
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if skipped > 0 {
		log.Printf("Skipped %d non-RPL, non-UDP packets in '%s'", skipped, path)
	}
	return records, nil
}

// parsePacket maps an IPv6 packet onto a trace record.
func parsePacket(packet gopacket.Packet, sinks map[int]bool) (model.PacketRecord, bool) {
	ipLayer := packet.Layer(layers.LayerTypeIPv6)
	if ipLayer == nil {
		return model.PacketRecord{}, false
	}
	ip := ipLayer.(*layers.IPv6)

	record := model.PacketRecord{
		SourceID:   nodeName(ip.SrcIP, sinks),
		ReceiverID: nodeName(ip.DstIP, sinks),
		Status:     model.StatusSuccessful,
	}

	if icmpLayer := packet.Layer(layers.LayerTypeICMPv6); icmpLayer != nil {
		icmp := icmpLayer.(*layers.ICMPv6)
		if icmp.TypeCode.Type() != icmpv6TypeRPL {
			return model.PacketRecord{}, false
		}
		name, ok := rplCodes[icmp.TypeCode.Code()]
		if !ok {
			name = "RPL-" + strconv.Itoa(int(icmp.TypeCode.Code()))
		}
		record.PacketType = model.ControlPacket
		record.ControlSubtype = name
		return record, true
	}

	if udpLayer := packet.Layer(layers.LayerTypeUDP); udpLayer != nil {
		udp := udpLayer.(*layers.UDP)
		record.PacketType = model.Sensing
		record.ControlSubtype = "UDP-" + strconv.Itoa(int(udp.DstPort))
		return record, true
	}

	return model.PacketRecord{}, false
}

// nodeName names an IPv6 endpoint the way simulator traces do.
func nodeName(ip []byte, sinks map[int]bool) string {
	if len(ip) != 16 {
		return "Unknown"
	}
	if ip[0] == 0xff {
		return "Broadcast"
	}
	id := int(ip[14])<<8 | int(ip[15])
	if sinks[id] {
		return "SinkNode"
	}
	return "SENSOR-" + strconv.Itoa(id)
}
