package main

import (
	"WSNSpectra/internal/model"
	"encoding/csv"
	"fmt"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const sinkID = 1

// Options controls the synthetic traffic of one run.
type Options struct {
	Sensors   int     // Sensors are numbered 2..Sensors+1; node 1 is the sink.
	Records   int     // Number of trace records.
	Malicious []int   // Sensor ids flooding DIO/DAO messages.
	LossRate  float64 // Share of records that are not Successful.
}

func sensorName(id int) string {
	return "SENSOR-" + strconv.Itoa(id)
}

// Generate draws a random run: sensors exchange DIO/DAO control messages and send
// sensing data toward the sink. Malicious sensors emit control messages far more often.
func Generate(opts Options, rng *rand.Rand) []model.PacketRecord {
	malicious := make(map[int]bool)
	for _, id := range opts.Malicious {
		malicious[id] = true
	}
	randomSensor := func() int { return 2 + rng.Intn(opts.Sensors) }

	records := make([]model.PacketRecord, 0, opts.Records)
	for len(records) < opts.Records {
		src := randomSensor()
		var r model.PacketRecord

		roll := rng.Float64()
		if malicious[src] && roll < 0.8 {
			roll = roll / 0.8 * 0.5 // malicious nodes mostly send control traffic
		}
		switch {
		case roll < 0.2:
			r = model.PacketRecord{PacketType: model.ControlPacket, ControlSubtype: "DIO", SourceID: sensorName(src), ReceiverID: "Broadcast"}
			if rng.Intn(4) == 0 {
				r.SourceID = "SinkNode"
			}
			if rng.Intn(2) == 0 {
				r.ReceiverID = sensorName(randomSensor())
			}
		case roll < 0.5:
			parent := "SinkNode"
			if rng.Intn(2) == 0 {
				parent = sensorName(randomSensor())
			}
			r = model.PacketRecord{PacketType: model.ControlPacket, ControlSubtype: "DAO", SourceID: sensorName(src), ReceiverID: parent}
		case roll < 0.55:
			r = model.PacketRecord{PacketType: model.ControlPacket, ControlSubtype: "DIS", SourceID: sensorName(src), ReceiverID: "Broadcast"}
		default:
			dst := "SinkNode"
			if rng.Intn(3) == 0 {
				dst = sensorName(randomSensor())
			}
			r = model.PacketRecord{PacketType: model.Sensing, ControlSubtype: "App1_SENSING", SourceID: sensorName(src), ReceiverID: dst}
		}

		r.Status = model.StatusSuccessful
		if rng.Float64() < opts.LossRate {
			r.Status = "Errored"
		}
		records = append(records, r)
	}
	return records
}

// WriteCSV writes records in the simulator's packet trace layout.
func WriteCSV(path string, records []model.PacketRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"PACKET_ID", "SEGMENT_ID", "PACKET_TYPE", "CONTROL_PACKET_TYPE/APP_NAME", "SOURCE_ID", "DESTINATION_ID", "TRANSMITTER_ID", "RECEIVER_ID", "PACKET_STATUS"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range records {
		row := []string{strconv.Itoa(i + 1), "0", string(r.PacketType), r.ControlSubtype, r.SourceID, r.ReceiverID, r.SourceID, r.ReceiverID, r.Status}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func nodeIP(name string) net.IP {
	if name == "Broadcast" {
		return net.ParseIP("ff02::1a")
	}
	id := sinkID
	if n, err := strconv.Atoi(strings.TrimPrefix(name, "SENSOR-")); err == nil {
		id = n
	}
	ip := net.ParseIP("fd00::212:7400:0:0").To16()
	ip[14] = byte(id >> 8)
	ip[15] = byte(id)
	return ip
}

var rplCodes = map[string]uint8{"DIS": 0, "DIO": 1, "DAO": 2, "DAO-ACK": 3}

// WritePcap writes the Successful records as an RPL capture. Lost packets are never captured.
func WritePcap(path string, records []model.PacketRecord) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	pcapWriter := pcapgo.NewWriter(f)
	if err := pcapWriter.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		return 0, fmt.Errorf("failed to write pcap header: %w", err)
	}

	written := 0
	start := time.Now()
	for i, r := range records {
		if !r.Successful() {
			continue
		}
		ethLayer := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x12, 0x74, 0x00, 0x00, 0x01},
			DstMAC:       net.HardwareAddr{0x00, 0x12, 0x74, 0x00, 0x00, 0x02},
			EthernetType: layers.EthernetTypeIPv6,
		}
		ipLayer := &layers.IPv6{Version: 6, HopLimit: 64, SrcIP: nodeIP(r.SourceID), DstIP: nodeIP(r.ReceiverID)}

		var next gopacket.SerializableLayer
		if r.PacketType == model.ControlPacket {
			ipLayer.NextHeader = layers.IPProtocolICMPv6
			next = &layers.ICMPv6{TypeCode: layers.CreateICMPv6TypeCode(155, rplCodes[r.ControlSubtype])}
		} else {
			ipLayer.NextHeader = layers.IPProtocolUDP
			udp := &layers.UDP{SrcPort: 8765, DstPort: 5678}
			udp.SetNetworkLayerForChecksum(ipLayer)
			next = udp
		}

		buf := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{
			ComputeChecksums: true,
			FixLengths:       true,
		}
		if err := gopacket.SerializeLayers(buf, opts, ethLayer, ipLayer, next, gopacket.Payload([]byte{0, 0, 0, 0})); err != nil {
			return written, fmt.Errorf("failed to serialize packet: %w", err)
		}

		ci := gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(buf.Bytes()),
			Length:        len(buf.Bytes()),
		}
		if err := pcapWriter.WritePacket(ci, buf.Bytes()); err != nil {
			return written, fmt.Errorf("failed to write packet: %w", err)
		}
		written++
	}
	return written, nil
}
