package trace

import (
	"WSNSpectra/internal/model"
	"path/filepath"
	"strings"
)

// Load reads a trace, choosing the pcap or CSV reader by file extension.
func Load(path, encoding string, opts PcapOptions) ([]model.PacketRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcap", ".cap":
		return ReadPcap(path, opts)
	default:
		return ReadCSV(path, encoding)
	}
}
