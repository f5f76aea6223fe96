package model

// Task defines a single, self-contained counting task over a packet trace (e.g., DAO sent/received).
// This is the interface for the "execution layer".
type Task interface {
	ProcessRecord(record *PacketRecord)
	Snapshot() *SensorCountTable
	Reset()
	Name() string
}
