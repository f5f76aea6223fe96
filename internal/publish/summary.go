package publish

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// RunSummary is the message published after each run of a batch.
type RunSummary struct {
	Scenario string
	Seed     string
	Outcome  string
	Error    string
	Records  int
	Sensors  int
	Totals   map[string]int
	Time     time.Time
}

// ToProto converts the summary to a protobuf Struct.
func (s RunSummary) ToProto() (*structpb.Struct, error) {
	totals := make(map[string]interface{}, len(s.Totals))
	for k, v := range s.Totals {
		totals[k] = v
	}
	return structpb.NewStruct(map[string]interface{}{
		"scenario": s.Scenario,
		"seed":     s.Seed,
		"outcome":  s.Outcome,
		"error":    s.Error,
		"records":  s.Records,
		"sensors":  s.Sensors,
		"totals":   totals,
		"time":     s.Time.UTC().Format(time.RFC3339Nano),
	})
}

// FromProto converts a protobuf Struct back to a summary.
func FromProto(pb *structpb.Struct) (RunSummary, error) {
	f := pb.GetFields()
	s := RunSummary{
		Scenario: f["scenario"].GetStringValue(),
		Seed:     f["seed"].GetStringValue(),
		Outcome:  f["outcome"].GetStringValue(),
		Error:    f["error"].GetStringValue(),
		Records:  int(f["records"].GetNumberValue()),
		Sensors:  int(f["sensors"].GetNumberValue()),
		Totals:   make(map[string]int),
	}
	for k, v := range f["totals"].GetStructValue().GetFields() {
		s.Totals[k] = int(v.GetNumberValue())
	}
	if ts := f["time"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return RunSummary{}, fmt.Errorf("invalid summary time: %w", err)
		}
		s.Time = t
	}
	return s, nil
}

// Encode serializes a summary to protobuf binary.
func Encode(s RunSummary) ([]byte, error) {
	pb, err := s.ToProto()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

// Decode parses a protobuf binary summary.
func Decode(data []byte) (RunSummary, error) {
	var pb structpb.Struct
	if err := proto.Unmarshal(data, &pb); err != nil {
		return RunSummary{}, fmt.Errorf("failed to unmarshal summary: %w", err)
	}
	return FromProto(&pb)
}

// JSON renders a summary as protojson, used for logging.
func JSON(s RunSummary) (string, error) {
	pb, err := s.ToProto()
	if err != nil {
		return "", err
	}
	b, err := protojson.Marshal(pb)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
