package manager

import (
	"WSNSpectra/internal/batch"
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/publish"
	"WSNSpectra/internal/sensor"
	"WSNSpectra/internal/tabular"
	"WSNSpectra/internal/telemetry"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const traceHeader = "PACKET_ID,PACKET_TYPE,CONTROL_PACKET_TYPE/APP_NAME,SOURCE_ID,RECEIVER_ID,PACKET_STATUS\n"

type recordingPublisher struct {
	summaries []publish.RunSummary
}

func (p *recordingPublisher) Publish(s publish.RunSummary) error {
	p.summaries = append(p.summaries, s)
	return nil
}

func writeRun(t *testing.T, root, scenario, seed, body string) model.RunInfo {
	t.Helper()
	dir := filepath.Join(root, scenario, seed)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create run dir: %v", err)
	}
	run := model.RunInfo{Scenario: scenario, Seed: seed, Dir: dir, TracePath: filepath.Join(dir, "Packet Trace.csv")}
	if body != "" {
		if err := os.WriteFile(run.TracePath, []byte(traceHeader+body), 0644); err != nil {
			t.Fatalf("Failed to write trace: %v", err)
		}
	}
	return run
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Scenarios.Encoding = "utf8"
	cfg.Charts.Enabled = false
	return cfg
}

func TestManager_ProcessRun(t *testing.T) {
	root := t.TempDir()
	run := writeRun(t, root, "4", "seed1", ""+
		"1,Control_Packet,DAO,SENSOR-2,SinkNode,Successful\n"+
		"2,Control_Packet,DAO,SENSOR-10,SENSOR-2,Successful\n"+
		"3,Control_Packet,DAO,SENSOR-2,SENSOR-10,Errored\n"+
		"4,Control_Packet,DIO,SinkNode,SENSOR-10,Successful\n"+
		"5,Sensing,App1_SENSING,SENSOR-10,SinkNode,Successful\n"+
		"6,Sensing,App1_SENSING,SENSOR-3,SENSOR-2,Successful\n")

	cfg := testConfig()
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	pub := &recordingPublisher{}
	mgr.SetPublisher(pub)
	mgr.SetTelemetry(telemetry.New())

	// 1. Process the run.
	res, err := mgr.ProcessRun(context.Background(), run)
	if err != nil {
		t.Fatalf("ProcessRun failed: %v", err)
	}
	if res.Records != 6 {
		t.Errorf("Records = %d, want 6", res.Records)
	}

	// 2. Check the combined table.
	wantCounters := []string{"DAO_Sent", "DAO_Received", "DIO_Sent", "DIO_Received", "Packets_Received"}
	if !reflect.DeepEqual(res.Table.Counters(), wantCounters) {
		t.Fatalf("Counters = %v, want %v", res.Table.Counters(), wantCounters)
	}
	if !reflect.DeepEqual(res.Table.Sensors(), []sensor.ID{"S-2", "S-3", "S-10"}) {
		t.Fatalf("Sensors = %v", res.Table.Sensors())
	}
	checks := []struct {
		id      sensor.ID
		counter string
		want    int
	}{
		{"S-2", "DAO_Sent", 1},
		{"S-2", "DAO_Received", 1},
		{"S-10", "DAO_Sent", 1},
		{"S-10", "DIO_Received", 1},
		{"S-2", "Packets_Received", 1},
		{"S-3", "Packets_Received", 0},
	}
	for _, c := range checks {
		if got := res.Table.Get(c.id, c.counter); got != c.want {
			t.Errorf("%s %s = %d, want %d", c.id, c.counter, got, c.want)
		}
	}

	// 3. The csv writer saved the counts next to the trace.
	sheet, err := tabular.Read(filepath.Join(run.Dir, cfg.Scenarios.CountsFile))
	if err != nil {
		t.Fatalf("Counts file not written: %v", err)
	}
	if len(sheet.Rows) != 3 || sheet.Header[0] != "Sensor" {
		t.Errorf("Unexpected counts file: %v %v", sheet.Header, sheet.Rows)
	}

	// 4. A summary was published.
	if len(pub.summaries) != 1 || pub.summaries[0].Outcome != "ok" || pub.summaries[0].Totals["DAO_Sent"] != 2 {
		t.Errorf("Unexpected summaries: %+v", pub.summaries)
	}

	// 5. Tasks were reset.
	for _, task := range mgr.Tasks() {
		if task.Snapshot().Len() != 0 {
			t.Errorf("Task %s not reset after run", task.Name())
		}
	}
}

func TestManager_RunsAreIsolated(t *testing.T) {
	root := t.TempDir()
	first := writeRun(t, root, "1", "seed1", "1,Control_Packet,DAO,SENSOR-1,SENSOR-2,Successful\n")
	second := writeRun(t, root, "1", "seed2", "1,Control_Packet,DAO,SENSOR-5,SENSOR-6,Successful\n")

	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := mgr.ProcessRun(context.Background(), first); err != nil {
		t.Fatalf("ProcessRun failed: %v", err)
	}
	res, err := mgr.ProcessRun(context.Background(), second)
	if err != nil {
		t.Fatalf("ProcessRun failed: %v", err)
	}
	if !reflect.DeepEqual(res.Table.Sensors(), []sensor.ID{"S-5", "S-6"}) {
		t.Errorf("Second run leaked sensors from the first: %v", res.Table.Sensors())
	}
}

func TestManager_SkippableErrors(t *testing.T) {
	root := t.TempDir()
	missing := writeRun(t, root, "1", "seed1", "")
	badDir := filepath.Join(root, "1", "seed2")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatal(err)
	}
	bad := model.RunInfo{Scenario: "1", Seed: "seed2", Dir: badDir, TracePath: filepath.Join(badDir, "Packet Trace.csv")}
	if err := os.WriteFile(bad.TracePath, []byte("PACKET_ID,PACKET_TYPE\n1,Sensing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	pub := &recordingPublisher{}
	mgr.SetPublisher(pub)

	runner := &batch.Runner{}
	summary, err := runner.Run(context.Background(), []model.RunInfo{missing, bad}, func(ctx context.Context, run model.RunInfo) error {
		_, err := mgr.ProcessRun(ctx, run)
		return err
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Count(batch.StatusSkipped) != 2 {
		t.Errorf("Expected both runs skipped, got %+v", summary.Outcomes)
	}
	if !errors.Is(summary.Outcomes[0].Err, batch.ErrTraceNotFound) {
		t.Errorf("Expected ErrTraceNotFound, got %v", summary.Outcomes[0].Err)
	}
	if len(pub.summaries) != 2 || pub.summaries[1].Outcome != "skipped" {
		t.Errorf("Unexpected summaries: %+v", pub.summaries)
	}
}

func TestManager_ChartsAndMerge(t *testing.T) {
	root := t.TempDir()
	runs := []model.RunInfo{
		writeRun(t, root, "4", "seed1", "1,Control_Packet,DAO,SENSOR-1,SENSOR-2,Successful\n"),
		writeRun(t, root, "4", "seed2", "1,Control_Packet,DAO,SENSOR-2,SENSOR-1,Successful\n2,Control_Packet,DAO,SENSOR-2,SENSOR-1,Successful\n"),
		writeRun(t, root, "4", "seed3", ""),
	}

	cfg := testConfig()
	cfg.Charts.Enabled = true
	cfg.Scenarios.MaliciousSensors = map[string][]string{"4": {"SENSOR-2"}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	// 1. Process with charts enabled.
	res, err := mgr.ProcessRun(context.Background(), runs[0])
	if err != nil {
		t.Fatalf("ProcessRun failed: %v", err)
	}
	if len(res.Charts) != len(cfg.Charts.Bars) {
		t.Errorf("Rendered %d charts, want %d", len(res.Charts), len(cfg.Charts.Bars))
	}
	if _, err := mgr.ProcessRun(context.Background(), runs[1]); err != nil {
		t.Fatalf("ProcessRun failed: %v", err)
	}

	// 2. Plot from the saved counts; the third run has none.
	charts, err := mgr.PlotRun(context.Background(), runs[1])
	if err != nil || len(charts) == 0 {
		t.Errorf("PlotRun = %v, %v", charts, err)
	}
	if _, err := mgr.PlotRun(context.Background(), runs[2]); !errors.Is(err, batch.ErrCountsNotFound) {
		t.Errorf("Expected ErrCountsNotFound, got %v", err)
	}

	// 3. Merge skips the run without counts.
	merged, err := mgr.MergeRuns(runs)
	if err != nil {
		t.Fatalf("MergeRuns failed: %v", err)
	}
	if merged.Runs != 2 || len(merged.Merged.Rows) != 4 {
		t.Fatalf("Unexpected merge: %d runs, %d rows", merged.Runs, len(merged.Merged.Rows))
	}
	if merged.Merged.Rows[0].Label != "4/seed1" || merged.Merged.Rows[2].Label != "4/seed2" {
		t.Errorf("Unexpected run order: %+v", merged.Merged.Rows)
	}

	paths, err := mgr.WriteMerge(merged, root)
	if err != nil {
		t.Fatalf("WriteMerge failed: %v", err)
	}
	sheet, err := tabular.Read(paths[1])
	if err != nil {
		t.Fatalf("Failed to read normalized table: %v", err)
	}
	if sheet.Header[0] != "Run" || sheet.Header[1] != "Sensor" {
		t.Errorf("Unexpected normalized header: %v", sheet.Header)
	}
}
