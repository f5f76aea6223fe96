package main

import (
	"WSNSpectra/internal/tabular"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const trace = `PACKET_ID,PACKET_TYPE,CONTROL_PACKET_TYPE/APP_NAME,SOURCE_ID,RECEIVER_ID,PACKET_STATUS
1,Control_Packet,DAO,SENSOR-1,SENSOR-2,Successful
2,Control_Packet,DIO,SinkNode,SENSOR-1,Successful
3,Sensing,App1_SENSING,SENSOR-2,SinkNode,Successful
`

func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`scenarios:
  root_path: %q
  encoding: utf8
charts:
  enabled: false
%s`, dir, extra)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestAllCommand(t *testing.T) {
	dir := t.TempDir()
	for _, seed := range []string{"seed1", "seed2"} {
		runDir := filepath.Join(dir, "4", seed)
		if err := os.MkdirAll(runDir, 0755); err != nil {
			t.Fatal(err)
		}
		if seed == "seed1" {
			if err := os.WriteFile(filepath.Join(runDir, "Packet Trace.csv"), []byte(trace), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}
	cfgPath := writeConfig(t, dir, "metrics:\n  textfile_path: "+fmt.Sprintf("%q", filepath.Join(dir, "wsn.prom"))+"\n")

	if err := execute(t, "all", "--config", cfgPath); err != nil {
		t.Fatalf("all failed: %v", err)
	}

	merged, err := tabular.Read(filepath.Join(dir, "Merged_Sensor_Message_Counts.xlsx"))
	if err != nil {
		t.Fatalf("Merged file missing: %v", err)
	}
	if len(merged.Rows) != 2 || merged.Rows[0][0] != "4/seed1" {
		t.Errorf("Unexpected merged rows: %v", merged.Rows)
	}
	prom, err := os.ReadFile(filepath.Join(dir, "wsn.prom"))
	if err != nil {
		t.Fatalf("Metrics textfile missing: %v", err)
	}
	if !strings.Contains(string(prom), `wsnspectra_runs_total{outcome="skipped"} 1`) {
		t.Errorf("Unexpected metrics:\n%s", prom)
	}
}

func TestConfusionCommand(t *testing.T) {
	dir := t.TempDir()
	actual := filepath.Join(dir, "Test-Data-With-Label.xlsx")
	predicted := filepath.Join(dir, "Predicted.xlsx")
	if err := tabular.Write(actual, "Sheet1", []string{"F", "Label"}, [][]string{{"1", "0"}, {"2", "1"}, {"3", "1"}}); err != nil {
		t.Fatal(err)
	}
	if err := tabular.Write(predicted, "Sheet1", []string{"F", "Label"}, [][]string{{"1", "0"}, {"2", "1"}, {"3", "0"}}); err != nil {
		t.Fatal(err)
	}
	cfgPath := writeConfig(t, dir, fmt.Sprintf(`confusion:
  actual_path: %q
  predicted_path: %q
  output_path: %q
  report_path: %q
`, actual, predicted, filepath.Join(dir, "cm.png"), filepath.Join(dir, "cm.html")))

	if err := execute(t, "confusion", "--config", cfgPath); err != nil {
		t.Fatalf("confusion failed: %v", err)
	}
	for _, f := range []string{"cm.png", "cm.html"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}
}

func TestBadConfig(t *testing.T) {
	if err := execute(t, "count", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing config, got nil")
	}
}
