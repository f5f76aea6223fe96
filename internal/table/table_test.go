package table

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
	"WSNSpectra/internal/tabular"
	"reflect"
	"testing"
)

func countTable(counter string, values map[sensor.ID]int) *model.SensorCountTable {
	m := make(map[sensor.ID]map[string]int)
	for id, v := range values {
		m[id] = map[string]int{counter: v}
	}
	return model.NewSensorCountTable([]string{counter}, m)
}

func TestMergeAndNormalize_SeedExample(t *testing.T) {
	seed1 := FromCounts("seed1", countTable("DAO_Sent", map[sensor.ID]int{"S-2": 4}))
	seed2 := FromCounts("seed2", countTable("DAO_Sent", map[sensor.ID]int{"S-2": 0}))

	merged := Merge([]Labeled{seed1, seed2})

	if len(merged.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(merged.Rows))
	}
	if merged.Rows[0].Label != "seed1" || merged.Rows[1].Label != "seed2" {
		t.Fatalf("Run order not preserved: %q, %q", merged.Rows[0].Label, merged.Rows[1].Label)
	}

	normalized := Normalize(merged)

	if got := normalized.Rows[0].Cells[0]; !got.Valid || got.Value != 1.0 {
		t.Errorf("Expected seed1 S-2 to normalize to 1.0, got %+v", got)
	}
	if got := normalized.Rows[1].Cells[0]; !got.Valid || got.Value != 0 {
		t.Errorf("Expected seed2 all-zero row to stay unchanged, got %+v", got)
	}
	if merged.Rows[0].Cells[0].Value != 4 {
		t.Errorf("Normalize modified its input")
	}
}

func TestMerge_PreservesSensorOrderWithinRun(t *testing.T) {
	run := FromCounts("r", countTable("X", map[sensor.ID]int{"S-19": 1, "S-2": 2, "S-5": 3}))
	merged := Merge([]Labeled{run})

	var keys []string
	for _, r := range merged.Rows {
		keys = append(keys, r.Key)
	}
	if want := []string{"S-2", "S-5", "S-19"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
}

func TestMerge_ColumnUnion(t *testing.T) {
	a := Labeled{Label: "a", Columns: []string{"X", "Y"}, Rows: []KeyedCells{{Key: "S-1", Cells: []model.Cell{{Value: 1, Valid: true}, {Value: 2, Valid: true}}}}}
	b := Labeled{Label: "b", Columns: []string{"Y", "Z"}, Rows: []KeyedCells{{Key: "S-1", Cells: []model.Cell{{Value: 3, Valid: true}, {Value: 4, Valid: true}}}}}

	merged := Merge([]Labeled{a, b})

	if want := []string{"X", "Y", "Z"}; !reflect.DeepEqual(merged.Columns, want) {
		t.Fatalf("Columns = %v, want %v", merged.Columns, want)
	}
	want := []model.Cell{{Value: 0, Valid: false}, {Value: 3, Valid: true}, {Value: 4, Valid: true}}
	if !reflect.DeepEqual(merged.Rows[1].Cells, want) {
		t.Errorf("Row b cells = %v, want %v", merged.Rows[1].Cells, want)
	}
}

func TestParseRows_CoercesToMissing(t *testing.T) {
	sheet := &tabular.Sheet{
		Header: []string{"Sensor", "DAO_Sent", "DAO_Received"},
		Rows: [][]string{
			{"S-1", "8", "n/a"},
			{"S-2", "", "2"},
		},
	}

	run, err := ParseRows("seed1", sheet)
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}

	normalized := Normalize(Merge([]Labeled{run}))

	row1 := normalized.Rows[0].Cells
	if !row1[0].Valid || row1[0].Value != 1 || row1[1].Valid {
		t.Errorf("Row S-1 = %+v, want [1 missing]", row1)
	}
	row2 := normalized.Rows[1].Cells
	if row2[0].Valid || !row2[1].Valid || row2[1].Value != 1 {
		t.Errorf("Row S-2 = %+v, want [missing 1]", row2)
	}
}

func TestParseRows_NeedsCounterColumn(t *testing.T) {
	if _, err := ParseRows("x", &tabular.Sheet{Header: []string{"Sensor"}}); err == nil {
		t.Fatal("Expected an error for a table without counter columns")
	}
}

func TestNormalize_RowMaxIsOne(t *testing.T) {
	rows := [][]model.Cell{
		{{Value: 3, Valid: true}, {Value: 6, Valid: true}, {Value: 1.5, Valid: true}},
		{{Value: 0, Valid: true}, {Value: 0, Valid: true}},
		{{Value: 0, Valid: false}, {Value: 0, Valid: false}},
		{{Value: 7, Valid: true}, {Value: 0, Valid: false}, {Value: 14, Valid: true}},
		{},
	}
	in := &model.MergedTable{}
	for i, cells := range rows {
		in.Rows = append(in.Rows, model.MergedRow{Label: "r", Key: string(rune('a' + i)), Cells: cells})
	}

	out := Normalize(in)

	for i, r := range out.Rows {
		max, ok := rowMax(r.Cells)
		origMax, origOK := rowMax(in.Rows[i].Cells)
		fallback := !origOK || origMax == 0
		if fallback {
			if !reflect.DeepEqual(r.Cells, in.Rows[i].Cells) {
				t.Errorf("Row %d took the fallback path but changed: %v", i, r.Cells)
			}
			continue
		}
		if !ok || max != 1 {
			t.Errorf("Row %d max after normalization = %v, want 1", i, max)
		}
		for j, c := range r.Cells {
			if c.Valid != in.Rows[i].Cells[j].Valid {
				t.Errorf("Row %d cell %d changed validity", i, j)
			}
		}
	}
}

func TestRecords(t *testing.T) {
	merged := &model.MergedTable{
		LabelColumn: "Run",
		KeyColumn:   "Sensor",
		Columns:     []string{"A", "B"},
		Rows:        []model.MergedRow{{Label: "seed1", Key: "S-1", Cells: []model.Cell{{Value: 0.5, Valid: true}, {Value: 0, Valid: false}}}},
	}

	header, rows := Records(merged)

	if want := []string{"Run", "Sensor", "A", "B"}; !reflect.DeepEqual(header, want) {
		t.Errorf("Header = %v, want %v", header, want)
	}
	if want := [][]string{{"seed1", "S-1", "0.5", ""}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("Rows = %v, want %v", rows, want)
	}
}

func TestCountsFromSheet_RoundTrip(t *testing.T) {
	orig := model.NewSensorCountTable([]string{"DAO_Sent", "DAO_Received"}, map[sensor.ID]map[string]int{
		"S-10": {"DAO_Sent": 3},
		"S-2":  {"DAO_Received": 8},
	})
	header, rows := CountRecords(orig)

	back, err := CountsFromSheet(&tabular.Sheet{Header: header, Rows: rows})
	if err != nil {
		t.Fatalf("CountsFromSheet failed: %v", err)
	}
	if !reflect.DeepEqual(back.Rows(), orig.Rows()) {
		t.Errorf("Rows = %v, want %v", back.Rows(), orig.Rows())
	}

	bad := &tabular.Sheet{Header: header, Rows: [][]string{{"S-1", "x", "1"}}}
	if _, err := CountsFromSheet(bad); err == nil {
		t.Error("Expected an error for a non-numeric count, got nil")
	}
}
