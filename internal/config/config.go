package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenariosConfig describes where simulation runs live on disk.
// Runs are laid out as <root_path>/<scenario>/<seed>/<trace_file>.
type ScenariosConfig struct {
	RootPath   string   `yaml:"root_path"`
	Folders    []string `yaml:"folders"` // Empty means every numeric scenario directory.
	TraceFile  string   `yaml:"trace_file"`
	CountsFile string   `yaml:"counts_file"`
	Encoding   string   `yaml:"encoding"` // "latin1" or "utf8"
	// MaliciousSensors maps a scenario folder name to its compromised sensors.
	// Only used to highlight sensors on charts.
	MaliciousSensors map[string][]string `yaml:"malicious_sensors"`
	Pcap             PcapConfig          `yaml:"pcap"`
}

// PcapConfig controls how RPL captures are mapped onto trace records.
type PcapConfig struct {
	SinkNodes []int `yaml:"sink_nodes"`
}

// TaskDef defines a single counting task from the config file.
type TaskDef struct {
	Name            string `yaml:"name"`
	Type            string `yaml:"type"` // "control_packet" or "sensing"
	PacketType      string `yaml:"packet_type"`
	Subtype         string `yaml:"subtype"`
	SentCounter     string `yaml:"sent_counter"`
	ReceivedCounter string `yaml:"received_counter"`
}

// ClickHouseConfig holds the connection details for ClickHouse.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SQLiteConfig holds the database file path for the sqlite writer.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// XLSXConfig holds the settings for the per-run spreadsheet writer.
type XLSXConfig struct {
	FileName  string `yaml:"file_name"`
	SheetName string `yaml:"sheet_name"`
}

// WriterDef defines a writer for per-run count tables.
type WriterDef struct {
	Type       string           `yaml:"type"` // "csv", "xlsx", "clickhouse" or "sqlite"
	Enabled    bool             `yaml:"enabled"`
	XLSX       XLSXConfig       `yaml:"xlsx"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
}

// AggregatorConfig holds the counting tasks and their writers.
type AggregatorConfig struct {
	Tasks   []TaskDef   `yaml:"tasks"`
	Writers []WriterDef `yaml:"writers"`
}

// BarChartDef defines one bar chart rendered per run.
type BarChartDef struct {
	Name     string   `yaml:"name"`
	FileName string   `yaml:"file_name"`
	Title    string   `yaml:"title"`
	YLabel   string   `yaml:"y_label"`
	Counters []string `yaml:"counters"`
	Legends  []string `yaml:"legends"`
}

// ChartsConfig holds the chart rendering settings.
type ChartsConfig struct {
	Enabled      bool          `yaml:"enabled"`
	WidthInches  float64       `yaml:"width_inches"`
	HeightInches float64       `yaml:"height_inches"`
	Bars         []BarChartDef `yaml:"bars"`
}

// MergeConfig holds the settings for merging per-run count tables.
type MergeConfig struct {
	Folders        []string `yaml:"folders"`
	MergedFile     string   `yaml:"merged_file"`
	NormalizedFile string   `yaml:"normalized_file"`
	LabelColumn    string   `yaml:"label_column"`
}

// ClassifierConfig holds the training and prediction settings.
type ClassifierConfig struct {
	Type         string  `yaml:"type"`
	TrainPath    string  `yaml:"train_path"`
	TestPath     string  `yaml:"test_path"`
	OutputPath   string  `yaml:"output_path"`
	LabelColumn  string  `yaml:"label_column"`
	MaxIter      int     `yaml:"max_iter"`
	LearningRate float64 `yaml:"learning_rate"`
	L2           float64 `yaml:"l2"`
}

// ConfusionConfig holds the settings for the confusion matrix evaluation.
type ConfusionConfig struct {
	ActualPath    string `yaml:"actual_path"`
	PredictedPath string `yaml:"predicted_path"`
	LabelColumn   string `yaml:"label_column"`
	PositiveLabel string `yaml:"positive_label"`
	Title         string `yaml:"title"`
	OutputPath    string `yaml:"output_path"`
	ReportPath    string `yaml:"report_path"`
}

// PublisherConfig holds the NATS settings for run summaries.
type PublisherConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// SMTPConfig holds the configuration for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"` // Comma-separated list of recipients
}

// NotifyConfig controls the batch report notification.
type NotifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// APIConfig holds the configuration for the query API server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	GRPCAddr   string `yaml:"grpc_addr"`
}

// MetricsConfig controls the prometheus textfile export of batch metrics.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// AIConfig holds the configuration for the optional report commentary.
type AIConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Scenarios  ScenariosConfig  `yaml:"scenarios"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Charts     ChartsConfig     `yaml:"charts"`
	Merge      MergeConfig      `yaml:"merge"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Confusion  ConfusionConfig  `yaml:"confusion"`
	Publisher  PublisherConfig  `yaml:"publisher"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Notify     NotifyConfig     `yaml:"notify"`
	API        APIConfig        `yaml:"api"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	AI         AIConfig         `yaml:"ai"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when a field is not set in the YAML file.
// It reproduces the DAO/DIO/Sensing counting of the study.
func Default() *Config {
	return &Config{
		Scenarios: ScenariosConfig{
			TraceFile:  "Packet Trace.csv",
			CountsFile: "Sensor_Message_Counts.csv",
			Encoding:   "latin1",
			Pcap:       PcapConfig{SinkNodes: []int{1}},
		},
		Aggregator: AggregatorConfig{
			Tasks: []TaskDef{
				{Name: "dao", Type: "control_packet", Subtype: "DAO", SentCounter: "DAO_Sent", ReceivedCounter: "DAO_Received"},
				{Name: "dio", Type: "control_packet", Subtype: "DIO", SentCounter: "DIO_Sent", ReceivedCounter: "DIO_Received"},
				{Name: "data", Type: "sensing", ReceivedCounter: "Packets_Received"},
			},
			Writers: []WriterDef{{Type: "csv", Enabled: true}},
		},
		Charts: ChartsConfig{
			Enabled:      true,
			WidthInches:  15,
			HeightInches: 8,
			Bars: []BarChartDef{
				{
					Name:     "dao",
					FileName: "DAO.png",
					Title:    "Number of DAO Messages Sent and Received",
					YLabel:   "DAO Messages",
					Counters: []string{"DAO_Sent", "DAO_Received"},
					Legends:  []string{"DAO Sent", "DAO Received"},
				},
				{
					Name:     "data",
					FileName: "Data.png",
					Title:    "Number of Data Packets Received",
					YLabel:   "Data Packets",
					Counters: []string{"Packets_Received"},
					Legends:  []string{"Data Packets Received"},
				},
			},
		},
		Merge: MergeConfig{
			MergedFile:     "Merged_Sensor_Message_Counts.xlsx",
			NormalizedFile: "Normalized_Sensor_Message_Counts.xlsx",
			LabelColumn:    "Run",
		},
		Classifier: ClassifierConfig{
			Type:         "logistic_regression",
			OutputPath:   "Test_with_Predictions_LR.xlsx",
			LabelColumn:  "Label",
			MaxIter:      1000,
			LearningRate: 0.1,
			L2:           1.0,
		},
		Confusion: ConfusionConfig{
			LabelColumn:   "Label",
			PositiveLabel: "1",
			Title:         "Confusion Matrix",
			OutputPath:    "Confusion_Matrix.png",
		},
		Publisher: PublisherConfig{
			NATSURL: "nats://127.0.0.1:4222",
			Subject: "wsnspectra.runs",
		},
		API: APIConfig{
			ListenAddr: ":8080",
			GRPCAddr:   ":9090",
		},
		AI: AIConfig{
			Model:   "gpt-4o-mini",
			Timeout: "60s",
		},
	}
}

// Validate checks the parts of the configuration that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Scenarios.TraceFile == "" {
		return fmt.Errorf("scenarios.trace_file must be set")
	}
	if len(c.Aggregator.Tasks) == 0 {
		return fmt.Errorf("aggregator.tasks must define at least one task")
	}
	seen := make(map[string]bool)
	for _, t := range c.Aggregator.Tasks {
		if t.Name == "" {
			return fmt.Errorf("aggregator task without a name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate aggregator task name '%s'", t.Name)
		}
		seen[t.Name] = true
	}
	switch c.Scenarios.Encoding {
	case "", "latin1", "utf8":
	default:
		return fmt.Errorf("unsupported scenarios.encoding '%s'", c.Scenarios.Encoding)
	}
	return nil
}
