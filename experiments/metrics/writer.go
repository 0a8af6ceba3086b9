package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

type AgentConfig struct {
	ID              int           `yaml:"id"`
	Kind            string        `yaml:"kind"` // mcts, training or random
	Goroutines      int           `yaml:"goroutines"`
	Duration        time.Duration `yaml:"duration"`
	Iterations      int           `yaml:"iterations"`
	Cutoff          int           `yaml:"cutoff"`
	Determinization string        `yaml:"determinization"`
	Ownership       string        `yaml:"ownership"`
	Temperature     float64       `yaml:"temperature"`
}

type GameRecord struct {
	ID      int
	Players []string
	Agents  []int // AgentConfig.ID per seat of Players
	GameMetric
}

// Agent returns the id of the agent seated as player.
func (r GameRecord) Agent(player string) (int, bool) {
	for i, p := range r.Players {
		if p == player && i < len(r.Agents) {
			return r.Agents[i], true
		}
	}
	return 0, false
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// moveRow is the columnar layout of a MoveRecord.
type moveRow struct {
	Game         int32  `parquet:"game"`
	Step         int32  `parquet:"step"`
	Player       string `parquet:"player,dict"`
	Action       string `parquet:"action,dict"`
	Goroutines   int32  `parquet:"goroutines"`
	DurationNs   int64  `parquet:"duration_ns"`
	Episodes     int64  `parquet:"episodes"`
	Cutoff       int64  `parquet:"cutoff"`
	FullPlayouts int64  `parquet:"full_playouts"`
	Cutoffs      int64  `parquet:"cutoffs"`
	Resamples    int64  `parquet:"resamples"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh run directory <dir>/<name>/<timestamp>-<id>.
func NewWriter(dir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	run := fmt.Sprintf("%s-%s", timestamp, uuid.New().String()[:8])
	baseDir := filepath.Join(dir, name, run)
	err := os.MkdirAll(baseDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) BaseDir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "goroutines", "duration", "iterations", "cutoff", "determinization", "ownership", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Iterations),
			strconv.Itoa(config.Cutoff),
			config.Determinization,
			config.Ownership,
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "players", "agents", "starting_player", "winners", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		agents := make([]string, len(record.Agents))
		for i, id := range record.Agents {
			agents[i] = strconv.Itoa(id)
		}
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strings.Join(record.Players, ";"),
			strings.Join(agents, ";"),
			record.StartingPlayer,
			strings.Join(record.Winners, ";"),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

// WriteMoveRecords stores move records both as CSV and as a parquet file.
func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action", "goroutines", "duration", "episodes", "cutoff", "full_playouts", "cutoffs", "resamples"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Action,
			strconv.Itoa(record.Goroutines),
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Cutoff),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Cutoffs),
			strconv.Itoa(record.Resamples),
		})
	}
	if err := w.writeCSV("move_records.csv", header, rows); err != nil {
		return err
	}
	return w.writeMoveParquet(records)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows) // Flushes
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func (w *Writer) writeMoveParquet(records []MoveRecord) error {
	rows := make([]moveRow, len(records))
	for i, record := range records {
		rows[i] = moveRow{
			Game:         int32(record.Game),
			Step:         int32(record.Step),
			Player:       record.Player,
			Action:       record.Action,
			Goroutines:   int32(record.Goroutines),
			DurationNs:   record.Duration.Nanoseconds(),
			Episodes:     int64(record.Episodes),
			Cutoff:       int64(record.Cutoff),
			FullPlayouts: int64(record.FullPlayouts),
			Cutoffs:      int64(record.Cutoffs),
			Resamples:    int64(record.Resamples),
		}
	}

	// Write to a temp file and rename atomically
	path := filepath.Join(w.baseDir, "move_records.parquet")
	tmpPath := path + ".tmp"
	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "move_record_v1"),
	); err != nil {
		return fmt.Errorf("failed to write move records parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename move records parquet: %w", err)
	}
	return nil
}
