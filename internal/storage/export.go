package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/countdown/internal/sim"
)

type ExportData struct {
	Preset   string               `json:"preset"`
	Seed     int64                `json:"seed"`
	FPS      int                  `json:"fps"`
	Duration float64              `json:"duration"`
	Frames   int                  `json:"frames"`
	Final    string               `json:"final"`
	Phases   []string             `json:"phases"`
	Times    []float64            `json:"times"`
	Series   map[string][]float64 `json:"series"`
	Metrics  map[string]float64   `json:"metrics"`
}

func NewExportData(info RunInfo, result *sim.Result) ExportData {
	data := ExportData{
		Preset:   info.Preset,
		Seed:     info.Seed,
		FPS:      info.FPS,
		Duration: info.Duration.Seconds(),
		Frames:   result.Frames,
		Final:    result.Final.String(),
		Phases:   make([]string, len(result.Phases)),
		Times:    result.Times,
		Series:   result.Series,
		Metrics:  result.Metrics,
	}
	for i, tr := range result.Phases {
		data.Phases[i] = tr.String()
	}
	return data
}

func ExportJSON(path string, info RunInfo, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, info, result)
}

func WriteJSON(w io.Writer, info RunInfo, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}
