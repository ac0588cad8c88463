package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/limaJavier/timetabling-ga/internal/csvio"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const sampleInput = "sample"

// addInputFlags registers the flags every command reading an input shares, bound under prefix
func addInputFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringP("input", "i", "", `input file (.json, .yaml or .yml), or "sample" for the built-in data set`)
	cmd.Flags().String("courses", "", "courses CSV file (with --faculty and --rooms instead of --input)")
	cmd.Flags().String("faculty", "", "faculty CSV file")
	cmd.Flags().String("rooms", "", "rooms CSV file")
	cmd.Flags().String("delimiter", ",", "CSV delimiter")
	cmd.Flags().Int("days", 5, "days per week of the grid used with CSV input")
	cmd.Flags().Int("periods", 5, "periods per day of the grid used with CSV input")
	for _, name := range []string{"input", "courses", "faculty", "rooms", "delimiter", "days", "periods"} {
		_ = viper.BindPFlag(prefix+"."+name, cmd.Flags().Lookup(name))
	}
}

func loadInput(prefix string) (model.Input, error) {
	key := func(name string) string { return prefix + "." + name }

	if courses := viper.GetString(key("courses")); courses != "" {
		delimiter := viper.GetString(key("delimiter"))
		if utf8.RuneCountInString(delimiter) != 1 {
			return model.Input{}, fmt.Errorf("delimiter must be a single character: %q", delimiter)
		}
		delim, _ := utf8.DecodeRuneInString(delimiter)
		grid := model.TimeGrid{Days: viper.GetInt(key("days")), Periods: viper.GetInt(key("periods"))}
		return csvio.LoadInput(courses, viper.GetString(key("faculty")), viper.GetString(key("rooms")), delim, grid)
	}

	file := viper.GetString(key("input"))
	switch {
	case file == "":
		return model.Input{}, fmt.Errorf("an input must be specified with --input or --courses/--faculty/--rooms")
	case file == sampleInput:
		return model.SampleInput(), nil
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return model.InputFromYaml(file)
	case ".json":
		return model.InputFromJson(file)
	default:
		return model.Input{}, fmt.Errorf("unsupported input file extension: %v", file)
	}
}

// loadTimetable reads either a bare timetable or a whole generation result from a JSON file
func loadTimetable(file string) (model.Timetable, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var timetable model.Timetable
	if err := json.Unmarshal(bytes, &timetable); err == nil {
		return timetable, nil
	}

	var result struct {
		Timetable model.Timetable `json:"timetable"`
	}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil, fmt.Errorf("cannot parse timetable file: %w", err)
	}
	return result.Timetable, nil
}
