package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"

	"github.com/samber/lo"
)

const (
	executablePath = "../../bin/timetable"
	testDirectory  = "../../test/inputs/"
	resultsFile    = "benchmark_results.csv"
	KB             = 1024
)

type ResultType int

const (
	feasible ResultType = iota
	infeasible
)

var resultTypes = map[ResultType]string{
	feasible:   "feasible",
	infeasible: "infeasible",
}

type TestMetadata struct {
	Name     string
	Courses  int
	Faculty  int
	Rooms    int
	Sessions int
}

type GeneticMetadata struct {
	Population   int
	MutationRate float64
	Crossover    genetic.CrossoverKind
	Elitism      int
}

type BenchmarkResult struct {
	Test          string  `csv:"Test"`
	Courses       int     `csv:"Courses"`
	Faculty       int     `csv:"Faculty"`
	Rooms         int     `csv:"Rooms"`
	Sessions      int     `csv:"Sessions"`
	Population    int     `csv:"Population"`
	MutationRate  float64 `csv:"Mutation Rate"`
	Crossover     string  `csv:"Crossover"`
	Elitism       int     `csv:"Elitism"`
	Seed          uint64  `csv:"Seed"`
	Generations   int     `csv:"Generations"`
	Hard          int     `csv:"Hard Violations"`
	Soft          float64 `csv:"Soft Cost"`
	Reason        string  `csv:"Reason"`
	Duration      int64   `csv:"Duration(ms)"`
	Memory        string  `csv:"Memory(MB)"`
	CpuPercentage int64   `csv:"CPU(%)"`
	Result        string  `csv:"Result"`
}

func main() {
	tests := getTests()
	configs := getConfigs()
	seeds := getSeeds()
	results := make([]*BenchmarkResult, 0, len(tests)*len(configs)*len(seeds))

	for _, test := range tests {
		for _, config := range configs {
			for _, seed := range seeds {
				fmt.Printf("Benchmarking test \"%v\" with population %v, mutation rate %v, crossover \"%v\", elitism %v and seed %v\n", test.Name, config.Population, config.MutationRate, config.Crossover, config.Elitism, seed)

				duration, maxMemory, cpuPercentage, outcome, result := measure(config, seed, test.Name)

				results = append(results, &BenchmarkResult{
					Test:          test.Name,
					Courses:       test.Courses,
					Faculty:       test.Faculty,
					Rooms:         test.Rooms,
					Sessions:      test.Sessions,
					Population:    config.Population,
					MutationRate:  config.MutationRate,
					Crossover:     string(config.Crossover),
					Elitism:       config.Elitism,
					Seed:          seed,
					Generations:   outcome.Generations,
					Hard:          outcome.Score.Hard,
					Soft:          outcome.Score.Soft,
					Reason:        string(outcome.Reason),
					Duration:      duration,
					Memory:        fmt.Sprintf("%.1f", maxMemory),
					CpuPercentage: cpuPercentage,
					Result:        resultTypes[result],
				})
			}
		}
	}

	toCsv(results)
}

// getTests lists the input files of the test directory; the built-in sample is always benchmarked
func getTests() []TestMetadata {
	names := []string{"sample"}
	if testFiles, err := os.ReadDir(testDirectory); err == nil {
		for _, file := range testFiles {
			names = append(names, testDirectory+file.Name())
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("cannot read directory: %v", err)
	}

	return lo.Map(names, func(name string, _ int) TestMetadata {
		var (
			input model.Input
			err   error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case "":
			input = model.SampleInput()
		case ".yaml", ".yml":
			input, err = model.InputFromYaml(name)
		default:
			input, err = model.InputFromJson(name)
		}
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}
		sessions, err := input.Sessions()
		if err != nil {
			log.Fatalf("cannot derive sessions of \"%v\": %v", name, err)
		}

		return TestMetadata{
			Name:     name,
			Courses:  len(input.Courses),
			Faculty:  len(input.Faculty),
			Rooms:    len(input.Rooms),
			Sessions: len(sessions),
		}
	})
}

func getConfigs() []GeneticMetadata {
	configs := make([]GeneticMetadata, 0)
	for _, population := range []int{50, 100, 200} {
		for _, mutationRate := range []float64{0.05, 0.1, 0.2} {
			for _, crossover := range []genetic.CrossoverKind{genetic.Uniform, genetic.SinglePoint} {
				configs = append(configs, GeneticMetadata{
					Population:   population,
					MutationRate: mutationRate,
					Crossover:    crossover,
					Elitism:      population / 10,
				})
			}
		}
	}
	return configs
}

func getSeeds() []uint64 {
	return []uint64{1, 7, 42}
}

func measure(config GeneticMetadata, seed uint64, testFile string) (duration int64, maxMemory float32, cpuPercentage int64, outcome scheduler.Result, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, "generate",
		"--input", testFile,
		"--seed", strconv.FormatUint(seed, 10),
		"--population", strconv.Itoa(config.Population),
		"--mutation-rate", fmt.Sprint(config.MutationRate),
		"--crossover", string(config.Crossover),
		"--elitism", strconv.Itoa(config.Elitism),
		"--format", "json",
	)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 15 {
		log.Fatalf("an error occurred during the execution \"timetable\" at test \"%v\" using population \"%v\", mutation rate \"%v\", crossover \"%v\": %v\n", testFile, config.Population, config.MutationRate, config.Crossover, stdErr.String())
	} else if cmd.ProcessState.ExitCode() == 15 {
		result = infeasible
	} else {
		result = feasible
	}
	if err := json.Unmarshal(stdOut.Bytes(), &outcome); err != nil {
		log.Fatalf("cannot parse the result of test \"%v\": %v", testFile, err)
	}

	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, outcome, result
}

func toCsv(results []*BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// Memory is reported by /usr/bin/time in kilobytes
func parseMemoryLine(line string) float32 {
	memoryStr := strings.Split(line, ":")[1][1:]
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / KB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.Split(line, ":")[1][1:]
	percentageStr = percentageStr[:len(percentageStr)-1]
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
