package vfi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunRecord captures the outcome of a single solve run
type RunRecord struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Status     string        `json:"status"` // "converged", "maxiter", "error"
	Params     Params        `json:"params"`
	Iterations int           `json:"iterations,omitempty"`
	MaxDiff    float64       `json:"max_diff,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`
	Error      string        `json:"error,omitempty"`
	Device     string        `json:"device,omitempty"`
	CPUInfo    string        `json:"cpu_info,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// RunLogger manages logging of solve runs to file
type RunLogger struct {
	mu          sync.Mutex
	records     []RunRecord
	logDir      string
	sessionFile string
}

var globalRunLogger = &RunLogger{
	logDir: "run_logs",
}

// InitRunLogger initializes the logger for a new solve session
func InitRunLogger(sessionName string) error {
	globalRunLogger.mu.Lock()
	defer globalRunLogger.mu.Unlock()

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(globalRunLogger.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create session file name with timestamp
	timestamp := time.Now().Format("20060102_150405")
	globalRunLogger.sessionFile = filepath.Join(globalRunLogger.logDir,
		fmt.Sprintf("%s_%s.json", sessionName, timestamp))

	// Reset records for new session
	globalRunLogger.records = nil

	// Write initial file
	return globalRunLogger.flush()
}

// LogRun logs a single solve run. The record ID, timestamp, and hardware
// fields are filled in when empty.
func LogRun(record RunRecord) {
	globalRunLogger.mu.Lock()
	defer globalRunLogger.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.Device == "" {
		record.Device = GetDevice().Name
	}
	if record.CPUInfo == "" {
		record.CPUInfo = GetCPUInfo()
	}
	globalRunLogger.records = append(globalRunLogger.records, record)

	// Flush to disk immediately to avoid losing data on crash
	globalRunLogger.flush()
}

// LogSolution logs a completed solve
func LogSolution(name string, sol *Solution) {
	status := "converged"
	if !sol.Converged {
		status = "maxiter"
	}
	LogRun(RunRecord{
		Name:       name,
		Status:     status,
		Params:     sol.Params,
		Iterations: sol.Iterations,
		MaxDiff:    sol.MaxDiff,
		Elapsed:    sol.Elapsed,
	})
}

// LogSolveError logs a solve that returned an error
func LogSolveError(name string, p Params, err error) {
	LogRun(RunRecord{
		Name:   name,
		Status: "error",
		Params: p,
		Error:  err.Error(),
	})
}

// flush writes records to disk
func (rl *RunLogger) flush() error {
	if rl.sessionFile == "" {
		return nil // Not initialized
	}

	data, err := json.MarshalIndent(rl.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	return os.WriteFile(rl.sessionFile, data, 0644)
}

// GetLatestRunLog returns the path to the most recent log file
func GetLatestRunLog() (string, error) {
	files, err := filepath.Glob(filepath.Join(globalRunLogger.logDir, "*.json"))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no log files found")
	}

	// Sort by modification time to get latest
	var latest string
	var latestTime time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latest = file
			latestTime = info.ModTime()
		}
	}

	return latest, nil
}

// PrintRunSummary prints a summary of the latest solve session
func PrintRunSummary() error {
	logFile, err := GetLatestRunLog()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		return err
	}

	var records []RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	fmt.Printf("\nRun Summary from %s:\n", filepath.Base(logFile))
	fmt.Println(strings.Repeat("=", 62))

	converged, maxiter, failed := 0, 0, 0
	for _, r := range records {
		switch r.Status {
		case "converged":
			converged++
			fmt.Printf("✓ %-30s %6d iter %12.3e %12v\n",
				r.Name, r.Iterations, r.MaxDiff, r.Elapsed.Round(time.Millisecond))
		case "maxiter":
			maxiter++
			fmt.Printf("⏱ %-30s MAXITER after %d iter, diff %.3e\n",
				r.Name, r.Iterations, r.MaxDiff)
		case "error":
			failed++
			fmt.Printf("✗ %-30s ERROR: %s\n", r.Name, r.Error)
		}
	}

	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("Total: %d | Converged: %d | MaxIter: %d | Error: %d\n",
		len(records), converged, maxiter, failed)

	return nil
}
