package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zgsm-ai/tool-reply/internal/config"
	"github.com/zgsm-ai/tool-reply/internal/logger"
	"github.com/zgsm-ai/tool-reply/internal/model"
	"go.uber.org/zap"
)

// LogRecordInterface defines the interface for the request log service
type LogRecordInterface interface {
	// Start starts the log service
	Start() error
	// Stop stops the log service, draining buffered entries
	Stop()
	// LogAsync records a formatting request asynchronously
	LogAsync(log *model.FormatLog)
	// SetMetricsService wires the metrics sink fed during processing
	SetMetricsService(metricsService MetricsInterface)
}

// LogRecordService buffers request logs on a channel, writes them to temp
// files, and periodically ships them to Loki and permanent storage.
type LogRecordService struct {
	logFilePath     string // Permanent storage log directory path
	tempLogFilePath string // Temporary log file path
	lokiEndpoint    string
	scanInterval    time.Duration
	metricsService  MetricsInterface

	logChan  chan *model.FormatLog
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex

	processorStarted bool
}

// NewLogRecordService creates a new request log service
func NewLogRecordService(c config.Config) LogRecordInterface {
	tempLogDir := filepath.Join(c.Log.LogFilePath, "temp")

	scanInterval := time.Duration(c.Log.LogScanIntervalSec) * time.Second
	if scanInterval <= 0 {
		scanInterval = 60 * time.Second
	}

	return &LogRecordService{
		logFilePath:     c.Log.LogFilePath,
		tempLogFilePath: tempLogDir,
		lokiEndpoint:    c.Log.LokiEndpoint,
		scanInterval:    scanInterval,
		logChan:         make(chan *model.FormatLog, 1000),
		stopChan:        make(chan struct{}),
	}
}

// SetMetricsService sets the metrics service for the log processor
func (ls *LogRecordService) SetMetricsService(metricsService MetricsInterface) {
	ls.metricsService = metricsService
}

// Start starts the log service
func (ls *LogRecordService) Start() error {
	logger.Info("==> Start log record service")
	if err := os.MkdirAll(ls.logFilePath, 0755); err != nil {
		return fmt.Errorf("failed to create permanent log directory: %w", err)
	}
	if err := os.MkdirAll(ls.tempLogFilePath, 0755); err != nil {
		return fmt.Errorf("failed to create temp log directory: %w", err)
	}

	ls.wg.Add(1)
	go ls.logWriter()

	return nil
}

// Stop stops the log service
func (ls *LogRecordService) Stop() {
	close(ls.stopChan)
	close(ls.logChan)
	ls.wg.Wait()
}

// LogAsync records a formatting request without blocking the caller
func (ls *LogRecordService) LogAsync(log *model.FormatLog) {
	select {
	case ls.logChan <- log:
	default:
		// Channel is full, write synchronously to avoid losing the entry
		ls.logSync(log)
	}

	if !ls.processorStarted {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if !ls.processorStarted {
			ls.processorStarted = true
			ls.wg.Add(1)
			go ls.logProcessor()
		}
	}
}

// logWriter writes buffered logs to temp files
func (ls *LogRecordService) logWriter() {
	defer ls.wg.Done()

	for {
		select {
		case log := <-ls.logChan:
			if log != nil {
				ls.logSync(log)
			}
		case <-ls.stopChan:
			// Process remaining logs
			for len(ls.logChan) > 0 {
				log := <-ls.logChan
				if log != nil {
					ls.logSync(log)
				}
			}
			return
		}
	}
}

// writeLogToFile writes log content to the specified file path
func (ls *LogRecordService) writeLogToFile(filePath string, content string, mode int) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, mode, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	contentBytes := append([]byte(content), '\n')
	if _, err := file.Write(contentBytes); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// sanitizeFilename cleans a string to make it safe for use in file names
func (ls *LogRecordService) sanitizeFilename(name string, defaultName string) string {
	if name == "" {
		return defaultName
	}

	invalidChars := []string{"\\", "/", ":", "*", "?", "\"", "<", ">", "|", "\x00", "\n", "\r", "\t"}
	for i := 0; i < 32; i++ {
		invalidChars = append(invalidChars, string(rune(i)))
	}
	for _, c := range invalidChars {
		name = strings.ReplaceAll(name, c, "")
	}

	// Limit length to 255 bytes for Linux compatibility
	if len(name) > 255 {
		name = name[:255]
	}

	return name
}

// generateRandomNumber creates a 6-digit random number from 100000 to 999999
func (ls *LogRecordService) generateRandomNumber() int {
	return rand.Intn(900000) + 100000
}

// logSync writes a log entry to a temp file synchronously
func (ls *LogRecordService) logSync(log *model.FormatLog) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	datePart := log.Timestamp.Format("20060102")
	timePart := log.Timestamp.Format("150405")
	agent := ls.sanitizeFilename(log.Identity.AgentID, "unknown")
	randNum := ls.generateRandomNumber()
	filename := fmt.Sprintf("%s-%s-%s-%d.log", datePart, timePart, agent, randNum)
	filePath := filepath.Join(ls.tempLogFilePath, filename)

	logJSON, err := log.ToJSON()
	if err != nil {
		logger.Error("Failed to marshal log",
			zap.Error(err),
		)
		return
	}

	if err := ls.writeLogToFile(filePath, logJSON, os.O_CREATE|os.O_WRONLY); err != nil {
		logger.Error("Failed to write temp log",
			zap.Error(err),
		)
	}
}

// logProcessor ships accumulated temp logs periodically
func (ls *LogRecordService) logProcessor() {
	logger.Info("==> start logProcessor")
	defer ls.wg.Done()

	ticker := time.NewTicker(ls.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ls.processLogs()
		case <-ls.stopChan:
			// Process logs one last time before stopping
			ls.processLogs()
			return
		}
	}
}

// processLogs reads temp log files one by one, records metrics, ships each
// to Loki when configured, and moves it to permanent storage
func (ls *LogRecordService) processLogs() {
	files, err := os.ReadDir(ls.tempLogFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		logger.Error("Failed to list log files",
			zap.Error(err),
		)
		return
	}

	if len(files) == 0 {
		return
	}

	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".log") && !strings.HasSuffix(name, ".json") {
			continue
		}
		filePath := filepath.Join(ls.tempLogFilePath, name)
		fileContent, err := os.ReadFile(filePath)
		if err != nil {
			logger.Error("Failed to read log file",
				zap.String("filename", name),
				zap.Error(err),
			)
			continue
		}

		formatLog, err := model.FromJSON(string(fileContent))
		if err != nil {
			logger.Error("Failed to parse log file",
				zap.String("filename", name),
				zap.Error(err),
			)
			continue
		}

		// Loki shipping is optional; a failed upload keeps the temp file for
		// the next scan
		if ls.lokiEndpoint != "" {
			if success := ls.uploadToLoki(formatLog); !success {
				logger.Error("Loki upload failed, keeping log file",
					zap.String("filename", name),
				)
				continue
			}
		}

		if ls.metricsService != nil {
			ls.metricsService.RecordFormatLog(formatLog)
		}

		ls.saveLogToPermanentStorage(formatLog)
		ls.deleteTempLogFile(filePath)
	}
}

// uploadToLoki uploads a single log to Loki
func (ls *LogRecordService) uploadToLoki(formatLog *model.FormatLog) bool {
	lokiStream := model.CreateLokiStream(formatLog)
	lokiBatch := model.LogBatch{Streams: []model.LogStream{*lokiStream}}
	jsonData, err := json.Marshal(lokiBatch)
	if err != nil {
		logger.Error("Failed to marshal Loki data",
			zap.String("operation", "uploadToLoki"),
			zap.Error(err),
		)
		return false
	}

	req, err := http.NewRequest(http.MethodPost, ls.lokiEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Error("Failed to create Loki request",
			zap.String("operation", "uploadToLoki"),
			zap.Error(err),
		)
		return false
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("Failed to upload to Loki",
			zap.String("operation", "uploadToLoki"),
			zap.Error(err),
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if readErr != nil {
			logger.Error("Loki upload failed",
				zap.String("operation", "uploadToLoki"),
				zap.Int("status", resp.StatusCode),
				zap.Error(readErr),
			)
		} else {
			logger.Error("Loki upload failed",
				zap.String("operation", "uploadToLoki"),
				zap.Int("status", resp.StatusCode),
				zap.String("response", string(body)),
			)
		}
		return false
	}

	return true
}

// saveLogToPermanentStorage saves a single log under year-month/day/agent
func (ls *LogRecordService) saveLogToPermanentStorage(formatLog *model.FormatLog) {
	if formatLog == nil {
		return
	}

	yearMonth := formatLog.Timestamp.Format("2006-01")
	day := formatLog.Timestamp.Format("02")
	agent := ls.sanitizeFilename(formatLog.Identity.AgentID, "unknown")

	dateDir := filepath.Join(ls.logFilePath, yearMonth, day, agent)

	timestamp := formatLog.Timestamp.Format("20060102-150405")
	requestID := formatLog.Identity.RequestID
	if requestID == "" {
		requestID = "null"
	}
	filename := fmt.Sprintf("%s_%s_%d.log", timestamp, requestID, ls.generateRandomNumber())

	logFile := filepath.Join(dateDir, filename)

	logJSON, err := formatLog.ToJSON()
	if err != nil {
		logger.Error("Failed to marshal log for permanent storage",
			zap.Error(err),
		)
		return
	}

	if err := ls.writeLogToFile(logFile, logJSON, os.O_CREATE|os.O_WRONLY); err != nil {
		logger.Error("Failed to write log to permanent storage",
			zap.Error(err),
		)
	}
}

// deleteTempLogFile deletes a single temp log file
func (ls *LogRecordService) deleteTempLogFile(filePath string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if err := os.Remove(filePath); err != nil {
		logger.Error("Failed to remove temp log file",
			zap.String("filename", filepath.Base(filePath)),
			zap.Error(err),
		)
	}
}
