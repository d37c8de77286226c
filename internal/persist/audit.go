package persist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// AuditRecord is one line of the breath audit log.
type AuditRecord struct {
	NowMs       int64  `json:"t"`
	Kind        string `json:"kind"` // "breath", "damage", "died"
	Entity      string `json:"entity"`
	IsBreathing *bool  `json:"is_breathing,omitempty"`
	StartMs     *int64 `json:"start_ms,omitempty"`
	EndMs       *int64 `json:"end_ms,omitempty"`
	// NextDamageMs is omitted when no damage is scheduled.
	NextDamageMs *int64 `json:"next_damage_ms,omitempty"`
	Cleared      bool   `json:"cleared,omitempty"`
	Amount       uint32 `json:"amount,omitempty"`
	Medium       string `json:"medium,omitempty"`
	HP           *int32 `json:"hp,omitempty"`
	Cause        string `json:"cause,omitempty"`
}

// AuditLog appends AuditRecords as zstd-compressed JSON lines.
type AuditLog struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

// OpenAuditLog creates a new log file named <prefix>-<unix seconds>.jsonl.zst
// under dir.
func OpenAuditLog(dir, prefix string, now time.Time) (*AuditLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.jsonl.zst", prefix, now.Unix()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &AuditLog{path: path, f: f, enc: enc, w: bufio.NewWriterSize(enc, 32*1024)}, nil
}

func (l *AuditLog) Path() string { return l.path }

func (l *AuditLog) Write(rec AuditRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return fmt.Errorf("audit log closed")
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// Flush pushes buffered lines through the compressor to the file.
func (l *AuditLog) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return nil
	}
	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.enc.Flush()
}

func (l *AuditLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return nil
	}
	var firstErr error
	if err := l.w.Flush(); err != nil {
		firstErr = err
	}
	if err := l.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := l.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	l.w, l.enc, l.f = nil, nil, nil
	return firstErr
}

// ReadAuditLog decodes every record of a log written by AuditLog.
func ReadAuditLog(path string) ([]AuditRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var recs []AuditRecord
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		var r AuditRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return recs, fmt.Errorf("audit line %d: %w", line, err)
		}
		recs = append(recs, r)
	}
	if err := sc.Err(); err != nil {
		return recs, fmt.Errorf("read audit log: %w", err)
	}
	return recs, nil
}
