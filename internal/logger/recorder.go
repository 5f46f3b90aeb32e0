package logger

import "sync"

// Entry is a single call captured by a Recorder.
type Entry struct {
	Level   string
	Message string
	KeyVals []any
}

// Recorder is a Logger that keeps every entry in memory. Tests use it to
// assert on warnings for dropped data.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) record(level, message string, keyvals []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message, KeyVals: keyvals})
}

func (r *Recorder) Debug(message string, keyvals ...any) { r.record("debug", message, keyvals) }
func (r *Recorder) Info(message string, keyvals ...any)  { r.record("info", message, keyvals) }
func (r *Recorder) Warn(message string, keyvals ...any)  { r.record("warn", message, keyvals) }
func (r *Recorder) Error(message string, keyvals ...any) { r.record("error", message, keyvals) }
func (r *Recorder) Fatal(message string, keyvals ...any) { r.record("fatal", message, keyvals) }

// Entries returns the captured entries at level, or all of them when level is empty.
func (r *Recorder) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
