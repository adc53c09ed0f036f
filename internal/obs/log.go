package obs

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Structured JSON log lines keyed by an event name. Info and debug records
// share stdout with the tee output; error records go to stderr so failure
// text stays separable from observed traffic.
var (
	out          = log.New(os.Stdout, "", 0)
	errOut       = log.New(os.Stderr, "", 0)
	debugEnabled bool
)

// EnableDebug globally enables debug logs.
func EnableDebug(v bool) { debugEnabled = v }

type Fields map[string]any

func logWith(dst *log.Logger, level, msg string, f Fields) {
	if f == nil {
		f = Fields{}
	}
	f["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	f["level"] = level
	f["msg"] = msg
	b, err := json.Marshal(f)
	if err != nil {
		errOut.Printf("{\"level\":\"error\",\"msg\":\"log marshal failure\",\"err\":%q}", err.Error())
		return
	}
	dst.Println(string(b))
}

func Info(msg string, f Fields)  { logWith(out, "info", msg, f) }
func Warn(msg string, f Fields)  { logWith(out, "warn", msg, f) }
func Error(msg string, f Fields) { logWith(errOut, "error", msg, f) }
func Debug(msg string, f Fields) {
	if debugEnabled {
		logWith(out, "debug", msg, f)
	}
}
