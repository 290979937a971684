// Package diagnostics describes operator-facing findings pushed to the
// preview socket.
package diagnostics

import "fmt"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func TestRunning(name string) Diagnostic {
	return Diagnostic{Severity: Info, Code: "TEST.RUNNING", Summary: "Running self test", Detail: name}
}

func TestDone(name string) Diagnostic {
	return Diagnostic{Severity: Info, Code: "TEST.DONE", Summary: "Self test complete", Detail: name}
}

func TestUnknown(name string) Diagnostic {
	return Diagnostic{
		Severity: Warn, Code: "TEST.UNKNOWN", Summary: "Unknown self test",
		Evidence: map[string]any{"name": name},
	}
}

// WriteFailed reports a frame the strip could not push.
func WriteFailed(err error) Diagnostic {
	return Diagnostic{
		Severity: Err,
		Code:     "LED.WRITE",
		Summary:  "LED frame write failed",
		Detail:   err.Error(),
		LikelyCauses: []string{
			"SPI not enabled or wrong device",
			"missing permission on /dev/spidev*",
		},
		SuggestedFixes: []string{
			"enable SPI and check spi.dev in the config",
			"run with driver: sim to rule out the wiring",
		},
	}
}

// Overruns reports ticks that fired before the previous one was taken.
func Overruns(overruns, fired uint64) Diagnostic {
	sev := Info
	if fired > 0 && overruns*20 > fired {
		sev = Warn
	}
	return Diagnostic{
		Severity: sev,
		Code:     "TICK.OVERRUN",
		Summary:  fmt.Sprintf("%d of %d ticks overran", overruns, fired),
		LikelyCauses: []string{
			"frame rate too high for the SPI clock",
		},
		Evidence: map[string]any{"overruns": overruns, "fired": fired},
	}
}

func SettingsSaved(ok bool) Diagnostic {
	if ok {
		return Diagnostic{Severity: Info, Code: "SETTINGS.SAVED", Summary: "Settings saved"}
	}
	return Diagnostic{
		Severity:       Err,
		Code:           "SETTINGS.SAVE_FAILED",
		Summary:        "Settings could not be saved",
		SuggestedFixes: []string{"check store.path is writable"},
	}
}

// ControlRejected reports a control message that was not understood.
func ControlRejected(err error) Diagnostic {
	return Diagnostic{Severity: Warn, Code: "CONTROL.REJECTED", Summary: "Control message rejected", Detail: err.Error()}
}
