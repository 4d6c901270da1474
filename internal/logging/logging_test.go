package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLoggerVerbosity(t *testing.T) {
	color.NoColor = true

	cases := []struct {
		name     string
		logger   Logger
		wantOut  []string
		wantErr  []string
		emptyOut bool
	}{
		{"quiet", Logger{}, nil, []string{"[warn] always", "[error] failed"}, true},
		{"verbose", Logger{Verbose: true}, []string{"[info] info"}, []string{"[warn] warn", "[warn] always", "[error] failed"}, false},
		{"debug", Logger{Debug: true}, []string{"[info] info", "[debug] debug"}, []string{"[warn] warn"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := tc.logger
			l.Out, l.Err = &out, &errOut

			l.Infof("info")
			l.Debugf("debug")
			l.Warnf("warn")
			l.WarnfAlways("always")
			l.Errorf("failed")

			for _, want := range tc.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected stdout to contain %q, got %q", want, out.String())
				}
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(errOut.String(), want) {
					t.Errorf("Expected stderr to contain %q, got %q", want, errOut.String())
				}
			}
			if tc.emptyOut && out.Len() != 0 {
				t.Errorf("Expected no stdout output, got %q", out.String())
			}
		})
	}
}
