package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitriimaksimovdevelop/healthai/internal/model"
)

func TestWriteJSONToFile(t *testing.T) {
	d := &model.Dashboard{
		Period:      "30d",
		HealthScore: 100,
		Risk:        model.RiskLevel(100),
	}

	outPath := filepath.Join(t.TempDir(), "dashboard.json")
	if err := WriteJSON(d, outPath); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)
	for _, want := range []string{`"health_score": 100`, `"label": "Low Risk"`, `"period": "30d"`} {
		if !strings.Contains(content, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestWriteJSONBadPath(t *testing.T) {
	err := WriteJSON(map[string]int{"a": 1}, filepath.Join(t.TempDir(), "no", "such", "dir.json"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestEncodeJSONNoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, map[string]string{"rule": "glucose < 70"}); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "glucose < 70") {
		t.Errorf("output = %s", buf.String())
	}
}
