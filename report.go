package rangeseek

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StageReport is a self-contained record of one stage, rendered to HTML by
// HTMLReportGenerator.
type StageReport struct {
	ID           string            `json:"id"`
	StageName    string            `json:"stage_name"`
	Timestamp    string            `json:"timestamp"`
	Duration     time.Duration     `json:"duration"`
	Success      bool              `json:"success"`
	ErrorMessage string            `json:"error_message"`
	Frames       []FrameEntry      `json:"frames"`
	Actions      []ActionRecord    `json:"actions"`
	Snapshots    []SnapshotEntry   `json:"snapshots"`
	Metadata     map[string]string `json:"metadata"`
}

// ReportSummary is embedded in every report as JSON so that GenerateDashboard
// can index reports without parsing their HTML.
type ReportSummary struct {
	ID         string `json:"id"`
	StageName  string `json:"stageName"`
	Timestamp  string `json:"timestamp"`
	Duration   string `json:"duration"`
	Success    bool   `json:"success"`
	FrameCount int    `json:"frameCount"`
}

// Summary returns the report's embedded metadata.
func (r StageReport) Summary() ReportSummary {
	return ReportSummary{
		ID:         r.ID,
		StageName:  r.StageName,
		Timestamp:  r.Timestamp,
		Duration:   r.Duration.String(),
		Success:    r.Success,
		FrameCount: len(r.Frames),
	}
}

// FrameEntry is a captured frame, embedded in the report as a data URL.
type FrameEntry struct {
	Label    string       `json:"label"`
	Filename string       `json:"filename"`
	Step     int          `json:"step"`
	DataURL  template.URL `json:"data_url"`
}

// ActionRecord is one interaction performed during the stage.
type ActionRecord struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// SnapshotEntry is a view snapshot with its escape sequences rendered.
type SnapshotEntry struct {
	Reason string        `json:"reason"`
	State  string        `json:"state"`
	Steps  string        `json:"steps"`
	View   template.HTML `json:"view"`
}

// NewStageReport assembles a report from a stage result and the frames
// captured during it. Frames that cannot be read are listed without an
// image.
func NewStageReport(name string, result *StageResult, frames []string) StageReport {
	report := StageReport{
		ID:           uuid.NewString(),
		StageName:    name,
		Timestamp:    time.Now().Format(time.RFC3339),
		Duration:     result.Duration,
		Success:      result.Success,
		ErrorMessage: result.ErrorMessage,
		Metadata:     map[string]string{},
	}

	for i, path := range frames {
		entry := FrameEntry{
			Label:    frameLabel(path),
			Filename: filepath.Base(path),
			Step:     i,
		}
		if dataURL, err := convertImageToDataURL(path); err == nil {
			entry.DataURL = dataURL
		}
		report.Frames = append(report.Frames, entry)
	}

	for _, action := range result.Actions {
		report.Actions = append(report.Actions, ActionRecord{
			Type:      action.Type,
			Timestamp: action.Timestamp,
			Details:   fmt.Sprint(action.Details),
		})
	}

	for _, snapshot := range result.Snapshots {
		report.Snapshots = append(report.Snapshots, SnapshotEntry{
			Reason: snapshot.Reason,
			State:  snapshot.State,
			Steps:  fmt.Sprintf("%d..%d", snapshot.Lesser, snapshot.Larger),
			View:   ConvertANSIToHTML(snapshot.View),
		})
	}

	if len(result.Changes) > 0 {
		last := result.Changes[len(result.Changes)-1]
		report.Metadata["final_range"] = fmt.Sprintf("%g .. %g", last.Lesser, last.Larger)
	}
	report.Metadata["changes"] = fmt.Sprint(len(result.Changes))

	return report
}

// frameLabel recovers the label from frame_<date>_<time>_<n>_<label>.png.
func frameLabel(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.SplitN(name, "_", 5)
	if len(parts) == 5 && parts[0] == "frame" {
		return parts[4]
	}
	return name
}

// HTMLReportGenerator writes stage reports
type HTMLReportGenerator struct {
	outputDir string
	template  *template.Template
}

// NewHTMLReportGenerator creates a new report generator
func NewHTMLReportGenerator(outputDir string) *HTMLReportGenerator {
	return &HTMLReportGenerator{
		outputDir: outputDir,
		template:  template.Must(template.New("report").Parse(stageReportTemplate)),
	}
}

// GenerateReport writes report to index.html in the output directory and
// returns its path.
func (g *HTMLReportGenerator) GenerateReport(report StageReport) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	reportPath := filepath.Join(g.outputDir, "index.html")
	file, err := os.Create(reportPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := g.template.Execute(file, report); err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}
	return reportPath, nil
}

// convertImageToDataURL reads an image file and converts it to a base64 data URL
func convertImageToDataURL(imagePath string) (template.URL, error) {
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}

	var mimeType string
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".gif":
		mimeType = "image/gif"
	default:
		mimeType = "image/png"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))
	return template.URL(dataURL), nil
}

const stageReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.StageName}}</title>
<style>
body { background: #0d1117; color: #c9d1d9; font-family: sans-serif; margin: 2em; }
.pass { color: #3fb950; } .fail { color: #f85149; }
.view { background: #000; font-family: monospace; white-space: pre; padding: 0.5em; }
img { image-rendering: pixelated; border: 1px solid #30363d; }
td, th { padding: 0.2em 0.8em; text-align: left; }
</style>
<script type="application/json" id="stage-metadata">{{.Summary}}</script>
</head>
<body>
<h1>{{.StageName}}</h1>
<p>{{if .Success}}<span class="pass">PASS</span>{{else}}<span class="fail">FAIL</span> {{.ErrorMessage}}{{end}}
 &middot; {{.Duration}} &middot; {{.Timestamp}} &middot; run {{.ID}}</p>
{{range $k, $v := .Metadata}}<p>{{$k}}: {{$v}}</p>
{{end}}
<h2>Frames</h2>
{{range .Frames}}<figure>
{{if .DataURL}}<img src="{{.DataURL}}" alt="{{.Label}}">{{end}}
<figcaption>{{.Step}}: {{.Label}} ({{.Filename}})</figcaption>
</figure>
{{end}}
<h2>Actions</h2>
<table>
{{range .Actions}}<tr><td>{{.Timestamp.Format "15:04:05.000"}}</td><td>{{.Type}}</td><td>{{.Details}}</td></tr>
{{end}}</table>
<h2>Snapshots</h2>
{{range .Snapshots}}<h3>{{.Reason}} &middot; {{.State}} &middot; {{.Steps}}</h3>
<div class="view">{{.View}}</div>
{{end}}
</body>
</html>
`
