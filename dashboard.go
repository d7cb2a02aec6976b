package rangeseek

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const metadataOpen = `<script type="application/json" id="stage-metadata">`

// DashboardEntry is one stage report listed on the dashboard.
type DashboardEntry struct {
	ReportSummary
	RelativePath string
	CreatedAt    time.Time
}

// GenerateDashboard writes baseDir/index.html linking every stage report
// found below baseDir, newest first. Index files without embedded metadata
// are not reports and are skipped.
func GenerateDashboard(baseDir string) (string, []DashboardEntry, error) {
	entries, err := scanStageReports(baseDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to scan stage reports: %w", err)
	}

	dashboardPath := filepath.Join(baseDir, "index.html")
	file, err := os.Create(dashboardPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create dashboard file: %w", err)
	}
	defer file.Close()

	data := struct {
		Reports     []DashboardEntry
		GeneratedAt time.Time
	}{
		Reports:     entries,
		GeneratedAt: time.Now(),
	}

	tmpl := template.Must(template.New("dashboard").Parse(dashboardTemplate))
	if err := tmpl.Execute(file, data); err != nil {
		return "", nil, fmt.Errorf("failed to execute dashboard template: %w", err)
	}
	return dashboardPath, entries, nil
}

func scanStageReports(baseDir string) ([]DashboardEntry, error) {
	var entries []DashboardEntry
	dashboardPath := filepath.Join(baseDir, "index.html")

	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "index.html" || path == dashboardPath {
			return nil
		}

		summary, err := extractSummary(path)
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		entries = append(entries, DashboardEntry{
			ReportSummary: summary,
			RelativePath:  getRelativePath(baseDir, path),
			CreatedAt:     info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// extractSummary reads the JSON metadata block of a stage report.
func extractSummary(htmlPath string) (ReportSummary, error) {
	content, err := os.ReadFile(htmlPath)
	if err != nil {
		return ReportSummary{}, err
	}
	htmlContent := string(content)

	start := strings.Index(htmlContent, metadataOpen)
	if start == -1 {
		return ReportSummary{}, errors.New("no stage metadata found")
	}
	start += len(metadataOpen)

	end := strings.Index(htmlContent[start:], "</script>")
	if end == -1 {
		return ReportSummary{}, errors.New("no script closing tag found")
	}

	var summary ReportSummary
	if err := json.Unmarshal([]byte(strings.TrimSpace(htmlContent[start:start+end])), &summary); err != nil {
		return ReportSummary{}, fmt.Errorf("failed to parse stage metadata: %w", err)
	}
	return summary, nil
}

// getRelativePath returns a relative path from base to target
func getRelativePath(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>rangeseek stages</title>
<style>
body { background: #0d1117; color: #c9d1d9; font-family: sans-serif; margin: 2em; }
a { color: #58a6ff; }
.pass { color: #3fb950; } .fail { color: #f85149; }
td, th { padding: 0.2em 0.8em; text-align: left; }
</style>
</head>
<body>
<h1>Stages</h1>
<p>{{len .Reports}} reports &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
<table>
<tr><th>Stage</th><th>Result</th><th>Frames</th><th>Duration</th><th>Run</th></tr>
{{range .Reports}}<tr>
<td><a href="{{.RelativePath}}">{{.StageName}}</a></td>
<td>{{if .Success}}<span class="pass">PASS</span>{{else}}<span class="fail">FAIL</span>{{end}}</td>
<td>{{.FrameCount}}</td>
<td>{{.Duration}}</td>
<td>{{.Timestamp}}</td>
</tr>
{{end}}</table>
</body>
</html>
`
