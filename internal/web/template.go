package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/board-samples/internal/logic"
	"github.com/sweeney/board-samples/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"value": formatValue,
}).Parse(indexHTML))

// formatValue renders a reading the way it is meaningful for its kind.
func formatValue(kind logic.Kind, r *logic.Reading) string {
	if r == nil {
		return "none yet"
	}
	switch kind {
	case logic.KindAnalog:
		return fmt.Sprintf("%d (%.3f V)", r.Raw, r.Value)
	case logic.KindPWM:
		return fmt.Sprintf("%.0f%% duty", r.Value*100)
	}
	return fmt.Sprintf("%d", r.Raw)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Kind}} pin {{.Pin}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>{{.Kind}} pin {{.Pin}}</h1>

<h2>Pin</h2>
<table>
<tr><th>Value</th><td id="value">{{value .Kind .Last}}</td></tr>
{{if .Last}}<tr><th>At</th><td>{{.Last.Timestamp.UTC.Format "2006-01-02T15:04:05.000Z"}}</td></tr>{{end}}
<tr><th>Board</th><td>{{.Config.Board}}</td></tr>
{{if .Config.Driver}}<tr><th>Driver</th><td>{{.Config.Driver}}</td></tr>{{end}}
</table>

<h2>Counts</h2>
<table>
<tr><th>Samples</th><td>{{.Counts.Samples}}</td></tr>
<tr><th>Faults</th><td>{{.Counts.Faults}}</td></tr>
{{if eq (printf "%s" .Kind) "digital-in"}}<tr><th>Transitions</th><td>{{.Counts.Transitions}}</td></tr>{{end}}
{{if eq (printf "%s" .Kind) "pwm"}}<tr><th>Ramp cycles</th><td>{{.Counts.Cycles}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Interval</th><td>{{if eq .Config.IntervalMs 0}}none{{else}}{{.Config.IntervalMs}}ms{{end}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// pageData shadows Snapshot's Uptime method with a field the template can
// pass to the uptime function.
type pageData struct {
	status.Snapshot
	Uptime time.Duration
}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	return indexTmpl.Execute(w, pageData{Snapshot: snap, Uptime: snap.Uptime()})
}
