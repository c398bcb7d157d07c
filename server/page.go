package server

import (
	"html/template"
	"io"
	"sync"

	"github.com/ChristianF88/crashgrid/output"
	"github.com/ChristianF88/crashgrid/render"
)

type pageData struct {
	Title         string
	Grid          template.HTML
	RowButtons    []output.Button
	ColumnButtons []output.Button
}

var (
	tmplIndex     *template.Template
	tmplIndexOnce sync.Once
)

func getIndexTemplate() *template.Template {
	tmplIndexOnce.Do(func() {
		tmplIndex = template.Must(template.New("index").Parse(indexTemplateStr))
	})
	return tmplIndex
}

// writeIndex renders the host page around the frame's inline grid
func writeIndex(w io.Writer, frame *output.Frame) error {
	return getIndexTemplate().Execute(w, pageData{
		Title:         "Crash Severity by Lighting Condition",
		Grid:          template.HTML(render.String(frame, render.Options{ID: "grid"})),
		RowButtons:    frame.RowButtons,
		ColumnButtons: frame.ColumnButtons,
	})
}

const indexTemplateStr = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; margin: 1.5em; }
  .controls { margin-bottom: 0.5em; }
  .controls button { margin: 0 0.25em 0.25em 0; padding: 0.3em 0.7em; border: 1px solid #888; cursor: pointer; }
  #inspect { min-height: 1.5em; color: #333; }
</style>
</head>
<body>
<h2>{{.Title}}</h2>
<div class="controls" id="rowButtons">
{{- range .RowButtons}}
  <button class="row-button" data-label="{{.Label}}" style="background-color: {{.Style.Background}}; color: {{.Style.Foreground}}">{{.Label}}</button>
{{- end}}
</div>
<div class="controls" id="columnButtons">
{{- range .ColumnButtons}}
  <button class="col-button" data-label="{{.Label}}" style="background-color: {{.Style.Background}}; color: {{.Style.Foreground}}">{{.Label}}</button>
{{- end}}
</div>
{{.Grid}}
<div id="inspect"></div>
<script>
const svgNS = "http://www.w3.org/2000/svg";

function styleButton(btn, b) {
  btn.style.backgroundColor = b.style.background;
  btn.style.color = b.style.foreground;
}

function apply(frame) {
  const grid = document.getElementById("grid");
  grid.querySelectorAll("text.freq-label").forEach(t => t.remove());
  frame.cells.forEach(c => {
    const rect = grid.querySelector('rect.square[data-row="' + c.row + '"][data-col="' + c.col + '"]');
    if (rect) rect.style.fill = c.fill;
    if (!c.labeled) return;
    const t = document.createElementNS(svgNS, "text");
    t.setAttribute("class", "freq-label");
    t.setAttribute("x", c.x + c.size / 2);
    t.setAttribute("y", c.y + c.size / 2);
    t.textContent = c.label;
    grid.appendChild(t);
  });
  const rows = document.querySelectorAll("#rowButtons button");
  frame.row_buttons.forEach((b, i) => styleButton(rows[i], b));
  const cols = document.querySelectorAll("#columnButtons button");
  frame.column_buttons.forEach((b, i) => styleButton(cols[i], b));
}

function post(url) {
  return fetch(url, { method: "POST" })
    .then(r => r.json())
    .then(resp => { if (resp.data) apply(resp.data); });
}

document.querySelectorAll(".row-button").forEach(btn =>
  btn.addEventListener("click", () => post("/api/v1/toggle/row/" + encodeURIComponent(btn.dataset.label))));
document.querySelectorAll(".col-button").forEach(btn =>
  btn.addEventListener("click", () => post("/api/v1/toggle/column/" + encodeURIComponent(btn.dataset.label))));

document.querySelectorAll("#grid rect.square").forEach(rect =>
  rect.addEventListener("click", () => {
    fetch("/api/v1/cells/" + rect.dataset.row + "/" + rect.dataset.col)
      .then(r => r.json())
      .then(resp => {
        const d = resp.data;
        document.getElementById("inspect").textContent =
          "Square clicked at row: " + (d.cell.row + 1) + ", column: " + (d.cell.col + 1) +
          " (" + d.row + " / " + d.column + (d.active ? ", frequency " + d.frequency : "") + ")";
      });
  }));
</script>
</body>
</html>
`
