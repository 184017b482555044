// BYZRA ⸻ internal/web/page.go
// the single page: drop zone, preview, four metadata views

package web

import (
	"html/template"

	"exifdrop/internal/present"
	"exifdrop/internal/session"
)

type pageData struct {
	CSRF    template.HTML
	Token   string
	Notice  string
	Snap    *session.Snapshot
	Views   present.Views
	Formats string
}

// all label and value text goes through html/template escaping
var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="csrf-token" content="{{.Token}}">
<title>exifdrop</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; max-width: 60rem; margin: 2rem auto; }
h2 { color: #ff5f87; font-size: 1rem; margin-top: 1.5rem; }
.notice { border: 1px solid #ff5f87; padding: .5rem; }
.drop { border: 2px dashed #555; padding: 2rem; text-align: center; }
.drop.over { border-color: #ff5f87; }
table { border-collapse: collapse; width: 100%; }
td { padding: .15rem .5rem; vertical-align: top; word-break: break-all; }
td:first-child { color: #999; white-space: nowrap; }
.empty { color: #666; font-style: italic; }
img { max-width: 100%; max-height: 24rem; }
form { display: inline; }
</style>
</head>
<body>
<h1>exifdrop</h1>
{{with .Notice}}<p class="notice" role="alert">{{.}}</p>{{end}}

{{if .Snap}}
{{with .Snap.Image}}
<p>{{.Name}} &middot; {{.MIMEType}} &middot; {{.HumanSize}} &middot; {{.Dimensions}}</p>
{{end}}
<p class="empty">{{.Snap.ProcessingTime}}</p>
<img src="/preview" alt="preview">
<p>
<a href="/download/original">Download original</a>
<form method="post" action="/download/stripped">{{.CSRF}}<button>Download without metadata</button></form>
<form method="post" action="/reset">{{.CSRF}}<button>Start over</button></form>
</p>
{{else}}
<form method="post" action="/load" enctype="multipart/form-data" id="load">
{{.CSRF}}
<div class="drop" id="drop">
<p>Drop an image here or choose one ({{.Formats}})</p>
<input type="file" name="file" accept="image/*" id="file">
<button>Show metadata</button>
</div>
</form>
{{end}}

{{define "view"}}
{{if .Count}}
<table>{{range .Items}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}</table>
{{else}}
<p class="empty">{{.Empty}}</p>
{{end}}
{{end}}

{{if .Snap}}
<h2>Camera ({{.Views.Camera.Count}})</h2>
{{template "view" .Views.Camera}}

<h2>Dates ({{.Views.Dates.Count}})</h2>
{{template "view" .Views.Dates}}

{{with .Views.GPS}}
<h2>Location</h2>
<table>{{range .Items}}<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}</table>
{{if .MapURL}}<p><a href="{{.MapURL}}" rel="noopener noreferrer" target="_blank">Open in maps</a></p>{{end}}
{{end}}

<h2>All metadata ({{.Views.All.Count}})</h2>
{{template "view" .Views.All}}
{{end}}

<script>
(function () {
  var drop = document.getElementById("drop"), file = document.getElementById("file");
  if (drop && file) {
    drop.addEventListener("dragover", function (e) { e.preventDefault(); drop.classList.add("over"); });
    drop.addEventListener("dragleave", function () { drop.classList.remove("over"); });
    drop.addEventListener("drop", function (e) {
      e.preventDefault();
      file.files = e.dataTransfer.files;
      document.getElementById("load").submit();
    });
    file.addEventListener("change", function () { document.getElementById("load").submit(); });
  }
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (m) {
    var ev = JSON.parse(m.data);
    if (ev.event !== "hello") { location.reload(); }
  };
})();
</script>
</body>
</html>
`))
