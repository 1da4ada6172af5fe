package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"

	"github.com/jaminalder/reversi/internal/app"
	"github.com/jaminalder/reversi/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string {
			switch c {
			case domain.Red:
				return "R"
			case domain.White:
				return "W"
			default:
				return ""
			}
		},
		"cellClass": func(c domain.Cell) string {
			switch c {
			case domain.Red:
				return "red"
			case domain.White:
				return "white"
			default:
				return "empty"
			}
		},
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Reversi</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.cell{width:48px;height:48px;border:1px solid #444;background:#f5deb3}
.cell.red{background:#c0392b;color:#fff}.cell.white{background:#fff}.cell.legal{background:#a8d8a0}
.row form{margin:0}
</style>
</head><body>{{template "content" .}}</body></html>`))
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Reversi</h1>
<div hx-ext="sse" sse-connect="/game/{{.View.ID}}/events">
  <div id="board-slot" sse-swap="board" hx-swap="innerHTML">{{template "board" .}}</div>
</div>`))
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const indexTemplate = `<h1>Reversi</h1>
<form action="/game" method="post">
  {{range $side := .}}
  <label>{{$side}}
    <select name="{{$side}}">
      <option value="human">human</option>
      <option value="first">first available</option>
      <option value="random">random</option>
      <option value="h1">mobility (H1)</option>
      <option value="h2">positional (H2)</option>
      <option value="minimax">minimax</option>
    </select>
  </label>
  {{end}}
  <label>depth <input type="number" name="depth" value="1" min="1" max="6"></label>
  <button>Create</button>
</form>`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="counters">Red: {{.View.RedDiscs}} | White: {{.View.WhiteDiscs}} | Total: {{.View.TotalDiscs}}</div>
  <div class="status">
    {{if .View.Winner}}Game over. Winner: {{.View.Winner}}
    {{else if eq .View.Status "must_pass"}}{{.View.Turn}} has no legal move and must pass
    {{else if eq .View.Status "reviewing"}}Reviewing history
    {{else}}{{.View.Turn}} to move{{end}}
  </div>
  <pre class="description">{{.View.Description}}</pre>
  {{range $r := iter 8}}
  <div class="row">
    {{range $c := iter 8}}
      {{$cell := index (index $.View.Board $r) $c}}
      {{if $.View.IsLegal $r $c}}
      <form hx-post="/game/{{$.View.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit" class="cell legal"></button>
      </form>
      {{else}}
      <span class="cell {{cellClass $cell}}">{{cellSymbol $cell}}</span>
      {{end}}
    {{end}}
  </div>
  {{end}}
  <div class="controls">
    <button hx-post="/game/{{.View.ID}}/undo" hx-target="#board" hx-swap="outerHTML"{{if not .View.CanUndo}} disabled{{end}}>Undo</button>
    <button hx-post="/game/{{.View.ID}}/redo" hx-target="#board" hx-swap="outerHTML"{{if not .View.CanRedo}} disabled{{end}}>Redo</button>
    {{if eq .View.Status "must_pass"}}
    <button hx-post="/game/{{.View.ID}}/pass" hx-target="#board" hx-swap="outerHTML">Pass</button>
    {{end}}
    {{if or .View.RedAI .View.WhiteAI}}
    <button hx-post="/game/{{.View.ID}}/ai" hx-target="#board" hx-swap="outerHTML">Engine move</button>
    {{end}}
  </div>
</div>
`

// boardData feeds both the game page and the board fragment.
type boardData struct {
	View  app.GameView
	Error string
}

func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
	return v
}
