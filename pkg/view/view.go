// Package view renders HTML pages with a shared layout and carries the
// one-request flash message outbox: a message stored during one request is
// rendered exactly once on the next page and then cleared.
package view

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/shopgo-app/shopgo/pkg/logger"
	"github.com/shopgo-app/shopgo/pkg/router"
	"github.com/shopgo-app/shopgo/pkg/session"
)

const flashKey = "message"

// Message is a flash-style notice rendered once by the layout.
type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	CSS     string `json:"css"` // bootstrap contextual class: success | warning | danger
}

// Data is the payload handed to a template.
type Data map[string]interface{}

var (
	mu        sync.RWMutex
	pages     = map[string]*template.Template{}
	appRouter *router.Router
)

// Boot parses every page template under dir against the shared layout and
// registers the router used by the {{url}} helper. Call once at startup.
func Boot(dir string, r *router.Router) error {
	layout := filepath.Join(dir, "layout.html")

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return fmt.Errorf("view: glob templates: %w", err)
	}

	parsed := map[string]*template.Template{}
	for _, page := range matches {
		name := filepath.Base(page)
		if name == "layout.html" {
			continue
		}

		t, err := template.New("layout.html").Funcs(funcMap(r)).ParseFiles(layout, page)
		if err != nil {
			return fmt.Errorf("view: parse %s: %w", name, err)
		}
		parsed[name[:len(name)-len(".html")]] = t
	}

	mu.Lock()
	pages = parsed
	appRouter = r
	mu.Unlock()

	return nil
}

func funcMap(r *router.Router) template.FuncMap {
	return template.FuncMap{
		// {{url "cart.show"}} or {{url "shop.category" "id" .Category.ID}}
		"url": func(name string, pairs ...interface{}) (string, error) {
			params := map[string]string{}
			for i := 0; i+1 < len(pairs); i += 2 {
				params[fmt.Sprint(pairs[i])] = fmt.Sprint(pairs[i+1])
			}
			return r.URL(name, params)
		},
		// {{if containsID .Form.CategoryIDs .ID}} — checkbox state on the
		// admin product form.
		"containsID": func(ids []uint, id uint) bool {
			for _, v := range ids {
				if v == id {
					return true
				}
			}
			return false
		},
		// {{num .Form.Price}} — numeric input value, empty when nil.
		"num": func(p *float64) string {
			if p == nil {
				return ""
			}
			return strconv.FormatFloat(*p, 'f', -1, 64)
		},
		// {{money .Product.Price}} — a nil price renders as a placeholder.
		"money": func(p *float64) string {
			if p == nil {
				return "Price TBA"
			}
			return fmt.Sprintf("$%.2f", *p)
		},
	}
}

// Flash queues a one-read message for the next rendered page.
func Flash(w http.ResponseWriter, r *http.Request, msg Message) {
	sess := session.FromCtx(r)
	sess.Flash(flashKey, msg)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("view: flash save", "error", err)
	}
}

// Render writes the named page wrapped in the layout. The flash message
// (if any) is consumed here — reading it clears it for good.
func Render(w http.ResponseWriter, r *http.Request, page string, data Data) {
	mu.RLock()
	t, ok := pages[page]
	mu.RUnlock()

	if !ok {
		logger.WithCtx(r.Context()).Error("view: unknown page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = Data{}
	}
	// Templates index into .Errors unconditionally.
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}

	sess := session.FromCtx(r)
	if raw, ok := sess.GetFlash(flashKey); ok {
		data["Message"] = decodeMessage(raw)
		if err := sess.Save(w); err != nil {
			logger.WithCtx(r.Context()).Warn("view: flash clear", "error", err)
		}
	}
	if uid, ok := sess.GetUint("user_id"); ok {
		data["UserID"] = uid
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		logger.WithCtx(r.Context()).Error("view: render", "page", page, "error", err)
	}
}

// decodeMessage tolerates both the in-process Message value and the
// map[string]interface{} shape it takes after a Redis JSON round-trip.
func decodeMessage(raw interface{}) Message {
	if msg, ok := raw.(Message); ok {
		return msg
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return Message{}
	}
	var msg Message
	_ = json.Unmarshal(b, &msg)
	return msg
}
