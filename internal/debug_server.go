package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

// InspectRow is one rendered key/value pair of the Badger store.
type InspectRow struct {
	Key      string
	Type     string
	EntityID string
	Created  string
	Detail   string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer exposes a read-only HTML view of the raw Badger keys
// plus live service stats. Development aid only; it is bound behind the
// debug log level and never enabled in normal operation.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "post:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DefaultMapper decodes the JSON documents of the feed key space. Index
// entries (feed order, email lookup) are shown raw.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:      key,
		Type:     "RAW",
		EntityID: "--------",
		Created:  "--:--:--",
		Detail:   fmt.Sprintf("Size: %d bytes", len(val)),
	}

	var doc struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(val, &doc); err != nil || doc.ID == "" {
		return row
	}

	row.EntityID = doc.ID
	if len(row.EntityID) > 8 {
		row.EntityID = row.EntityID[:8]
	}
	if !doc.CreatedAt.IsZero() {
		row.Created = doc.CreatedAt.Format("15:04:05")
	}

	switch {
	case strings.HasPrefix(key, "post:item:"):
		row.Type = "POST"
		row.Detail = doc.Text
	case strings.HasPrefix(key, "user:id:"):
		row.Type = "USER"
		row.Detail = fmt.Sprintf("%s <%s>", doc.Username, doc.Email)
	}
	return row
}
