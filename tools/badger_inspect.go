package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"feed-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// badger_inspect dumps the stored documents as a table, for poking at a
// live database directory without going through the HTTP surface.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// Par défaut on cherche "post:item:" pour éviter de percuter les index de feed
	prefix := flag.String("prefix", "post:item:", "Prefix to scan (post:item: or user:id:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.New(color.BgBlack, color.FgGreen).Printf("  ====== scanning %s ======\n", *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Created", "Entity ID", "Detail", "Counters"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Les index secondaires ne portent que des identifiants
			if strings.HasPrefix(rawKey, "post:feed:") || strings.HasPrefix(rawKey, "user:email:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(describe(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func describe(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "post:item:"):
		var post repositories.Post
		if err := json.Unmarshal(val, &post); err != nil {
			return []string{key, "POST", "", "", fmt.Sprintf("unmarshal error: %v", err), ""}
		}
		return []string{
			key,
			"POST",
			post.CreatedAt.Format("15:04:05"),
			shortID(post.ID),
			post.Text,
			fmt.Sprintf("likes:%d comments:%d", len(post.Likes), len(post.Comments)),
		}
	case strings.HasPrefix(key, "user:id:"):
		var user repositories.User
		if err := json.Unmarshal(val, &user); err != nil {
			return []string{key, "USER", "", "", fmt.Sprintf("unmarshal error: %v", err), ""}
		}
		return []string{
			key,
			"USER",
			user.CreatedAt.Format("15:04:05"),
			shortID(user.ID),
			fmt.Sprintf("%s <%s>", user.Username, user.Email),
			"",
		}
	default:
		return []string{key, "RAW", "", "", fmt.Sprintf("%d bytes", len(val)), ""}
	}
}

// On affiche les 8 premiers caractères de l'identifiant pour la lisibilité
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
