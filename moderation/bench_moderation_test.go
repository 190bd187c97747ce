package moderation

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// Measures the cost of loading a large dictionary straight out of Badger
// keys and building the matcher from it, which is the startup path when
// the word list is maintained in the store rather than a file.
func Test_Moderation_Startup_Cost(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	wordCount := 100_000

	startSeed := time.Now()
	wb := db.NewWriteBatch()
	for i := 0; i < wordCount; i++ {
		key := []byte(fmt.Sprintf("censored:word_%d", i))
		_ = wb.Set(key, nil)
	}
	req.NoError(wb.Flush())
	t.Logf("seeding %d words: %v", wordCount, time.Since(startSeed))

	startLoad := time.Now()
	var words []string
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // the words live in the keys
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte("censored:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			words = append(words, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	req.NoError(err)
	t.Logf("loading from Badger: %v", time.Since(startLoad))

	startBuild := time.Now()
	_, err = NewModerator(words, '*', slog.Default())
	req.NoError(err)
	t.Logf("building the matcher: %v", time.Since(startBuild))
}
