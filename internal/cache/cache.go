package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

var log = logrus.WithField("component", "cache")

// Cache is a content-addressed build cache: the digest of every source file
// in the project maps to the script emitted for it. Backed by a SQLite file
// next to the project.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS builds (
		digest     TEXT PRIMARY KEY,
		script     TEXT NOT NULL,
		run_id     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached script for digest, if any.
func (c *Cache) Get(digest string) (string, bool, error) {
	var script string
	err := c.db.QueryRow(`SELECT script FROM builds WHERE digest = ?`, digest).Scan(&script)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return script, true, nil
}

// Put stores the script under digest, stamped with the run id.
func (c *Cache) Put(digest, script, runID string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO builds (digest, script, run_id, created_at) VALUES (?, ?, ?, ?)`,
		digest, script, runID, time.Now().UTC().Format(time.RFC3339),
	)
	if err == nil {
		short := digest
		if len(short) > 12 {
			short = short[:12]
		}
		log.WithFields(logrus.Fields{"digest": short, "run": runID}).Debug("build cached")
	}
	return err
}

// ProjectDigest hashes every source file under root (path and content) into
// one hex digest. File order is sorted, so the digest is reproducible.
func ProjectDigest(root string, hasSourceExt func(string) bool) (string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !hasSourceExt(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, path := range paths {
		fmt.Fprintf(h, "%s\n", path)
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return "", err
		}
		f.Close()
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
