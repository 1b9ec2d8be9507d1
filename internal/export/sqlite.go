package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/grobinson/webminer/internal/record"
)

const timeLayout = "2006-01-02T15:04:05Z"

const schema = `
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    title TEXT,
    text_content TEXT,
    html_content TEXT,
    processed_time TEXT
);
CREATE TABLE IF NOT EXISTS keywords (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    keyword TEXT NOT NULL,
    FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    link TEXT NOT NULL,
    FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    image TEXT NOT NULL,
    FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS metadata (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT,
    FOREIGN KEY (page_id) REFERENCES pages(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
CREATE INDEX IF NOT EXISTS idx_keywords_page_id ON keywords(page_id);
CREATE INDEX IF NOT EXISTS idx_keywords_keyword ON keywords(keyword);
CREATE INDEX IF NOT EXISTS idx_links_page_id ON links(page_id);
CREATE INDEX IF NOT EXISTS idx_links_link ON links(link);
CREATE INDEX IF NOT EXISTS idx_images_page_id ON images(page_id);
CREATE INDEX IF NOT EXISTS idx_metadata_page_id ON metadata(page_id);
`

// Database writes records into the sqlite file at path, creating the
// schema when missing. The whole batch is one transaction: each page
// row replaces any previous row with the same URL and the child rows
// cascade from it, and a failure on any record rolls back every
// record.
func Database(ctx context.Context, records []record.Record, path string) error {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("open database %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		if err := insertRecord(ctx, tx, rec); err != nil {
			return fmt.Errorf("store %s: %w", rec.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec record.Record) error {
	res, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO pages (url, title, text_content, html_content, processed_time)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.URL, rec.Title, rec.TextContent, rec.HTMLContent,
		rec.ProcessedTime.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	pageID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("page id: %w", err)
	}

	for _, kw := range rec.Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO keywords (page_id, keyword) VALUES (?, ?)`, pageID, kw); err != nil {
			return fmt.Errorf("insert keyword: %w", err)
		}
	}
	for _, link := range rec.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (page_id, link) VALUES (?, ?)`, pageID, link); err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
	}
	for _, img := range rec.Images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO images (page_id, image) VALUES (?, ?)`, pageID, img); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	for key, value := range rec.Metadata {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO metadata (page_id, key, value) VALUES (?, ?, ?)`, pageID, key, value); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}
	}
	return nil
}
