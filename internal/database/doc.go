// Package database stores imported clippings in SQLite through gorm.
//
// # Schema
//
//	books            one row per distinct (title, author)
//	clippings        parsed records, unique by external_id
//	import_sessions  one row per import attempt
//
// # Deduplication
//
// Every clipping gets a name-based UUID (ExternalID) computed from all of its
// parsed fields. Kindle appends to "My Clippings.txt" forever, so importing the
// same file again only stores the records added since the last run.
//
// # Usage
//
//	db, err := database.NewDatabase("./whoarder.db")
//	coll, err := clippings.Load("My Clippings.txt")
//	result, err := db.SaveCollection(coll)
package database
