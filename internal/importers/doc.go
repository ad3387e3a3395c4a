// Package importers runs clippings files through the parser and into storage.
//
// # Architecture
//
//	file / upload → clippings.FromBytes → Collection → Store.SaveCollection
//
// Every import is wrapped in an import session so that failures stay visible
// after the fact. A malformed block fails the whole import; nothing from that
// file is stored.
//
// # Adding a Locale
//
// Extra metadata grammars are passed straight to the parser:
//
//	pipeline := importers.NewPipeline(db, clippings.WithGrammar(myGrammar{}))
package importers
