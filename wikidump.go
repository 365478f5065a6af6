// Package wikidump streams MediaWiki XML dumps, keeps the articles that match
// category and template filters, and normalizes their wikitext bodies into
// plain text using a pool of workers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, bloom/, dump/).
package wikidump
