// Package metasift extracts structured records from web pages. It fetches
// HTML with bounded retry and backoff, reads overlapping signals from each
// document (JSON-LD structured data, OpenGraph/Twitter meta tags, DOM
// heuristics), and resolves them in fixed priority order into one of two
// record types: an Article for news/blog pages or a PriceInfo for product
// pages.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, jsonl/).
package metasift
