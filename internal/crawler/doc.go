// Package crawler implements the same-host crawl engine: frontier and
// visited bookkeeping, the page budget, fetching with retries, and
// persistence of raw HTML snapshots to disk.
package crawler
