// Package scraper provides HTTP fetching and HTML parsing for the BJCP competition calendar.
//
// The scraper walks the paginated calendar at app.bjcp.org page by page, reading the first
// table on each page and turning every data row into a competition.Record. Pagination ends
// when a page has no table, when the table holds only its header row, or when the page
// ceiling is reached. Any transport failure or non-2xx response aborts the whole fetch.
package scraper
